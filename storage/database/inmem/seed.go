package inmemdb

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/darasoft/shule/core/message"
	"github.com/darasoft/shule/core/school"
	"github.com/darasoft/shule/core/user"
)

// DemoPassword is the password every seed account logs in with.
const DemoPassword = "password"

// SeedDemoData loads the fixed demo records: a user per role plus a
// second unrelated teacher/student pair, two classes, an assignment,
// an attendance entry and a message.
// Called once at process start; a restart resets to exactly this state.
func SeedDemoData(db *DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := &user.User{
		ID:           uuid.New().String(),
		Name:         "Admin",
		Email:        "admin@school.edu",
		Role:         user.RolePrincipal,
		AvatarURL:    "/avatar-placeholder.svg",
		PasswordHash: hash,
	}
	teacherUser := &user.User{
		ID:           uuid.New().String(),
		Name:         "Teacher",
		Email:        "teacher@school.edu",
		Role:         user.RoleTeacher,
		AvatarURL:    "/avatar-placeholder.svg",
		PasswordHash: hash,
	}
	studentUser := &user.User{
		ID:           uuid.New().String(),
		Name:         "Student",
		Email:        "student@school.edu",
		Role:         user.RoleStudent,
		AvatarURL:    "/avatar-placeholder.svg",
		PasswordHash: hash,
	}
	parentUser := &user.User{
		ID:           uuid.New().String(),
		Name:         "Parent",
		Email:        "parent@school.edu",
		Role:         user.RoleParent,
		AvatarURL:    "/avatar-placeholder.svg",
		PasswordHash: hash,
	}
	for _, usr := range []*user.User{adminUser, teacherUser, studentUser, parentUser} {
		db.user.table[usr.ID] = usr
	}

	principal := &school.Principal{
		ID:       uuid.New().String(),
		UserID:   adminUser.ID,
		SchoolID: "school-1",
	}
	teacher := &school.Teacher{
		ID:         uuid.New().String(),
		UserID:     teacherUser.ID,
		ClassIDs:   []string{},
		SubjectIDs: []string{"math", "science"},
	}
	student := &school.Student{
		ID:        uuid.New().String(),
		UserID:    studentUser.ID,
		Grade:     10,
		ClassIDs:  []string{},
		ParentIDs: []string{},
	}
	parent := &school.Parent{
		ID:         uuid.New().String(),
		UserID:     parentUser.ID,
		StudentIDs: []string{student.ID},
	}
	student.ParentIDs = append(student.ParentIDs, parent.ID)

	db.school.principals[principal.ID] = principal
	db.school.teachers[teacher.ID] = teacher
	db.school.students[student.ID] = student
	db.school.parents[parent.ID] = parent

	class := &school.Class{
		ID:         uuid.New().String(),
		Name:       "Mathematics 101",
		TeacherID:  teacher.ID,
		StudentIDs: []string{student.ID},
		Subject:    "Mathematics",
		Schedule: []school.ScheduleSlot{
			{Day: "Monday", StartTime: "09:00", EndTime: "10:30"},
			{Day: "Wednesday", StartTime: "09:00", EndTime: "10:30"},
		},
	}
	teacher.ClassIDs = append(teacher.ClassIDs, class.ID)
	student.ClassIDs = append(student.ClassIDs, class.ID)
	db.school.classes[class.ID] = class

	// a second cohort, unrelated to the first
	teacher2User := &user.User{
		ID:           uuid.New().String(),
		Name:         "Ms. Rivera",
		Email:        "teacher2@school.edu",
		Role:         user.RoleTeacher,
		AvatarURL:    "/avatar-placeholder.svg",
		PasswordHash: hash,
	}
	student2User := &user.User{
		ID:           uuid.New().String(),
		Name:         "Jamie Lee",
		Email:        "student2@school.edu",
		Role:         user.RoleStudent,
		AvatarURL:    "/avatar-placeholder.svg",
		PasswordHash: hash,
	}
	db.user.table[teacher2User.ID] = teacher2User
	db.user.table[student2User.ID] = student2User

	teacher2 := &school.Teacher{
		ID:         uuid.New().String(),
		UserID:     teacher2User.ID,
		ClassIDs:   []string{},
		SubjectIDs: []string{"science"},
	}
	student2 := &school.Student{
		ID:        uuid.New().String(),
		UserID:    student2User.ID,
		Grade:     11,
		ClassIDs:  []string{},
		ParentIDs: []string{},
	}
	db.school.teachers[teacher2.ID] = teacher2
	db.school.students[student2.ID] = student2

	class2 := &school.Class{
		ID:         uuid.New().String(),
		Name:       "Science 201",
		TeacherID:  teacher2.ID,
		StudentIDs: []string{student2.ID},
		Subject:    "Science",
		Schedule: []school.ScheduleSlot{
			{Day: "Tuesday", StartTime: "11:00", EndTime: "12:30"},
		},
	}
	teacher2.ClassIDs = append(teacher2.ClassIDs, class2.ID)
	student2.ClassIDs = append(student2.ClassIDs, class2.ID)
	db.school.classes[class2.ID] = class2

	now := time.Now().UTC()

	assignment := &school.Assignment{
		ID:          uuid.New().String(),
		Title:       "Algebra Basics",
		Description: "Complete problems 1-10 in Chapter 3",
		ClassID:     class.ID,
		DueDate:     now.Add(7 * 24 * time.Hour),
		CreatedAt:   now,
		MaxPoints:   100,
	}
	db.school.assignments[assignment.ID] = assignment

	attendance := &school.Attendance{
		ID:        uuid.New().String(),
		StudentID: student.ID,
		ClassID:   class.ID,
		Date:      now.Format("2006-01-02"),
		Status:    school.AttendancePresent,
	}
	db.school.attendance[attendance.ID] = attendance

	msg := &message.Message{
		ID:          uuid.New().String(),
		SenderID:    teacherUser.ID,
		RecipientID: parentUser.ID,
		Subject:     "Regarding upcoming parent-teacher meeting",
		Content:     "I would like to discuss your child's progress in mathematics class.",
		Read:        false,
		CreatedAt:   now,
	}
	db.message.table[msg.ID] = msg

	return nil
}
