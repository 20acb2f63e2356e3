package school

import (
	"errors"
	"strings"
	"time"

	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/user"
)

var (
	// errors
	ErrStudentNotFound    = errors.New("Student not found")
	ErrParentNotFound     = errors.New("Parent profile not found")
	ErrTeacherNotFound    = errors.New("Teacher profile not found")
	ErrPrincipalNotFound  = errors.New("Principal profile not found")
	ErrClassNotFound      = errors.New("Class not found")
	ErrAssignmentNotFound = errors.New("Assignment not found")
)

type (
	Repository interface {
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByUserID(userID string) (Student, error)
		GetStudentsByClassID(classID string) ([]Student, error)

		GetParentByUserID(userID string) (Parent, error)

		QueryAllTeachers() ([]Teacher, error)
		GetTeacherByID(id string) (Teacher, error)
		GetTeacherByUserID(userID string) (Teacher, error)

		GetPrincipalByUserID(userID string) (Principal, error)

		QueryAllClasses() ([]Class, error)
		GetClassByID(id string) (Class, error)
		GetClassesByTeacherID(teacherID string) ([]Class, error)
		GetClassesByStudentID(studentID string) ([]Class, error)

		QueryAllAssignments() ([]Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)
		GetAssignmentsByClassID(classID string) ([]Assignment, error)
		CreateAssignment(a Assignment) (Assignment, error)

		QueryAllGrades() ([]Grade, error)
		GetGradesByStudentID(studentID string) ([]Grade, error)
		GetGradesByAssignmentID(assignmentID string) ([]Grade, error)
		CreateGrade(g Grade) (Grade, error)

		QueryAllAttendance() ([]Attendance, error)
		GetAttendanceByStudentID(studentID string) ([]Attendance, error)
		GetAttendanceByClassID(classID string) ([]Attendance, error)
		CreateAttendance(a Attendance) (Attendance, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
	}
)

var (
	ErrPointsOutOfRange  = errors.New("points must be between 0 and the assignment's max points")
	ErrStudentNotInClass = errors.New("student is not enrolled in this class")
)

func NewService(repo Repository, usrRepo user.Repository) *Service {
	return &Service{repo: repo, usrRepo: usrRepo}
}

// Repository exposes the underlying store for collaborators that perform
// their own reads (the authorization engine).
func (svc *Service) Repository() Repository { return svc.repo }

// Students & role records

func (svc *Service) Students() ([]StudentView, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	return svc.withUsers(students)
}

func (svc *Service) StudentsByClass(classID string) ([]StudentView, error) {
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return nil, err
	}
	students, err := svc.repo.GetStudentsByClassID(classID)
	if err != nil {
		return nil, err
	}
	return svc.withUsers(students)
}

func (svc *Service) StudentByID(id string) (StudentView, error) {
	student, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return StudentView{}, err
	}
	return svc.withUser(student)
}

func (svc *Service) StudentByUserID(userID string) (StudentView, error) {
	student, err := svc.repo.GetStudentByUserID(userID)
	if err != nil {
		return StudentView{}, err
	}
	return svc.withUser(student)
}

func (svc *Service) TeacherByUserID(userID string) (Teacher, error) {
	return svc.repo.GetTeacherByUserID(userID)
}

func (svc *Service) ParentByUserID(userID string) (Parent, error) {
	return svc.repo.GetParentByUserID(userID)
}

func (svc *Service) PrincipalByUserID(userID string) (Principal, error) {
	return svc.repo.GetPrincipalByUserID(userID)
}

// ChildrenOf returns the parent's students; ids that no longer resolve
// are skipped rather than failing the whole listing.
func (svc *Service) ChildrenOf(parent Parent) ([]StudentView, error) {
	children := make([]StudentView, 0, len(parent.StudentIDs))
	for _, id := range parent.StudentIDs {
		student, err := svc.repo.GetStudentByID(id)
		if err != nil {
			if err == ErrStudentNotFound {
				continue
			}
			return nil, err
		}
		sv, err := svc.withUser(student)
		if err != nil {
			return nil, err
		}
		children = append(children, sv)
	}
	return children, nil
}

func (svc *Service) withUsers(students []Student) ([]StudentView, error) {
	views := make([]StudentView, 0, len(students))
	for _, s := range students {
		sv, err := svc.withUser(s)
		if err != nil {
			return nil, err
		}
		views = append(views, sv)
	}
	return views, nil
}

func (svc *Service) withUser(s Student) (StudentView, error) {
	usr, err := svc.usrRepo.GetUserByID(s.UserID)
	if err != nil {
		return StudentView{}, err
	}
	return StudentView{Student: s, User: usr}, nil
}

// Classes

func (svc *Service) Classes() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

func (svc *Service) ClassByID(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *Service) ClassesByTeacherID(teacherID string) ([]Class, error) {
	return svc.repo.GetClassesByTeacherID(teacherID)
}

func (svc *Service) ClassesByStudentID(studentID string) ([]Class, error) {
	return svc.repo.GetClassesByStudentID(studentID)
}

// ClassesFor returns the classes belonging to the identity's own role
// record: taught classes for a teacher, enrolled classes for a student,
// all classes for a principal.
func (svc *Service) ClassesFor(usr user.User) ([]Class, error) {
	switch usr.Role {
	case user.RoleTeacher:
		teacher, err := svc.repo.GetTeacherByUserID(usr.ID)
		if err != nil {
			return nil, err
		}
		return svc.classesByIDs(teacher.ClassIDs)
	case user.RoleStudent:
		student, err := svc.repo.GetStudentByUserID(usr.ID)
		if err != nil {
			return nil, err
		}
		return svc.classesByIDs(student.ClassIDs)
	case user.RolePrincipal:
		return svc.repo.QueryAllClasses()
	}
	return nil, nil
}

func (svc *Service) classesByIDs(ids []string) ([]Class, error) {
	classes := make([]Class, 0, len(ids))
	for _, id := range ids {
		class, err := svc.repo.GetClassByID(id)
		if err != nil {
			if err == ErrClassNotFound {
				continue
			}
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, nil
}

// Assignments

func (svc *Service) Assignments(classID string) ([]Assignment, error) {
	if classID != "" {
		return svc.repo.GetAssignmentsByClassID(classID)
	}
	return svc.repo.QueryAllAssignments()
}

func (svc *Service) CreateAssignment(na NewAssignment) (Assignment, error) {
	if _, err := svc.repo.GetClassByID(na.ClassID); err != nil {
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(Assignment{
		Title:       na.Title,
		Description: na.Description,
		ClassID:     na.ClassID,
		DueDate:     na.DueDate,
		CreatedAt:   time.Now().UTC(),
		MaxPoints:   na.MaxPoints,
	})
}

// ClassAssignments returns a class's assignments with class name and
// status attached. An assignment counts as graded once any grade exists
// for it.
func (svc *Service) ClassAssignments(classID string) ([]AssignmentView, error) {
	class, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return nil, err
	}
	assignments, err := svc.repo.GetAssignmentsByClassID(classID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		grades, err := svc.repo.GetGradesByAssignmentID(a.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, AssignmentView{
			Assignment: a,
			ClassName:  class.Name,
			Status:     StatusOf(a, len(grades) > 0, now),
		})
	}
	return views, nil
}

// StudentAssignments returns all assignments across the student's
// classes, with status derived from the student's own grades.
func (svc *Service) StudentAssignments(student Student) ([]AssignmentView, error) {
	grades, err := svc.repo.GetGradesByStudentID(student.ID)
	if err != nil {
		return nil, err
	}
	gradedBy := make(map[string]bool, len(grades))
	for _, g := range grades {
		gradedBy[g.AssignmentID] = true
	}

	now := time.Now().UTC()
	views := make([]AssignmentView, 0)
	for _, classID := range student.ClassIDs {
		class, err := svc.repo.GetClassByID(classID)
		if err != nil {
			if err == ErrClassNotFound {
				continue
			}
			return nil, err
		}
		assignments, err := svc.repo.GetAssignmentsByClassID(classID)
		if err != nil {
			return nil, err
		}
		for _, a := range assignments {
			views = append(views, AssignmentView{
				Assignment: a,
				ClassName:  class.Name,
				Status:     StatusOf(a, gradedBy[a.ID], now),
			})
		}
	}
	return views, nil
}

// Grades

func (svc *Service) Grades(studentID, assignmentID string) ([]Grade, error) {
	if studentID != "" {
		return svc.repo.GetGradesByStudentID(studentID)
	}
	if assignmentID != "" {
		return svc.repo.GetGradesByAssignmentID(assignmentID)
	}
	return svc.repo.QueryAllGrades()
}

// CreateGrade records a grade after checking the assignment exists and
// the points fall within the assignment's bounds.
func (svc *Service) CreateGrade(ng NewGrade) (Grade, error) {
	assignment, err := svc.repo.GetAssignmentByID(ng.AssignmentID)
	if err != nil {
		return Grade{}, err
	}
	if _, err := svc.repo.GetStudentByID(ng.StudentID); err != nil {
		return Grade{}, err
	}
	points := *ng.Points
	if points < 0 || points > float64(assignment.MaxPoints) {
		return Grade{}, core.NewValidationError(ErrPointsOutOfRange,
			core.FieldError{Field: "points", Error: ErrPointsOutOfRange.Error()})
	}
	return svc.repo.CreateGrade(Grade{
		StudentID:    ng.StudentID,
		AssignmentID: ng.AssignmentID,
		Points:       points,
		Feedback:     ng.Feedback,
		CreatedAt:    time.Now().UTC(),
	})
}

// StudentGrades returns a student's grades enriched with assignment and
// class context. Grades whose assignment no longer resolves are skipped.
func (svc *Service) StudentGrades(studentID string) ([]GradeView, error) {
	grades, err := svc.repo.GetGradesByStudentID(studentID)
	if err != nil {
		return nil, err
	}
	views := make([]GradeView, 0, len(grades))
	for _, g := range grades {
		assignment, err := svc.repo.GetAssignmentByID(g.AssignmentID)
		if err != nil {
			if err == ErrAssignmentNotFound {
				continue
			}
			return nil, err
		}
		subject := "Unknown"
		if class, err := svc.repo.GetClassByID(assignment.ClassID); err == nil {
			subject = class.Subject
		}
		views = append(views, GradeView{
			ID:              g.ID,
			AssignmentTitle: assignment.Title,
			Subject:         subject,
			Points:          g.Points,
			MaxPoints:       assignment.MaxPoints,
			Feedback:        g.Feedback,
			CreatedAt:       g.CreatedAt,
		})
	}
	return views, nil
}

// ClassGrades returns all grades recorded against a class's assignments.
func (svc *Service) ClassGrades(classID string) ([]Grade, error) {
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return nil, err
	}
	assignments, err := svc.repo.GetAssignmentsByClassID(classID)
	if err != nil {
		return nil, err
	}
	grades := make([]Grade, 0)
	for _, a := range assignments {
		ag, err := svc.repo.GetGradesByAssignmentID(a.ID)
		if err != nil {
			return nil, err
		}
		grades = append(grades, ag...)
	}
	return grades, nil
}

// Attendance

func (svc *Service) Attendance(studentID, classID, date string) ([]Attendance, error) {
	var (
		records []Attendance
		err     error
	)
	switch {
	case studentID != "":
		records, err = svc.repo.GetAttendanceByStudentID(studentID)
	case classID != "":
		records, err = svc.repo.GetAttendanceByClassID(classID)
	default:
		records, err = svc.repo.QueryAllAttendance()
	}
	if err != nil {
		return nil, err
	}
	return filterAttendanceByDate(records, date), nil
}

func (svc *Service) StudentAttendance(studentID, classID, date string) ([]Attendance, error) {
	records, err := svc.repo.GetAttendanceByStudentID(studentID)
	if err != nil {
		return nil, err
	}
	if classID != "" {
		filtered := records[:0]
		for _, r := range records {
			if r.ClassID == classID {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	return filterAttendanceByDate(records, date), nil
}

func (svc *Service) CreateAttendance(na NewAttendance) (Attendance, error) {
	if _, err := svc.repo.GetClassByID(na.ClassID); err != nil {
		return Attendance{}, err
	}
	return svc.repo.CreateAttendance(Attendance{
		StudentID: na.StudentID,
		ClassID:   na.ClassID,
		Date:      na.Date,
		Status:    na.Status,
	})
}

// RecordClassAttendance creates attendance entries for a class in bulk,
// rejecting records for students outside the class roster.
func (svc *Service) RecordClassAttendance(classID string, sheet AttendanceSheet) ([]Attendance, error) {
	class, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return nil, err
	}
	for _, rec := range sheet.Records {
		if !class.HasStudent(rec.StudentID) {
			return nil, core.NewValidationError(ErrStudentNotInClass,
				core.FieldError{Field: "studentId", Error: "student " + rec.StudentID + " is not in this class"})
		}
	}

	created := make([]Attendance, 0, len(sheet.Records))
	for _, rec := range sheet.Records {
		att, err := svc.repo.CreateAttendance(Attendance{
			StudentID: rec.StudentID,
			ClassID:   classID,
			Date:      rec.Date,
			Status:    rec.Status,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, att)
	}
	return created, nil
}

// AttendanceBetween returns all attendance records whose date falls in
// the inclusive [startDate, endDate] range. Either bound may be empty.
// Dates are YYYY-MM-DD strings, so the comparison is lexicographic.
func (svc *Service) AttendanceBetween(startDate, endDate string) ([]Attendance, error) {
	records, err := svc.repo.QueryAllAttendance()
	if err != nil {
		return nil, err
	}
	if startDate == "" && endDate == "" {
		return records, nil
	}
	filtered := make([]Attendance, 0, len(records))
	for _, r := range records {
		if startDate != "" && r.Date < startDate {
			continue
		}
		if endDate != "" && r.Date > endDate {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func filterAttendanceByDate(records []Attendance, date string) []Attendance {
	if date == "" {
		return records
	}
	filtered := make([]Attendance, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(r.Date, date) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Aggregates

// SchoolStats computes school-wide headcounts and simple averages.
// Present and tardy both count towards the attendance rate.
func (svc *Service) SchoolStats() (Stats, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return Stats{}, err
	}
	teachers, err := svc.repo.QueryAllTeachers()
	if err != nil {
		return Stats{}, err
	}

	attendance, err := svc.repo.QueryAllAttendance()
	if err != nil {
		return Stats{}, err
	}
	var present int
	for _, a := range attendance {
		if a.Status == AttendancePresent || a.Status == AttendanceTardy {
			present++
		}
	}
	var attendanceRate float64
	if len(attendance) > 0 {
		attendanceRate = float64(present) / float64(len(attendance))
	}

	grades, err := svc.repo.QueryAllGrades()
	if err != nil {
		return Stats{}, err
	}
	var totalPoints float64
	for _, g := range grades {
		totalPoints += g.Points
	}
	var averageGrade float64
	if len(grades) > 0 {
		averageGrade = totalPoints / float64(len(grades))
	}

	return Stats{
		TotalStudents:     len(students),
		TotalTeachers:     len(teachers),
		AverageAttendance: attendanceRate * 100,
		AverageGrade:      averageGrade,
	}, nil
}

// ClassesPerformance aggregates grade performance per class.
func (svc *Service) ClassesPerformance() ([]ClassPerformance, error) {
	classes, err := svc.repo.QueryAllClasses()
	if err != nil {
		return nil, err
	}

	perf := make([]ClassPerformance, 0, len(classes))
	for _, class := range classes {
		teacherName := "Unknown"
		if teacher, err := svc.repo.GetTeacherByID(class.TeacherID); err == nil {
			if usr, err := svc.usrRepo.GetUserByID(teacher.UserID); err == nil {
				teacherName = usr.Name
			}
		}

		assignments, err := svc.repo.GetAssignmentsByClassID(class.ID)
		if err != nil {
			return nil, err
		}
		maxPointsBy := make(map[string]int, len(assignments))
		for _, a := range assignments {
			maxPointsBy[a.ID] = a.MaxPoints
		}

		var totalPoints, totalMaxPoints float64
		for _, a := range assignments {
			grades, err := svc.repo.GetGradesByAssignmentID(a.ID)
			if err != nil {
				return nil, err
			}
			for _, g := range grades {
				totalPoints += g.Points
				totalMaxPoints += float64(maxPointsBy[g.AssignmentID])
			}
		}
		var avg float64
		if totalMaxPoints > 0 {
			avg = (totalPoints / totalMaxPoints) * 100
		}

		perf = append(perf, ClassPerformance{
			ID:              class.ID,
			Name:            class.Name,
			Subject:         class.Subject,
			TeacherID:       class.TeacherID,
			TeacherName:     teacherName,
			StudentCount:    len(class.StudentIDs),
			AssignmentCount: len(assignments),
			AverageGrade:    avg,
		})
	}
	return perf, nil
}

// TeachersPerformance aggregates class count, distinct student count and
// grade average per teacher. Teachers whose user record no longer
// resolves are skipped.
func (svc *Service) TeachersPerformance() ([]TeacherPerformance, error) {
	teachers, err := svc.repo.QueryAllTeachers()
	if err != nil {
		return nil, err
	}

	perf := make([]TeacherPerformance, 0, len(teachers))
	for _, teacher := range teachers {
		usr, err := svc.usrRepo.GetUserByID(teacher.UserID)
		if err != nil {
			if err == user.ErrNotFound {
				continue
			}
			return nil, err
		}

		classes, err := svc.repo.GetClassesByTeacherID(teacher.ID)
		if err != nil {
			return nil, err
		}
		studentSet := make(map[string]struct{})
		var totalPoints, totalMaxPoints float64
		for _, class := range classes {
			for _, id := range class.StudentIDs {
				studentSet[id] = struct{}{}
			}
			assignments, err := svc.repo.GetAssignmentsByClassID(class.ID)
			if err != nil {
				return nil, err
			}
			for _, a := range assignments {
				grades, err := svc.repo.GetGradesByAssignmentID(a.ID)
				if err != nil {
					return nil, err
				}
				for _, g := range grades {
					totalPoints += g.Points
					totalMaxPoints += float64(a.MaxPoints)
				}
			}
		}
		var avg float64
		if totalMaxPoints > 0 {
			avg = (totalPoints / totalMaxPoints) * 100
		}

		subjectSet := make(map[string]struct{}, len(teacher.SubjectIDs))
		for _, id := range teacher.SubjectIDs {
			subjectSet[id] = struct{}{}
		}

		perf = append(perf, TeacherPerformance{
			ID:           teacher.ID,
			Name:         usr.Name,
			Email:        usr.Email,
			ClassCount:   len(classes),
			StudentCount: len(studentSet),
			SubjectCount: len(subjectSet),
			AverageGrade: avg,
		})
	}
	return perf, nil
}
