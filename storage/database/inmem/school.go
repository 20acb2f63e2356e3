package inmemdb

import (
	"github.com/google/uuid"

	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/school"
)

type schoolRepository struct {
	db *schoolTables
}

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func cloneStudent(s *school.Student) school.Student {
	cp := *s
	cp.ClassIDs = cloneIDs(s.ClassIDs)
	cp.ParentIDs = cloneIDs(s.ParentIDs)
	return cp
}

func cloneParent(p *school.Parent) school.Parent {
	cp := *p
	cp.StudentIDs = cloneIDs(p.StudentIDs)
	return cp
}

func cloneTeacher(t *school.Teacher) school.Teacher {
	cp := *t
	cp.ClassIDs = cloneIDs(t.ClassIDs)
	cp.SubjectIDs = cloneIDs(t.SubjectIDs)
	return cp
}

func cloneClass(c *school.Class) school.Class {
	cp := *c
	cp.StudentIDs = cloneIDs(c.StudentIDs)
	if c.Schedule != nil {
		cp.Schedule = make([]school.ScheduleSlot, len(c.Schedule))
		copy(cp.Schedule, c.Schedule)
	}
	return cp
}

// Students

func (repo *schoolRepository) QueryAllStudents() ([]school.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]school.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		students = append(students, cloneStudent(s))
	}
	return students, nil
}

func (repo *schoolRepository) GetStudentByID(id string) (school.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return cloneStudent(s), nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) GetStudentByUserID(userID string) (school.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.students {
		if s.UserID == userID {
			return cloneStudent(s), nil
		}
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) GetStudentsByClassID(classID string) ([]school.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	class, ok := repo.db.classes[classID]
	if !ok {
		return nil, school.ErrClassNotFound
	}
	students := make([]school.Student, 0, len(class.StudentIDs))
	for _, id := range class.StudentIDs {
		s, ok := repo.db.students[id]
		if !ok {
			// a roster entry with no student record means the tables
			// are corrupt; nothing sensible can be served from here
			return nil, core.NewShutdownError("class " + classID + " roster references unknown student " + id)
		}
		students = append(students, cloneStudent(s))
	}
	return students, nil
}

// Parents

func (repo *schoolRepository) GetParentByUserID(userID string) (school.Parent, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.parents {
		if p.UserID == userID {
			return cloneParent(p), nil
		}
	}
	return school.Parent{}, school.ErrParentNotFound
}

// Teachers

func (repo *schoolRepository) QueryAllTeachers() ([]school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]school.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, cloneTeacher(t))
	}
	return teachers, nil
}

func (repo *schoolRepository) GetTeacherByID(id string) (school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.teachers[id]; ok {
		return cloneTeacher(t), nil
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

func (repo *schoolRepository) GetTeacherByUserID(userID string) (school.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.db.teachers {
		if t.UserID == userID {
			return cloneTeacher(t), nil
		}
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

// Principals

func (repo *schoolRepository) GetPrincipalByUserID(userID string) (school.Principal, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.principals {
		if p.UserID == userID {
			return *p, nil
		}
	}
	return school.Principal{}, school.ErrPrincipalNotFound
}

// Classes

func (repo *schoolRepository) QueryAllClasses() ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, cloneClass(c))
	}
	return classes, nil
}

func (repo *schoolRepository) GetClassByID(id string) (school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return cloneClass(c), nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) GetClassesByTeacherID(teacherID string) ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0)
	for _, c := range repo.db.classes {
		if c.TeacherID == teacherID {
			classes = append(classes, cloneClass(c))
		}
	}
	return classes, nil
}

func (repo *schoolRepository) GetClassesByStudentID(studentID string) ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0)
	for _, c := range repo.db.classes {
		if containsID(c.StudentIDs, studentID) {
			classes = append(classes, cloneClass(c))
		}
	}
	return classes, nil
}

// Assignments

func (repo *schoolRepository) QueryAllAssignments() ([]school.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]school.Assignment, 0, len(repo.db.assignments))
	for _, a := range repo.db.assignments {
		assignments = append(assignments, *a)
	}
	return assignments, nil
}

func (repo *schoolRepository) GetAssignmentByID(id string) (school.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.assignments[id]; ok {
		return *a, nil
	}
	return school.Assignment{}, school.ErrAssignmentNotFound
}

func (repo *schoolRepository) GetAssignmentsByClassID(classID string) ([]school.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]school.Assignment, 0)
	for _, a := range repo.db.assignments {
		if a.ClassID == classID {
			assignments = append(assignments, *a)
		}
	}
	return assignments, nil
}

func (repo *schoolRepository) CreateAssignment(a school.Assignment) (school.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = uuid.New().String()
	repo.db.assignments[a.ID] = &a
	return a, nil
}

// Grades

func (repo *schoolRepository) QueryAllGrades() ([]school.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]school.Grade, 0, len(repo.db.grades))
	for _, g := range repo.db.grades {
		grades = append(grades, *g)
	}
	return grades, nil
}

func (repo *schoolRepository) GetGradesByStudentID(studentID string) ([]school.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]school.Grade, 0)
	for _, g := range repo.db.grades {
		if g.StudentID == studentID {
			grades = append(grades, *g)
		}
	}
	return grades, nil
}

func (repo *schoolRepository) GetGradesByAssignmentID(assignmentID string) ([]school.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	grades := make([]school.Grade, 0)
	for _, g := range repo.db.grades {
		if g.AssignmentID == assignmentID {
			grades = append(grades, *g)
		}
	}
	return grades, nil
}

func (repo *schoolRepository) CreateGrade(g school.Grade) (school.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	g.ID = uuid.New().String()
	repo.db.grades[g.ID] = &g
	return g, nil
}

// Attendance

func (repo *schoolRepository) QueryAllAttendance() ([]school.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]school.Attendance, 0, len(repo.db.attendance))
	for _, a := range repo.db.attendance {
		records = append(records, *a)
	}
	return records, nil
}

func (repo *schoolRepository) GetAttendanceByStudentID(studentID string) ([]school.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]school.Attendance, 0)
	for _, a := range repo.db.attendance {
		if a.StudentID == studentID {
			records = append(records, *a)
		}
	}
	return records, nil
}

func (repo *schoolRepository) GetAttendanceByClassID(classID string) ([]school.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]school.Attendance, 0)
	for _, a := range repo.db.attendance {
		if a.ClassID == classID {
			records = append(records, *a)
		}
	}
	return records, nil
}

func (repo *schoolRepository) CreateAttendance(a school.Attendance) (school.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = uuid.New().String()
	repo.db.attendance[a.ID] = &a
	return a, nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
