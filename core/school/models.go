package school

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/user"
)

// Role records. Every User owns exactly one of these, joined on UserID;
// a User whose role record cannot be resolved is a data-consistency fault,
// surfaced to clients as "<role> profile not found".
type (
	Student struct {
		ID        string   `json:"id"`
		UserID    string   `json:"userId"`
		Grade     int      `json:"grade"`
		ClassIDs  []string `json:"classIds"`
		ParentIDs []string `json:"parentIds"`
	}

	Parent struct {
		ID         string   `json:"id"`
		UserID     string   `json:"userId"`
		StudentIDs []string `json:"studentIds"`
	}

	Teacher struct {
		ID         string   `json:"id"`
		UserID     string   `json:"userId"`
		ClassIDs   []string `json:"classIds"`
		SubjectIDs []string `json:"subjectIds"`
	}

	Principal struct {
		ID       string `json:"id"`
		UserID   string `json:"userId"`
		SchoolID string `json:"schoolId"`
	}
)

func (s Student) IsEnrolledIn(classID string) bool { return containsID(s.ClassIDs, classID) }
func (t Teacher) Teaches(classID string) bool      { return containsID(t.ClassIDs, classID) }
func (p Parent) HasChild(studentID string) bool    { return containsID(p.StudentIDs, studentID) }

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type (
	ScheduleSlot struct {
		Day       string `json:"day"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}

	Class struct {
		ID         string         `json:"id"`
		Name       string         `json:"name"`
		TeacherID  string         `json:"teacherId"`
		StudentIDs []string       `json:"studentIds"`
		Subject    string         `json:"subject"`
		Schedule   []ScheduleSlot `json:"schedule"`
	}

	Assignment struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		ClassID     string    `json:"classId"`
		DueDate     time.Time `json:"dueDate"`
		CreatedAt   time.Time `json:"createdAt"` // UTC
		MaxPoints   int       `json:"maxPoints"`
	}

	Grade struct {
		ID           string    `json:"id"`
		StudentID    string    `json:"studentId"`
		AssignmentID string    `json:"assignmentId"`
		Points       float64   `json:"points"`
		Feedback     string    `json:"feedback,omitempty"`
		CreatedAt    time.Time `json:"createdAt"` // UTC
	}

	Attendance struct {
		ID        string           `json:"id"`
		StudentID string           `json:"studentId"`
		ClassID   string           `json:"classId"`
		Date      string           `json:"date"` // YYYY-MM-DD
		Status    AttendanceStatus `json:"status"`
	}
)

func (c Class) HasStudent(studentID string) bool { return containsID(c.StudentIDs, studentID) }

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceTardy   AttendanceStatus = "tardy"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceTardy, AttendanceExcused:
		return true
	}
	return false
}

// StudentView is a Student joined with its User record, the shape
// roster and children listings are served in.
type StudentView struct {
	Student
	User user.User `json:"user"`
}

// AssignmentView is an Assignment enriched with its class name and a
// deterministic completion status.
type AssignmentView struct {
	Assignment
	ClassName string           `json:"className"`
	Status    AssignmentStatus `json:"status"`
}

// GradeView is a Grade enriched with assignment and class context.
type GradeView struct {
	ID              string    `json:"id"`
	AssignmentTitle string    `json:"assignmentTitle"`
	Subject         string    `json:"subject"`
	Points          float64   `json:"points"`
	MaxPoints       int       `json:"maxPoints"`
	Feedback        string    `json:"feedback,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Stats struct {
	TotalStudents     int     `json:"totalStudents"`
	TotalTeachers     int     `json:"totalTeachers"`
	AverageAttendance float64 `json:"averageAttendance"` // percentage
	AverageGrade      float64 `json:"averageGrade"`
}

type ClassPerformance struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Subject         string  `json:"subject"`
	TeacherID       string  `json:"teacherId"`
	TeacherName     string  `json:"teacherName"`
	StudentCount    int     `json:"studentCount"`
	AssignmentCount int     `json:"assignmentCount"`
	AverageGrade    float64 `json:"averageGrade"` // percentage
}

// TeacherPerformance aggregates a teacher's workload and grade average
// across the classes they teach.
type TeacherPerformance struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ClassCount   int     `json:"classCount"`
	StudentCount int     `json:"studentCount"`
	SubjectCount int     `json:"subjectCount"`
	AverageGrade float64 `json:"averageClassGrade"` // percentage
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	ClassID     string    `json:"classId" validate:"required"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	MaxPoints   int       `json:"maxPoints" validate:"omitempty,gt=0"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	if na.MaxPoints == 0 {
		na.MaxPoints = 100
	}
	return validate.Struct(na)
}

// NewGrade contains information needed to record a Grade.
type NewGrade struct {
	StudentID    string   `json:"studentId" validate:"required"`
	AssignmentID string   `json:"assignmentId" validate:"required"`
	Points       *float64 `json:"points" validate:"required,gte=0"`
	Feedback     string   `json:"feedback"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Feedback = core.CleanString(ng.Feedback)
	return validate.Struct(ng)
}

// NewAttendance contains information needed to record a single Attendance entry.
type NewAttendance struct {
	StudentID string           `json:"studentId" validate:"required"`
	ClassID   string           `json:"classId" validate:"required"`
	Date      string           `json:"date" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,attendancestatus"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	return validate.Struct(na)
}

// AttendanceSheet is a bulk attendance submission for one class.
type AttendanceSheet struct {
	Records []AttendanceRecord `json:"records" validate:"required,min=1,dive"`
}

type AttendanceRecord struct {
	StudentID string           `json:"studentId" validate:"required"`
	Date      string           `json:"date" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,attendancestatus"`
}

func (as *AttendanceSheet) Validate(validate *validator.Validate) error {
	return validate.Struct(as)
}

const (
	attendanceStatusTag  = "attendancestatus"
	attendanceStatusText = "must be one of: present, absent, tardy, excused"
)

// RegisterValidators registers the school package's custom validation tags.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(attendanceStatusTag, func(fl validator.FieldLevel) bool {
		return AttendanceStatus(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)
}
