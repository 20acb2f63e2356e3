package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasoft/shule/core/school"
	"github.com/darasoft/shule/core/user"
)

// fakeRepo is a hand-rolled school.Repository holding fixtures in maps.
// Only the lookups the engine's predicates touch are populated.
type fakeRepo struct {
	students    map[string]school.Student
	teachers    map[string]school.Teacher
	parents     map[string]school.Parent
	classes     map[string]school.Class
	assignments map[string]school.Assignment
}

var _ school.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) QueryAllStudents() ([]school.Student, error) { return nil, nil }

func (r *fakeRepo) GetStudentByID(id string) (school.Student, error) {
	if s, ok := r.students[id]; ok {
		return s, nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (r *fakeRepo) GetStudentByUserID(userID string) (school.Student, error) {
	for _, s := range r.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (r *fakeRepo) GetStudentsByClassID(classID string) ([]school.Student, error) { return nil, nil }

func (r *fakeRepo) GetParentByUserID(userID string) (school.Parent, error) {
	for _, p := range r.parents {
		if p.UserID == userID {
			return p, nil
		}
	}
	return school.Parent{}, school.ErrParentNotFound
}

func (r *fakeRepo) QueryAllTeachers() ([]school.Teacher, error) { return nil, nil }

func (r *fakeRepo) GetTeacherByID(id string) (school.Teacher, error) {
	if t, ok := r.teachers[id]; ok {
		return t, nil
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

func (r *fakeRepo) GetTeacherByUserID(userID string) (school.Teacher, error) {
	for _, t := range r.teachers {
		if t.UserID == userID {
			return t, nil
		}
	}
	return school.Teacher{}, school.ErrTeacherNotFound
}

func (r *fakeRepo) GetPrincipalByUserID(userID string) (school.Principal, error) {
	return school.Principal{}, school.ErrPrincipalNotFound
}

func (r *fakeRepo) QueryAllClasses() ([]school.Class, error) { return nil, nil }

func (r *fakeRepo) GetClassByID(id string) (school.Class, error) {
	if c, ok := r.classes[id]; ok {
		return c, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (r *fakeRepo) GetClassesByTeacherID(teacherID string) ([]school.Class, error) { return nil, nil }
func (r *fakeRepo) GetClassesByStudentID(studentID string) ([]school.Class, error) { return nil, nil }

func (r *fakeRepo) QueryAllAssignments() ([]school.Assignment, error) { return nil, nil }

func (r *fakeRepo) GetAssignmentByID(id string) (school.Assignment, error) {
	if a, ok := r.assignments[id]; ok {
		return a, nil
	}
	return school.Assignment{}, school.ErrAssignmentNotFound
}

func (r *fakeRepo) GetAssignmentsByClassID(classID string) ([]school.Assignment, error) {
	return nil, nil
}

func (r *fakeRepo) CreateAssignment(a school.Assignment) (school.Assignment, error) { return a, nil }

func (r *fakeRepo) QueryAllGrades() ([]school.Grade, error)                         { return nil, nil }
func (r *fakeRepo) GetGradesByStudentID(id string) ([]school.Grade, error)          { return nil, nil }
func (r *fakeRepo) GetGradesByAssignmentID(id string) ([]school.Grade, error)       { return nil, nil }
func (r *fakeRepo) CreateGrade(g school.Grade) (school.Grade, error)                { return g, nil }
func (r *fakeRepo) QueryAllAttendance() ([]school.Attendance, error)                { return nil, nil }
func (r *fakeRepo) GetAttendanceByStudentID(id string) ([]school.Attendance, error) { return nil, nil }
func (r *fakeRepo) GetAttendanceByClassID(id string) ([]school.Attendance, error)   { return nil, nil }
func (r *fakeRepo) CreateAttendance(a school.Attendance) (school.Attendance, error) { return a, nil }

// Two disjoint cohorts: teacher1/student1/parent1 around class c1,
// teacher2/student2 around class c2. parent1 also carries a stale
// child id pointing at a deleted student.
func newFixtures() (*fakeRepo, map[string]user.User) {
	repo := &fakeRepo{
		students: map[string]school.Student{
			"s1": {ID: "s1", UserID: "u-s1", ClassIDs: []string{"c1"}, ParentIDs: []string{"p1"}},
			"s2": {ID: "s2", UserID: "u-s2", ClassIDs: []string{"c2"}},
		},
		teachers: map[string]school.Teacher{
			"t1": {ID: "t1", UserID: "u-t1", ClassIDs: []string{"c1"}},
			"t2": {ID: "t2", UserID: "u-t2", ClassIDs: []string{"c2"}},
		},
		parents: map[string]school.Parent{
			"p1": {ID: "p1", UserID: "u-p1", StudentIDs: []string{"s-gone", "s1"}},
		},
		classes: map[string]school.Class{
			"c1": {ID: "c1", TeacherID: "t1", StudentIDs: []string{"s1"}},
			"c2": {ID: "c2", TeacherID: "t2", StudentIDs: []string{"s2"}},
		},
		assignments: map[string]school.Assignment{
			"a1": {ID: "a1", ClassID: "c1"},
			"a2": {ID: "a2", ClassID: "c2"},
		},
	}
	users := map[string]user.User{
		"principal": {ID: "u-pr", Role: user.RolePrincipal},
		"teacher1":  {ID: "u-t1", Role: user.RoleTeacher},
		"teacher2":  {ID: "u-t2", Role: user.RoleTeacher},
		"student1":  {ID: "u-s1", Role: user.RoleStudent},
		"student2":  {ID: "u-s2", Role: user.RoleStudent},
		"parent1":   {ID: "u-p1", Role: user.RoleParent},
	}
	return repo, users
}

func TestAuthorize(t *testing.T) {
	repo, users := newFixtures()
	engine := NewEngine(repo)

	tests := []struct {
		name    string
		usr     string // key into users; "" means unauthenticated
		act     Action
		res     Resource
		tgt     Target
		wantErr error
	}{
		{"nil user", "", ActionRead, ResourceClass, Target{ClassID: "c1"}, ErrUnauthenticated},

		// no matching rule
		{"student cannot create assignments", "student1", ActionCreate, ResourceAssignment, Target{ClassID: "c1"}, &DeniedError{Reason: "Unauthorized"}},
		{"parent cannot list students", "parent1", ActionList, ResourceStudent, Target{}, &DeniedError{Reason: "Unauthorized"}},
		{"teacher cannot read school aggregates", "teacher1", ActionRead, ResourceSchool, Target{}, &DeniedError{Reason: "Unauthorized"}},

		// principal
		{"principal reads any class", "principal", ActionRead, ResourceClass, Target{ClassID: "c2"}, nil},
		{"principal lists users", "principal", ActionList, ResourceUser, Target{}, nil},
		{"principal reads school aggregates", "principal", ActionRead, ResourceSchool, Target{}, nil},

		// teacher / class
		{"teacher reads own class", "teacher1", ActionRead, ResourceClass, Target{ClassID: "c1"}, nil},
		{"teacher denied on another class", "teacher1", ActionRead, ResourceClass, Target{ClassID: "c2"}, &DeniedError{Reason: "Unauthorized to access this class"}},
		{"unknown class is not found", "teacher1", ActionRead, ResourceClass, Target{ClassID: "nope"}, school.ErrClassNotFound},
		{"teacher creates assignment in own class", "teacher1", ActionCreate, ResourceAssignment, Target{ClassID: "c1"}, nil},
		{"teacher denied creating assignment elsewhere", "teacher1", ActionCreate, ResourceAssignment, Target{ClassID: "c2"}, &DeniedError{Reason: "Unauthorized to access this class"}},

		// teacher / grade via assignment
		{"teacher grades own class assignment", "teacher1", ActionCreate, ResourceGrade, Target{AssignmentID: "a1"}, nil},
		{"teacher denied grading another class", "teacher1", ActionCreate, ResourceGrade, Target{AssignmentID: "a2"}, &DeniedError{Reason: "Unauthorized to access this class"}},
		{"unknown assignment is not found", "teacher1", ActionCreate, ResourceGrade, Target{AssignmentID: "nope"}, school.ErrAssignmentNotFound},

		// teacher / student
		{"teacher reads shared-class student", "teacher1", ActionRead, ResourceStudent, Target{StudentID: "s1"}, nil},
		{"teacher denied on unrelated student", "teacher1", ActionRead, ResourceStudent, Target{StudentID: "s2"}, &DeniedError{Reason: "Unauthorized to access this student's records"}},

		// student
		{"student reads own class", "student1", ActionRead, ResourceClass, Target{ClassID: "c1"}, nil},
		{"student denied on another class", "student1", ActionRead, ResourceClass, Target{ClassID: "c2"}, &DeniedError{Reason: "Unauthorized to access this class"}},
		{"student reads own record", "student1", ActionRead, ResourceStudent, Target{StudentID: "s1"}, nil},
		{"student denied on another record", "student1", ActionRead, ResourceStudent, Target{StudentID: "s2"}, &DeniedError{Reason: "Unauthorized to access this student's records"}},

		// parent
		{"parent reads own child", "parent1", ActionRead, ResourceStudent, Target{StudentID: "s1"}, nil},
		{"parent denied on another child", "parent1", ActionRead, ResourceStudent, Target{StudentID: "s2"}, &DeniedError{Reason: "Unauthorized to access this student's records"}},
		{"parent reads child's class past stale id", "parent1", ActionRead, ResourceClass, Target{ClassID: "c1"}, nil},
		{"parent denied on unrelated class", "parent1", ActionRead, ResourceClass, Target{ClassID: "c2"}, &DeniedError{Reason: "Unauthorized to access this class"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var usr *user.User
			if tt.usr != "" {
				u := users[tt.usr]
				usr = &u
			}
			err := engine.Authorize(usr, tt.act, tt.res, tt.tgt)
			checkDecision(t, err, tt.wantErr)
		})
	}
}

// Decisions are single-shot: a membership change in the store flips the
// next decision with no cache in between.
func TestAuthorizeIsUncached(t *testing.T) {
	repo, users := newFixtures()
	engine := NewEngine(repo)
	teacher1 := users["teacher1"]

	err := engine.Authorize(&teacher1, ActionRead, ResourceClass, Target{ClassID: "c2"})
	checkDecision(t, err, &DeniedError{Reason: "Unauthorized to access this class"})

	t1 := repo.teachers["t1"]
	t1.ClassIDs = append(t1.ClassIDs, "c2")
	repo.teachers["t1"] = t1

	err = engine.Authorize(&teacher1, ActionRead, ResourceClass, Target{ClassID: "c2"})
	assert.NoError(t, err, "membership change should flip the next decision")
}

func TestAuthorizeMissingProfile(t *testing.T) {
	repo, users := newFixtures()
	engine := NewEngine(repo)

	// a teacher user with no teacher record is a data fault, not a denial
	ghost := user.User{ID: "u-ghost", Role: user.RoleTeacher}
	err := engine.Authorize(&ghost, ActionRead, ResourceClass, Target{ClassID: "c1"})
	checkDecision(t, err, school.ErrTeacherNotFound)

	ghost.Role = user.RoleParent
	err = engine.Authorize(&ghost, ActionRead, ResourceStudent, Target{StudentID: "s1"})
	checkDecision(t, err, school.ErrParentNotFound)

	// the target is checked before the profile
	teacher1 := users["teacher1"]
	delete(repo.classes, "c1")
	err = engine.Authorize(&teacher1, ActionRead, ResourceClass, Target{ClassID: "c1"})
	checkDecision(t, err, school.ErrClassNotFound)
}

func checkDecision(t *testing.T, got, want error) {
	t.Helper()
	if want == nil {
		assert.NoError(t, got)
		return
	}
	if wantDenied, ok := want.(*DeniedError); ok {
		gotDenied, ok := got.(*DeniedError)
		require.Truef(t, ok, "Authorize() = %v; want *DeniedError %q", got, wantDenied.Reason)
		assert.Equal(t, wantDenied.Reason, gotDenied.Reason)
		return
	}
	assert.Equal(t, want, got)
}
