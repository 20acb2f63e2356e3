// Package authz is the authorization engine: a single predicate table
// keyed by (role, resource, action) replacing the per-endpoint
// relationship checks it consolidates. Decisions are single-shot and
// uncached; every call re-reads the store.
package authz

import (
	"errors"

	"github.com/darasoft/shule/core/school"
	"github.com/darasoft/shule/core/user"
)

type Resource string

const (
	ResourceClass      Resource = "class"
	ResourceStudent    Resource = "student"
	ResourceAssignment Resource = "assignment"
	ResourceGrade      Resource = "grade"
	ResourceAttendance Resource = "attendance"
	ResourceUser       Resource = "user"
	ResourceSchool     Resource = "school"
)

type Action string

const (
	ActionRead   Action = "read" // a single, targeted entity
	ActionList   Action = "list" // an untargeted collection
	ActionCreate Action = "create"
)

// Target identifies the entity a request acts on. Class-scoped checks
// use ClassID; student-scoped checks use StudentID; grade recording is
// keyed by AssignmentID and resolved to its class.
type Target struct {
	ClassID      string
	StudentID    string
	AssignmentID string
}

// ErrUnauthenticated is returned when no identity could be resolved.
var ErrUnauthenticated = errors.New("Unauthorized")

// DeniedError is an authenticated-but-forbidden decision.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

// Engine decides ALLOW/DENY by walking ownership relationships in the
// entity store. It is a pure decision function: no writes, no caching.
type Engine struct {
	repo school.Repository
}

func NewEngine(repo school.Repository) *Engine {
	return &Engine{repo: repo}
}

// Authorize returns nil to allow, ErrUnauthenticated when usr is nil,
// a *DeniedError on a failed relationship check, or one of the school
// package's not-found errors when the target entity or the identity's
// own role record does not resolve.
func (e *Engine) Authorize(usr *user.User, act Action, res Resource, tgt Target) error {
	if usr == nil {
		return ErrUnauthenticated
	}
	pred, ok := rules[ruleKey{usr.Role, res, act}]
	if !ok {
		return &DeniedError{Reason: "Unauthorized"}
	}
	return pred(e, *usr, tgt)
}

type (
	ruleKey struct {
		role user.Role
		res  Resource
		act  Action
	}
	predicate func(e *Engine, usr user.User, tgt Target) error
)

func allow(*Engine, user.User, Target) error { return nil }

var rules = map[ruleKey]predicate{
	// principal: superuser for reads, plus user management
	{user.RolePrincipal, ResourceClass, ActionRead}:      allow,
	{user.RolePrincipal, ResourceClass, ActionList}:      allow,
	{user.RolePrincipal, ResourceStudent, ActionRead}:    allow,
	{user.RolePrincipal, ResourceStudent, ActionList}:    allow,
	{user.RolePrincipal, ResourceAssignment, ActionList}: allow,
	{user.RolePrincipal, ResourceGrade, ActionList}:      allow,
	{user.RolePrincipal, ResourceAttendance, ActionList}: allow,
	{user.RolePrincipal, ResourceUser, ActionList}:       allow,
	{user.RolePrincipal, ResourceUser, ActionCreate}:     allow,
	{user.RolePrincipal, ResourceSchool, ActionRead}:     allow,

	// teacher: class resources require teaching the class; student
	// records require sharing a class with the student
	{user.RoleTeacher, ResourceClass, ActionRead}:        teacherOwnsClass,
	{user.RoleTeacher, ResourceAssignment, ActionCreate}: teacherOwnsClass,
	{user.RoleTeacher, ResourceGrade, ActionCreate}:      teacherOwnsAssignmentClass,
	{user.RoleTeacher, ResourceAttendance, ActionCreate}: teacherOwnsClass,
	{user.RoleTeacher, ResourceStudent, ActionRead}:      teacherSharesClass,
	{user.RoleTeacher, ResourceStudent, ActionList}:      allow,

	// student: own records only
	{user.RoleStudent, ResourceClass, ActionRead}:   studentEnrolled,
	{user.RoleStudent, ResourceStudent, ActionRead}: studentSelf,

	// parent: own children, and their children's classes
	{user.RoleParent, ResourceClass, ActionRead}:   parentChildEnrolled,
	{user.RoleParent, ResourceStudent, ActionRead}: parentOwnsStudent,
}

func teacherOwnsClass(e *Engine, usr user.User, tgt Target) error {
	if _, err := e.repo.GetClassByID(tgt.ClassID); err != nil {
		return err
	}
	teacher, err := e.repo.GetTeacherByUserID(usr.ID)
	if err != nil {
		return err
	}
	if !teacher.Teaches(tgt.ClassID) {
		return &DeniedError{Reason: "Unauthorized to access this class"}
	}
	return nil
}

func teacherOwnsAssignmentClass(e *Engine, usr user.User, tgt Target) error {
	assignment, err := e.repo.GetAssignmentByID(tgt.AssignmentID)
	if err != nil {
		return err
	}
	return teacherOwnsClass(e, usr, Target{ClassID: assignment.ClassID})
}

func teacherSharesClass(e *Engine, usr user.User, tgt Target) error {
	teacher, err := e.repo.GetTeacherByUserID(usr.ID)
	if err != nil {
		return err
	}
	student, err := e.repo.GetStudentByID(tgt.StudentID)
	if err != nil {
		return err
	}
	for _, classID := range student.ClassIDs {
		if teacher.Teaches(classID) {
			return nil
		}
	}
	return &DeniedError{Reason: "Unauthorized to access this student's records"}
}

func studentEnrolled(e *Engine, usr user.User, tgt Target) error {
	if _, err := e.repo.GetClassByID(tgt.ClassID); err != nil {
		return err
	}
	student, err := e.repo.GetStudentByUserID(usr.ID)
	if err != nil {
		return err
	}
	if !student.IsEnrolledIn(tgt.ClassID) {
		return &DeniedError{Reason: "Unauthorized to access this class"}
	}
	return nil
}

func studentSelf(e *Engine, usr user.User, tgt Target) error {
	student, err := e.repo.GetStudentByUserID(usr.ID)
	if err != nil {
		return err
	}
	if student.ID != tgt.StudentID {
		return &DeniedError{Reason: "Unauthorized to access this student's records"}
	}
	return nil
}

func parentOwnsStudent(e *Engine, usr user.User, tgt Target) error {
	parent, err := e.repo.GetParentByUserID(usr.ID)
	if err != nil {
		return err
	}
	if !parent.HasChild(tgt.StudentID) {
		return &DeniedError{Reason: "Unauthorized to access this student's records"}
	}
	return nil
}

func parentChildEnrolled(e *Engine, usr user.User, tgt Target) error {
	if _, err := e.repo.GetClassByID(tgt.ClassID); err != nil {
		return err
	}
	parent, err := e.repo.GetParentByUserID(usr.ID)
	if err != nil {
		return err
	}
	for _, studentID := range parent.StudentIDs {
		student, err := e.repo.GetStudentByID(studentID)
		if err != nil {
			continue // stale child id
		}
		if student.IsEnrolledIn(tgt.ClassID) {
			return nil
		}
	}
	return &DeniedError{Reason: "Unauthorized to access this class"}
}
