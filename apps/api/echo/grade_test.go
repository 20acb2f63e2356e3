package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasoft/shule/core/school"
)

func points(v float64) *float64 { return &v }

func TestCreateGrade(t *testing.T) {
	env := setup(t)

	grade := school.NewGrade{
		StudentID:    env.student1Rec.ID,
		AssignmentID: env.assignment1.ID,
		Points:       points(85),
		Feedback:     "Good work",
	}

	t.Run("owning teacher records a grade", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/grades", &env.teacher1, marshalObj(t, grade))
		checkCode(t, rec, http.StatusCreated)

		var resp struct {
			Grade school.Grade `json:"grade"`
		}
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Grade.ID)
		assert.Equal(t, float64(85), resp.Grade.Points)
	})

	t.Run("points above max rejected", func(t *testing.T) {
		bad := grade
		bad.Points = points(101)
		rec := env.do(t, http.MethodPost, "/v1/grades", &env.teacher1, marshalObj(t, bad))
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("negative points rejected", func(t *testing.T) {
		bad := grade
		bad.Points = points(-1)
		rec := env.do(t, http.MethodPost, "/v1/grades", &env.teacher1, marshalObj(t, bad))
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown assignment for a teacher", func(t *testing.T) {
		bad := grade
		bad.AssignmentID = "nope"
		rec := env.do(t, http.MethodPost, "/v1/grades", &env.teacher1, marshalObj(t, bad))
		checkMessage(t, rec, http.StatusNotFound, "Assignment not found")
	})

	t.Run("non-owning teacher denied", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/grades", &env.teacher2, marshalObj(t, grade))
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized to access this class")
	})

	t.Run("student denied before any lookup", func(t *testing.T) {
		// even with a bogus assignment id the student gets a denial,
		// not a not-found
		bad := grade
		bad.AssignmentID = "nope"
		rec := env.do(t, http.MethodPost, "/v1/grades", &env.student1, marshalObj(t, bad))
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func TestStudentGrades(t *testing.T) {
	env := setup(t)

	grade := school.NewGrade{
		StudentID:    env.student1Rec.ID,
		AssignmentID: env.assignment1.ID,
		Points:       points(92),
	}
	rec := env.do(t, http.MethodPost, "/v1/grades", &env.teacher1, marshalObj(t, grade))
	checkCode(t, rec, http.StatusCreated)

	t.Run("student reads their own by id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/grades/student/"+env.student1Rec.ID, &env.student1)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			Grades []school.GradeView `json:"grades"`
		}
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Grades, 1)
		got := resp.Grades[0]
		assert.Equal(t, env.assignment1.Title, got.AssignmentTitle)
		assert.Equal(t, env.class1.Subject, got.Subject)
		assert.Equal(t, env.assignment1.MaxPoints, got.MaxPoints)
	})

	t.Run("mine matches the by-id view", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/grades/mine", &env.student1)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			Grades []school.GradeView `json:"grades"`
		}
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Grades, 1)
		assert.Equal(t, float64(92), resp.Grades[0].Points)
	})

	t.Run("parent reads their child", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/grades/student/"+env.student1Rec.ID, &env.parent1)
		checkCode(t, rec, http.StatusOK)
	})

	t.Run("parent denied on another student", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/grades/student/"+env.student2Rec.ID, &env.parent1)
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized to access this student's records")
	})

	t.Run("student denied on another student", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/grades/student/"+env.student2Rec.ID, &env.student1)
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized to access this student's records")
	})

	t.Run("principal lists all grades", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/grades", &env.admin)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			Grades []school.Grade `json:"grades"`
		}
		decodeBody(t, rec, &resp)
		assert.Len(t, resp.Grades, 1)
	})

	t.Run("teacher denied the grade list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/grades", &env.teacher1)
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized")
	})
}
