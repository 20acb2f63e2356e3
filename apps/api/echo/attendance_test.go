package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasoft/shule/core/school"
)

func TestCreateAttendance(t *testing.T) {
	env := setup(t)

	na := school.NewAttendance{
		StudentID: env.student1Rec.ID,
		ClassID:   env.class1.ID,
		Date:      "2021-09-07",
		Status:    school.AttendanceAbsent,
	}

	t.Run("owning teacher records", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/attendance", &env.teacher1, marshalObj(t, na))
		checkCode(t, rec, http.StatusCreated)

		var resp struct {
			Attendance school.Attendance `json:"attendance"`
		}
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Attendance.ID)
		assert.Equal(t, school.AttendanceAbsent, resp.Attendance.Status)
	})

	t.Run("non-owning teacher denied", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/attendance", &env.teacher2, marshalObj(t, na))
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized to access this class")
	})

	t.Run("parent denied", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/attendance", &env.parent1, marshalObj(t, na))
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		bad := na
		bad.Status = "asleep"
		rec := env.do(t, http.MethodPost, "/v1/attendance", &env.teacher1, marshalObj(t, bad))
		checkCode(t, rec, http.StatusBadRequest)
	})
}

func TestStudentAttendance(t *testing.T) {
	env := setup(t)
	path := "/v1/attendance/student/" + env.student1Rec.ID

	t.Run("parent reads their child", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, path, &env.parent1)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			Attendance []school.Attendance `json:"attendance"`
		}
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Attendance, 1, "want the seeded entry")
		assert.Equal(t, school.AttendancePresent, resp.Attendance[0].Status)
	})

	t.Run("classId filter excludes other classes", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, path+"?classId="+env.class2.ID, &env.parent1)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			Attendance []school.Attendance `json:"attendance"`
		}
		decodeBody(t, rec, &resp)
		assert.Empty(t, resp.Attendance)
	})

	t.Run("student reads their own", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, path, &env.student1)
		checkCode(t, rec, http.StatusOK)
	})

	t.Run("parent denied on another student", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/attendance/student/"+env.student2Rec.ID, &env.parent1)
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized to access this student's records")
	})

	t.Run("principal lists everything", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/attendance", &env.admin)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			Attendance []school.Attendance `json:"attendance"`
		}
		decodeBody(t, rec, &resp)
		assert.Len(t, resp.Attendance, 1)
	})

	t.Run("teacher denied the global list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/attendance", &env.teacher1)
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized")
	})
}
