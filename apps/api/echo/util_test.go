package echoapi

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/message"
	"github.com/darasoft/shule/core/school"
	"github.com/darasoft/shule/core/user"
	emailsvc "github.com/darasoft/shule/services/email"
	logsvc "github.com/darasoft/shule/services/logger"
	inmemdb "github.com/darasoft/shule/storage/database/inmem"
)

// testEnv is a fully wired server over a freshly seeded store, plus
// resolved handles to the seed records the tests act on.
type testEnv struct {
	app Server

	admin    user.User
	teacher1 user.User
	teacher2 user.User
	student1 user.User
	student2 user.User
	parent1  user.User

	teacher1Rec school.Teacher
	student1Rec school.Student
	student2Rec school.Student
	parent1Rec  school.Parent
	class1      school.Class
	class2      school.Class
	assignment1 school.Assignment
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err, "inmemdb.Open()")
	require.NoError(t, inmemdb.SeedDemoData(db), "inmemdb.SeedDemoData()")

	usrRepo := inmemdb.NewUserRepository(db)
	schRepo := inmemdb.NewSchoolRepository(db)
	msgRepo := inmemdb.NewMessageRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo, mailSvc)
	schSvc := school.NewService(schRepo, usrRepo)
	msgSvc := message.NewService(msgRepo, usrRepo, mailSvc)

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	school.RegisterValidators(validate, translator)

	logger := logsvc.NewConsoleLogger(log.New(ioutil.Discard, "", 0))
	logger.Enable(false)

	env := &testEnv{
		app: NewServer(&Options{
			DisableReqLogs: true,
			Logger:         logger,
			UserSvc:        usrSvc,
			SchoolSvc:      schSvc,
			MessageSvc:     msgSvc,
			Authz:          authz.NewEngine(schRepo),
			Validate:       validate,
			Translator:     translator,
		}),
	}

	byEmail := func(email string) user.User {
		usr, err := usrRepo.GetUserByEmail(email)
		require.NoErrorf(t, err, "seed user %s missing", email)
		return usr
	}
	env.admin = byEmail("admin@school.edu")
	env.teacher1 = byEmail("teacher@school.edu")
	env.teacher2 = byEmail("teacher2@school.edu")
	env.student1 = byEmail("student@school.edu")
	env.student2 = byEmail("student2@school.edu")
	env.parent1 = byEmail("parent@school.edu")

	env.teacher1Rec, err = schRepo.GetTeacherByUserID(env.teacher1.ID)
	require.NoError(t, err, "seed teacher record missing")
	env.student1Rec, err = schRepo.GetStudentByUserID(env.student1.ID)
	require.NoError(t, err, "seed student record missing")
	env.student2Rec, err = schRepo.GetStudentByUserID(env.student2.ID)
	require.NoError(t, err, "seed student2 record missing")
	env.parent1Rec, err = schRepo.GetParentByUserID(env.parent1.ID)
	require.NoError(t, err, "seed parent record missing")
	env.class1, err = schRepo.GetClassByID(env.teacher1Rec.ClassIDs[0])
	require.NoError(t, err, "seed class missing")
	teacher2Rec, err := schRepo.GetTeacherByUserID(env.teacher2.ID)
	require.NoError(t, err, "seed teacher2 record missing")
	env.class2, err = schRepo.GetClassByID(teacher2Rec.ClassIDs[0])
	require.NoError(t, err, "seed class2 missing")
	assignments, err := schRepo.GetAssignmentsByClassID(env.class1.ID)
	require.NoError(t, err, "seed assignment missing")
	require.NotEmpty(t, assignments, "seed assignment missing")
	env.assignment1 = assignments[0]
	return env
}

func (env *testEnv) userByKey(key string) user.User {
	switch key {
	case "admin":
		return env.admin
	case "teacher1":
		return env.teacher1
	case "teacher2":
		return env.teacher2
	case "student1":
		return env.student1
	case "student2":
		return env.student2
	case "parent1":
		return env.parent1
	}
	return user.User{}
}

func sessionToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	require.NoError(t, err, "GenerateToken()")
	return token
}

// newAuthRequest builds a request carrying the session cookie, the way
// browsers send it.
func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (env *testEnv) do(t *testing.T, method, path string, usr *user.User, data ...[]byte) *httptest.ResponseRecorder {
	t.Helper()
	var token string
	if usr != nil {
		token = sessionToken(t, *usr)
	}
	req, rec := newAuthRequest(method, path, token, data...)
	env.app.ServeHTTP(rec, req)
	return rec
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err, "marshalObj()")
	return data
}

// decodeBody unmarshals the response into dst, failing the test on bad JSON.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoErrorf(t, json.Unmarshal(rec.Body.Bytes(), dst), "bad response body %q", rec.Body.String())
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equalf(t, want, rec.Code, "body %s", rec.Body.String())
}

func checkMessage(t *testing.T, rec *httptest.ResponseRecorder, wantCode int, wantMsg string) {
	t.Helper()
	assert.Equalf(t, wantCode, rec.Code, "body %s", rec.Body.String())
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, wantMsg, body.Message)
}
