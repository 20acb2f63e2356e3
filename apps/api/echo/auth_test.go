package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	inmemdb "github.com/darasoft/shule/storage/database/inmem"
)

func TestLogin(t *testing.T) {
	env := setup(t)

	t.Run("valid credentials set a session cookie", func(t *testing.T) {
		body := marshalObj(t, LoginRequest{Email: "teacher@school.edu", Password: inmemdb.DemoPassword})
		req, rec := newRequest(http.MethodPost, "/v1/auth", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			User struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, "teacher@school.edu", resp.User.Email)
		assert.Equal(t, "teacher", resp.User.Role)

		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == "token" {
				found = true
				assert.NotEmpty(t, c.Value, "session cookie is empty")
				assert.True(t, c.HttpOnly, "session cookie is not httpOnly")
			}
		}
		assert.True(t, found, "no session cookie set on login")
	})

	t.Run("wrong password", func(t *testing.T) {
		body := marshalObj(t, LoginRequest{Email: "teacher@school.edu", Password: "wrong"})
		req, rec := newRequest(http.MethodPost, "/v1/auth", body)
		env.app.ServeHTTP(rec, req)
		checkMessage(t, rec, http.StatusUnauthorized, "Invalid email or password")
	})

	t.Run("unknown account looks the same as wrong password", func(t *testing.T) {
		body := marshalObj(t, LoginRequest{Email: "ghost@school.edu", Password: inmemdb.DemoPassword})
		req, rec := newRequest(http.MethodPost, "/v1/auth", body)
		env.app.ServeHTTP(rec, req)
		checkMessage(t, rec, http.StatusUnauthorized, "Invalid email or password")
	})

	t.Run("missing fields", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth", []byte(`{}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})
}

func TestLogout(t *testing.T) {
	env := setup(t)

	req, rec := newRequest(http.MethodDelete, "/v1/auth")
	env.app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			assert.Empty(t, c.Value, "logout did not blank the session cookie")
			assert.Less(t, c.MaxAge, 0, "logout did not expire the session cookie")
			return
		}
	}
	t.Error("logout did not touch the session cookie")
}

func TestCurrentUser(t *testing.T) {
	env := setup(t)

	t.Run("authenticated", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/users/current", &env.student1)
		checkCode(t, rec, http.StatusOK)

		var resp struct {
			User struct {
				ID           string `json:"id"`
				PasswordHash string `json:"passwordHash"`
			} `json:"user"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, env.student1.ID, resp.User.ID)
		assert.Empty(t, resp.User.PasswordHash, "password hash leaked in response")
	})

	t.Run("no session cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/users/current", nil)
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("garbage token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/current", "not-a-jwt")
		env.app.ServeHTTP(rec, req)
		checkMessage(t, rec, http.StatusUnauthorized, "Unauthorized")
	})
}
