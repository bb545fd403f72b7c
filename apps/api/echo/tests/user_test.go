package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavyajain7773/ATF-Design/core/user"
	"github.com/bhavyajain7773/ATF-Design/tests"
)

func Test_userApi_register(t *testing.T) {
	srv, env := setup(t)
	testutil.RegisterUser(t, env.App, "Ravi Kumar", "ravi@test.in", "pwd")
	_, err := env.App.Logout(context.Background())
	require.NoError(t, err)

	tests := []httpTest{
		{
			name: "blank fields", method: http.MethodPost, path: "/v1/auth/register",
			body:     []byte(`{"name": " ", "email": "nope", "phone": "", "password": ""}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":     "this field cannot be blank",
				"email":    "email must be a valid email address",
				"phone":    "this field cannot be blank",
				"password": "this field is required",
			}),
		},
		{
			name: "email taken", method: http.MethodPost, path: "/v1/auth/register",
			body:     []byte(`{"name": "Ravi", "email": "ravi@test.in", "phone": "+91 1", "password": "x"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "This email is already registered."}),
		},
	}
	runHttpTests(t, srv, tests)

	var usr user.User
	rec := do(t, srv, http.MethodPost, "/v1/auth/register",
		[]byte(`{"name": "Asha Verma", "email": "asha@test.in", "phone": "+91 98765 43210", "password": "pwd"}`), &usr)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Regexp(t, `^USR-[0-9A-F]{8}$`, usr.ID)
	assert.Equal(t, "asha@test.in", usr.Email)
	assert.Empty(t, usr.Password)

	var sess user.User
	rec = do(t, srv, http.MethodGet, "/v1/auth/session", nil, &sess)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usr, sess)
}

func Test_userApi_login(t *testing.T) {
	srv, env := setup(t)
	usr := testutil.RegisterUser(t, env.App, "Asha Verma", "asha@test.in", "pwd")

	tests := []httpTest{
		{
			name: "logout", method: http.MethodPost, path: "/v1/auth/logout",
			wantCode: http.StatusNoContent,
		},
		{
			name: "session required", path: "/v1/auth/session",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errLoginRequired),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email": "nobody@test.in", "password": "pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "No account found with this email. Please Register first."}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email": "asha@test.in", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "Incorrect password. Please try again."}),
		},
		{
			name: "ok", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email": "asha@test.in", "password": "pwd"}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, usr.Public()),
		},
		{
			name: "admin: wrong credentials", method: http.MethodPost, path: "/v1/auth/admin-login",
			body:     []byte(`{"id": "admin", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"id": "Invalid administrator credentials."}),
		},
		{
			name: "admin: ok", method: http.MethodPost, path: "/v1/auth/admin-login",
			body:     []byte(`{"id": "admin", "password": "admin"}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, user.Admin()),
		},
	}
	runHttpTests(t, srv, tests)
}
