package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futureflix/models"
)

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.store, env.sessions)

	rec := httptest.NewRecorder()
	r := jsonRequest(t, "POST", "/signup", `{"email":"marcus@example.com","password":"secret123"}`)
	h.Signup(testContext(t), rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "signup logs the new user in")
	assert.True(t, cookie.HttpOnly)

	var profile models.ProfileResponse
	decodeBody(t, rec, &profile)
	assert.Equal(t, "marcus@example.com", profile.Email)
	assert.Equal(t, "marcus", profile.Username)
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marcus@example.com")
	h := NewAuthHandler(env.store, env.sessions)

	rec := httptest.NewRecorder()
	r := jsonRequest(t, "POST", "/signup", `{"email":"marcus@example.com","password":"secret123"}`)
	h.Signup(testContext(t), rec, r)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "Email address is already registered", payload.Message)
	assert.Nil(t, sessionCookie(rec))
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.store, env.sessions)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing email", `{"password":"secret123"}`, "Email address is required"},
		{"invalid email", `{"email":"not-an-email","password":"secret123"}`, "Email address must be a valid email address"},
		{"short password", `{"email":"marcus@example.com","password":"short"}`, "Password must have at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Signup(testContext(t), rec, jsonRequest(t, "POST", "/signup", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var payload errorPayload
			decodeBody(t, rec, &payload)
			assert.Equal(t, tt.message, payload.Message)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marcus@example.com")
	h := NewAuthHandler(env.store, env.sessions)

	rec := httptest.NewRecorder()
	r := jsonRequest(t, "POST", "/login", `{"email":"marcus@example.com","password":"secret123"}`)
	h.Login(testContext(t), rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, sessionCookie(rec))
}

func TestLoginUnregisteredEmail(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.store, env.sessions)

	rec := httptest.NewRecorder()
	r := jsonRequest(t, "POST", "/login", `{"email":"nobody@example.com","password":"secret123"}`)
	h.Login(testContext(t), rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "Email address is not registered", payload.Message)
	assert.Nil(t, sessionCookie(rec), "a failed login must not set a session cookie")
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marcus@example.com")
	h := NewAuthHandler(env.store, env.sessions)

	rec := httptest.NewRecorder()
	r := jsonRequest(t, "POST", "/login", `{"email":"marcus@example.com","password":"wrongpass"}`)
	h.Login(testContext(t), rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "The entered password is not correct", payload.Message)
	assert.Nil(t, sessionCookie(rec))
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.store, env.sessions)

	rec := httptest.NewRecorder()
	h.Me(testContext(t), rec, httptest.NewRequest("GET", "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "/login", payload.DocumentationURL)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marcus@example.com")
	h := NewAuthHandler(env.store, env.sessions)

	r := httptest.NewRequest("GET", "/me", nil)
	env.login(t, r, user.ID)

	rec := httptest.NewRecorder()
	h.Me(testContext(t), rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)

	var profile models.ProfileResponse
	decodeBody(t, rec, &profile)
	assert.Equal(t, "marcus@example.com", profile.Email)
}

func TestMeTamperedCookie(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.store, env.sessions)

	r := httptest.NewRequest("GET", "/me", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "forged-value"})

	rec := httptest.NewRecorder()
	h.Me(testContext(t), rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, "an undecodable cookie degrades to anonymous")
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marcus@example.com")
	h := NewAuthHandler(env.store, env.sessions)

	r := jsonRequest(t, "PUT", "/profile", `{"username":"marcus-p","homepage":"https://futurestud.io"}`)
	env.login(t, r, user.ID)

	rec := httptest.NewRecorder()
	h.UpdateProfile(testContext(t), rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)

	var profile models.ProfileResponse
	decodeBody(t, rec, &profile)
	assert.Equal(t, "marcus-p", profile.Username)
	assert.Equal(t, "https://futurestud.io", profile.Homepage)
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "marcus@example.com")
	user := env.seedUser(t, "norman@example.com")
	h := NewAuthHandler(env.store, env.sessions)

	r := jsonRequest(t, "PUT", "/profile", `{"username":"marcus"}`)
	env.login(t, r, user.ID)

	rec := httptest.NewRecorder()
	h.UpdateProfile(testContext(t), rec, r)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResetPasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "marcus@example.com")
	h := NewAuthHandler(env.store, env.sessions)
	ctx := testContext(t)

	token, err := env.store.SetResetToken(ctx, user.ID)
	require.NoError(t, err)

	r := jsonRequest(t, "POST", "/reset-password/"+token, `{"password":"brandnewpass"}`)
	r = mux.SetURLVars(r, map[string]string{"token": token})

	rec := httptest.NewRecorder()
	h.ResetPassword(ctx, rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, sessionCookie(rec), "a successful reset logs the user in")

	// the new password works for login
	rec = httptest.NewRecorder()
	h.Login(ctx, rec, jsonRequest(t, "POST", "/login", `{"email":"marcus@example.com","password":"brandnewpass"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.store, env.sessions)

	r := jsonRequest(t, "POST", "/reset-password/bogus", `{"password":"brandnewpass"}`)
	r = mux.SetURLVars(r, map[string]string{"token": "bogus"})

	rec := httptest.NewRecorder()
	h.ResetPassword(testContext(t), rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload errorPayload
	decodeBody(t, rec, &payload)
	assert.Equal(t, "The password reset token is invalid or has expired", payload.Message)
}
