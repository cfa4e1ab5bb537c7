package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bdjoric/fitlog/pkg"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// bcrypt hash of "testpass"
const testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var _ sessionService = (*authServiceMock)(nil)

type authServiceMock struct {
	sessions map[string]string // token -> user id
}

func newAuthServiceMock() *authServiceMock {
	return &authServiceMock{
		sessions: make(map[string]string),
	}
}

func (a *authServiceMock) NewSession(_ context.Context, userID string) (string, error) {
	token := "test_token"
	a.sessions[token] = userID
	return token, nil
}

func (a *authServiceMock) Logout(_ context.Context, token string) (bool, error) {
	if _, ok := a.sessions[token]; !ok {
		return false, errors.New("unknown token")
	}
	delete(a.sessions, token)
	return true, nil
}

func registerRequest(username, password string) *http.Request {
	req := httptest.NewRequest(
		"POST", "/a/register",
		strings.NewReader(`{"username":"`+username+`","password":"`+password+`"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandler_HandleRegister(t *testing.T) {
	repo := newRepoMock()
	h := NewHandler(repo, newAuthServiceMock())

	rec := httptest.NewRecorder()
	h.handleRegister(rec, registerRequest("mirko", "s3cr3t-pass"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mirko", resp.Username)
	assert.NotEmpty(t, resp.ID)

	added, err := repo.GetByUsername(context.Background(), "mirko")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, added.ID)
	assert.True(t, pkg.CheckPasswordHash("s3cr3t-pass", added.PasswordHash))
}

func TestHandler_HandleRegister_UsernameTaken(t *testing.T) {
	repo := newRepoMock()
	repo.Users["u1"] = &User{
		ID:       "u1",
		Username: "mirko",
	}
	h := NewHandler(repo, newAuthServiceMock())

	rec := httptest.NewRecorder()
	h.handleRegister(rec, registerRequest("mirko", "s3cr3t-pass"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_HandleRegister_EmptyCredentials(t *testing.T) {
	h := NewHandler(newRepoMock(), newAuthServiceMock())

	rec := httptest.NewRecorder()
	h.handleRegister(rec, registerRequest("", "s3cr3t-pass"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.handleRegister(rec, registerRequest("mirko", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleLogin(t *testing.T) {
	repo := newRepoMock()
	userID := uuid.NewString()
	repo.Users[userID] = &User{
		ID:           userID,
		Username:     "mirko",
		PasswordHash: testPasswordHash,
		CreatedAt:    time.Now(),
	}

	authService := newAuthServiceMock()
	h := NewHandler(repo, authService)

	rec := httptest.NewRecorder()
	h.handleLogin(rec, registerRequest("mirko", "testpass"))
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	assert.Equal(t, "test_token", loginResp.Token)
	assert.Equal(t, userID, authService.sessions[loginResp.Token])
}

func TestHandler_HandleLogin_WrongCredentials(t *testing.T) {
	repo := newRepoMock()
	userID := uuid.NewString()
	repo.Users[userID] = &User{
		ID:           userID,
		Username:     "mirko",
		PasswordHash: testPasswordHash,
	}
	h := NewHandler(repo, newAuthServiceMock())

	// wrong password
	rec := httptest.NewRecorder()
	h.handleLogin(rec, registerRequest("mirko", "wrongpass"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown user
	rec = httptest.NewRecorder()
	h.handleLogin(rec, registerRequest("slavko", "testpass"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleLogout(t *testing.T) {
	authService := newAuthServiceMock()
	authService.sessions["test_token"] = "u1"
	h := NewHandler(newRepoMock(), authService)

	// no token
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/a/logout", nil)
	h.handleLogout(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/a/logout", nil)
	req.Header.Set("X-FITLOG-TOKEN", "test_token")
	h.handleLogout(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, authService.sessions)
}
