package entries

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bdjoric/fitlog/internal/auth"
	"github.com/bdjoric/fitlog/internal/telemetry/metrics"
	"github.com/bdjoric/fitlog/internal/training/sessions"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlerSetup() (*Handler, *sessionsMock) {
	sessionsRepo := newSessionsMock()
	service := NewService(newRepoMock(), sessionsRepo)
	return NewHandler(service, metrics.NewTestManager()), sessionsRepo
}

func authorizedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(auth.SetUserID(req.Context(), testUserID))
}

func TestHandler_Add(t *testing.T) {
	handler, sessionsRepo := testHandlerSetup()
	sessionsRepo.add(sessions.TrainingSession{ID: 1, UserID: testUserID})

	req := authorizedRequest(
		"POST", "/entries",
		`{"trainingSessionId": 1, "exerciseTypeId": 3, "weight": 100, "sets": 3, "reps": 8}`,
	)
	rr := httptest.NewRecorder()

	handler.HandleAdd(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added TrainingEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.NotZero(t, added.ID)
	assert.Equal(t, 3, added.ExerciseTypeID)
}

func TestHandler_Add_SessionNotOwned(t *testing.T) {
	handler, sessionsRepo := testHandlerSetup()
	sessionsRepo.add(sessions.TrainingSession{ID: 1, UserID: testOtherUserID})

	req := authorizedRequest(
		"POST", "/entries",
		`{"trainingSessionId": 1, "exerciseTypeId": 3, "weight": 100, "sets": 3, "reps": 8}`,
	)
	rr := httptest.NewRecorder()

	handler.HandleAdd(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Add_InvalidEntry(t *testing.T) {
	handler, sessionsRepo := testHandlerSetup()
	sessionsRepo.add(sessions.TrainingSession{ID: 1, UserID: testUserID})

	req := authorizedRequest(
		"POST", "/entries",
		`{"trainingSessionId": 1, "exerciseTypeId": 3, "weight": -10, "sets": 3, "reps": 8}`,
	)
	rr := httptest.NewRecorder()

	handler.HandleAdd(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Add_NoAuth(t *testing.T) {
	handler, _ := testHandlerSetup()

	req := httptest.NewRequest("POST", "/entries", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	handler.HandleAdd(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	handler, _ := testHandlerSetup()

	req := authorizedRequest("GET", "/entries/42", "")
	req = mux.SetURLVars(req, map[string]string{"id": "42"})
	rr := httptest.NewRecorder()

	handler.HandleGet(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_ListForSession(t *testing.T) {
	handler, sessionsRepo := testHandlerSetup()
	sessionsRepo.add(sessions.TrainingSession{ID: 1, UserID: testUserID})

	addReq := authorizedRequest(
		"POST", "/entries",
		`{"trainingSessionId": 1, "exerciseTypeId": 3, "weight": 60, "sets": 3, "reps": 12}`,
	)
	addRr := httptest.NewRecorder()
	handler.HandleAdd(addRr, addReq)
	require.Equal(t, http.StatusCreated, addRr.Code)

	req := authorizedRequest("GET", "/sessions/1/entries", "")
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()

	handler.HandleListForSession(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []TrainingEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
}

func TestHandler_Delete(t *testing.T) {
	handler, sessionsRepo := testHandlerSetup()
	sessionsRepo.add(sessions.TrainingSession{ID: 1, UserID: testUserID})

	addReq := authorizedRequest(
		"POST", "/entries",
		`{"trainingSessionId": 1, "exerciseTypeId": 3, "weight": 80, "sets": 5, "reps": 5}`,
	)
	addRr := httptest.NewRecorder()
	handler.HandleAdd(addRr, addReq)
	require.Equal(t, http.StatusCreated, addRr.Code)

	var added TrainingEntry
	require.NoError(t, json.Unmarshal(addRr.Body.Bytes(), &added))

	req := authorizedRequest("DELETE", fmt.Sprintf("/entries/%d", added.ID), "")
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprintf("%d", added.ID)})
	rr := httptest.NewRecorder()

	handler.HandleDelete(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, fmt.Sprintf(`{"deletedId":%d}`, added.ID), rr.Body.String())
}
