package stats_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bdjoric/fitlog/internal/auth"
	"github.com/bdjoric/fitlog/internal/training/entries"
	"github.com/bdjoric/fitlog/internal/training/stats"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authorizedRequest(target string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	return req.WithContext(auth.SetUserID(req.Context(), testUserID))
}

func TestHandler_UserStats_Cached(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockentriesLister(ctrl)
	handler := stats.NewHandler(stats.NewAnalyzer(repoMock), 60)

	// repo gets hit only once, the second request comes from the cache
	repoMock.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]entries.TrainingEntry{
			{ID: 1, ExerciseTypeID: 1, ExerciseName: "Deadlift", Weight: 180, Sets: 3, Reps: 5},
		}, nil).
		Times(1)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.HandleUserStats(rr, authorizedRequest("/stats"))
		require.Equal(t, http.StatusOK, rr.Code)

		var userStats []stats.ExerciseStat
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &userStats))
		require.Len(t, userStats, 1)
		assert.Equal(t, "Deadlift", userStats[0].ExerciseTypeName)
		assert.Equal(t, 15, userStats[0].TotalRepetitions)
	}
}

func TestHandler_UserStats_InvalidDays(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := stats.NewHandler(stats.NewAnalyzer(NewMockentriesLister(ctrl)), 60)

	for _, days := range []string{"abc", "-5", "0"} {
		rr := httptest.NewRecorder()
		handler.HandleUserStats(rr, authorizedRequest("/stats?days="+days))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}

func TestHandler_UserStats_NoAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := stats.NewHandler(stats.NewAnalyzer(NewMockentriesLister(ctrl)), 60)

	rr := httptest.NewRecorder()
	handler.HandleUserStats(rr, httptest.NewRequest("GET", "/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_ExerciseHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockentriesLister(ctrl)
	handler := stats.NewHandler(stats.NewAnalyzer(repoMock), 60)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	repoMock.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return([]entries.TrainingEntry{
			{ID: 1, ExerciseTypeID: 4, Weight: 60, Sets: 3, Reps: 12, SessionStart: day.Add(18 * time.Hour)},
		}, nil).
		Times(1)

	req := authorizedRequest("/stats/exercise/4/history")
	req = mux.SetURLVars(req, map[string]string{"typeId": "4"})
	rr := httptest.NewRecorder()

	handler.HandleExerciseHistory(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var history stats.ExerciseHistory
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	assert.Equal(t, 4, history.ExerciseTypeID)
	require.Len(t, history.Stats, 1)
}

func TestHandler_ExerciseHistory_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := stats.NewHandler(stats.NewAnalyzer(NewMockentriesLister(ctrl)), 60)

	req := authorizedRequest("/stats/exercise/abc/history")
	req = mux.SetURLVars(req, map[string]string{"typeId": "abc"})
	rr := httptest.NewRecorder()

	handler.HandleExerciseHistory(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
