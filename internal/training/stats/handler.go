package stats

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bdjoric/fitlog/internal/auth"
	"github.com/bdjoric/fitlog/internal/telemetry/tracing"
	"github.com/bdjoric/fitlog/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	analyzer     *Analyzer
	cache        *freecache.Cache
	cacheTTLSecs int
}

func NewHandler(analyzer *Analyzer, cacheTTLSecs int) *Handler {
	megabyte := 1024 * 1024
	return &Handler{
		analyzer:     analyzer,
		cache:        freecache.NewCache(10 * megabyte),
		cacheTTLSecs: cacheTTLSecs,
	}
}

func (handler *Handler) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "stats.handler.userStats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	daysBack := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			http.Error(w, "invalid days parameter (must be positive integer)", http.StatusBadRequest)
			return
		}
		daysBack = days
	}

	cacheKey := []byte(fmt.Sprintf("stats||%s||%d", userID, daysBack))
	if cachedStats, err := handler.cache.Get(cacheKey); err == nil {
		log.Tracef("user stats for %s found in cache", userID)
		pkg.WriteJSONResponseOK(w, string(cachedStats))
		return
	}

	userStats, err := handler.analyzer.UserStats(ctx, userID, daysBack)
	if err != nil {
		log.Errorf("failed to get user stats: %s", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(userStats)
	if err != nil {
		log.Errorf("failed to marshal user stats: %s", err)
		http.Error(w, "failed to marshal stats", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set(cacheKey, statsJson, handler.cacheTTLSecs); err != nil {
		log.Errorf("failed to cache user stats for %s: %s", userID, err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statsJson)
}

func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "stats.handler.exerciseHistory")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	typeIDStr := mux.Vars(r)["typeId"]
	if typeIDStr == "" {
		http.Error(w, "error, exercise type id empty", http.StatusBadRequest)
		return
	}
	typeID, err := strconv.Atoi(typeIDStr)
	if err != nil {
		http.Error(w, "error, exercise type id NaN", http.StatusBadRequest)
		return
	}

	history, err := handler.analyzer.History(ctx, userID, typeID)
	if err != nil {
		log.Errorf("failed to get exercise history [%d]: %s", typeID, err)
		http.Error(w, "failed to get exercise history", http.StatusInternalServerError)
		return
	}

	historyJson, err := json.Marshal(history)
	if err != nil {
		log.Errorf("failed to marshal exercise history: %s", err)
		http.Error(w, "failed to marshal exercise history", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, historyJson)
}
