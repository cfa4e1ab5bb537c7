package entries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bdjoric/fitlog/internal/auth"
	"github.com/bdjoric/fitlog/internal/telemetry/metrics"
	"github.com/bdjoric/fitlog/internal/telemetry/tracing"
	"github.com/bdjoric/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type entriesService interface {
	Add(ctx context.Context, userID string, newEntry NewEntry) (*TrainingEntry, error)
	Get(ctx context.Context, id int, userID string) (*TrainingEntry, error)
	List(ctx context.Context, userID string) ([]TrainingEntry, error)
	ListForSession(ctx context.Context, sessionID int, userID string) ([]TrainingEntry, error)
	Update(ctx context.Context, userID string, id int, newEntry NewEntry) (*TrainingEntry, error)
	Delete(ctx context.Context, id int, userID string) error
}

type DeleteEntryResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	service entriesService
	metrics *metrics.Manager
}

func NewHandler(service entriesService, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "entries.handler.add")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var newEntry NewEntry
	if err := json.NewDecoder(r.Body).Decode(&newEntry); err != nil {
		log.Tracef("new entry, unmarshal json params: %s", err)
		http.Error(w, "add entry failed", http.StatusBadRequest)
		return
	}

	addedEntry, err := handler.service.Add(ctx, userID, newEntry)
	if err != nil {
		writeEntryError(w, err, "add entry")
		return
	}

	handler.metrics.CounterEntriesAdded.Inc()

	addedEntryJson, err := json.Marshal(addedEntry)
	if err != nil {
		log.Errorf("failed to marshal new entry: %s", err)
		http.Error(w, "error, failed to add new entry", http.StatusInternalServerError)
		return
	}

	log.Debugf("new entry added: %d", addedEntry.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedEntryJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "entries.handler.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := entryIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := handler.service.Get(ctx, id, userID)
	if err != nil {
		writeEntryError(w, err, "get entry")
		return
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal entry: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "entries.handler.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	entries, err := handler.service.List(ctx, userID)
	if err != nil {
		log.Errorf("list entries error: %s", err)
		http.Error(w, "failed to get entries", http.StatusInternalServerError)
		return
	}

	writeEntriesList(w, entries)
}

func (handler *Handler) HandleListForSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "entries.handler.listForSession")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := entryIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.service.ListForSession(ctx, id, userID)
	if err != nil {
		writeEntryError(w, err, "list session entries")
		return
	}

	writeEntriesList(w, entries)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "entries.handler.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := entryIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var updateReq NewEntry
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update entry, unmarshal json params: %s", err)
		http.Error(w, "update entry failed", http.StatusBadRequest)
		return
	}

	updatedEntry, err := handler.service.Update(ctx, userID, id, updateReq)
	if err != nil {
		writeEntryError(w, err, "update entry")
		return
	}

	updatedEntryJson, err := json.Marshal(updatedEntry)
	if err != nil {
		log.Errorf("failed to marshal updated entry: %s", err)
		http.Error(w, "failed to marshal updated entry", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updatedEntryJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "entries.handler.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := entryIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, id, userID); err != nil {
		writeEntryError(w, err, "delete entry")
		return
	}

	deleteRespJson, err := json.Marshal(DeleteEntryResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func writeEntriesList(w http.ResponseWriter, entries []TrainingEntry) {
	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("marshal entries error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entriesJson)
}

func writeEntryError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSessionNotOwned):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrEntryNotFound):
		http.Error(w, "entry not found", http.StatusNotFound)
	default:
		log.Errorf("%s error: %s", action, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func entryIDFromRequest(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}
