package exercisetypes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bdjoric/fitlog/internal/telemetry/tracing"
	"github.com/bdjoric/fitlog/pkg"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

type typesRepo interface {
	Add(ctx context.Context, name string) (*ExerciseType, error)
	List(ctx context.Context) ([]ExerciseType, error)
}

type Handler struct {
	repo typesRepo
}

func NewHandler(repo typesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

type AddExerciseTypeRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisetypes.handler.add")
	defer span.End()

	var req AddExerciseTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add exercise type, unmarshal json params: %s", err)
		http.Error(w, "add exercise type failed", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return
	}

	exerciseType, err := handler.repo.Add(ctx, req.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			http.Error(w, "exercise type exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add exercise type: %s", err)
		http.Error(w, "add exercise type failed", http.StatusInternalServerError)
		return
	}

	exerciseTypeJson, err := json.Marshal(exerciseType)
	if err != nil {
		log.Errorf("marshal exercise type error: %s", err)
		http.Error(w, "add exercise type failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exerciseTypeJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisetypes.handler.list")
	defer span.End()

	exerciseTypes, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list exercise types error: %s", err)
		http.Error(w, "failed to get exercise types", http.StatusInternalServerError)
		return
	}

	exerciseTypesJson, err := json.Marshal(exerciseTypes)
	if err != nil {
		log.Errorf("marshal exercise types error: %s", err)
		http.Error(w, "failed to get exercise types", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exerciseTypesJson)
}
