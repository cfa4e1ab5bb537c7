package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/bdjoric/fitlog/internal/telemetry/tracing"
	"github.com/bdjoric/fitlog/internal/training/sessions"

	"go.opentelemetry.io/otel/attribute"
)

type entriesRepo interface {
	Add(ctx context.Context, entry TrainingEntry) (*TrainingEntry, error)
	Get(ctx context.Context, id int, userID string) (*TrainingEntry, error)
	List(ctx context.Context, params ListParams) ([]TrainingEntry, error)
	Update(ctx context.Context, entry *TrainingEntry) error
	Delete(ctx context.Context, id int, userID string) error
}

type sessionGetter interface {
	Get(ctx context.Context, id int, userID string) (*sessions.TrainingSession, error)
}

// Service guards every entry write with a session ownership check:
// an entry can only ever land in a session of the same user.
type Service struct {
	repo         entriesRepo
	sessionsRepo sessionGetter
}

func NewService(repo entriesRepo, sessionsRepo sessionGetter) *Service {
	return &Service{
		repo:         repo,
		sessionsRepo: sessionsRepo,
	}
}

func validateEntry(entry NewEntry) error {
	if entry.Weight < 0 {
		return fmt.Errorf("%w: negative weight", ErrValidation)
	}
	if entry.Sets < 1 {
		return fmt.Errorf("%w: sets must be positive", ErrValidation)
	}
	if entry.Reps < 1 {
		return fmt.Errorf("%w: reps must be positive", ErrValidation)
	}
	return nil
}

func (s *Service) checkSessionOwnership(ctx context.Context, sessionID int, userID string) error {
	if _, err := s.sessionsRepo.Get(ctx, sessionID, userID); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return ErrSessionNotOwned
		}
		return fmt.Errorf("get session %d: %w", sessionID, err)
	}
	return nil
}

func (s *Service) Add(ctx context.Context, userID string, newEntry NewEntry) (_ *TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "entries.service.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session_id", newEntry.TrainingSessionID))

	if err := validateEntry(newEntry); err != nil {
		return nil, err
	}
	if err := s.checkSessionOwnership(ctx, newEntry.TrainingSessionID, userID); err != nil {
		return nil, err
	}

	return s.repo.Add(ctx, TrainingEntry{
		UserID:            userID,
		TrainingSessionID: newEntry.TrainingSessionID,
		ExerciseTypeID:    newEntry.ExerciseTypeID,
		Weight:            newEntry.Weight,
		Sets:              newEntry.Sets,
		Reps:              newEntry.Reps,
	})
}

func (s *Service) Get(ctx context.Context, id int, userID string) (*TrainingEntry, error) {
	return s.repo.Get(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]TrainingEntry, error) {
	return s.repo.List(ctx, ListParams{UserID: userID})
}

// ListForSession returns the entries of one session. The session must
// belong to the user, otherwise ErrSessionNotOwned comes back.
func (s *Service) ListForSession(ctx context.Context, sessionID int, userID string) (_ []TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "entries.service.listForSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session_id", sessionID))

	if err := s.checkSessionOwnership(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, ListParams{
		UserID:    userID,
		SessionID: &sessionID,
	})
}

func (s *Service) Update(ctx context.Context, userID string, id int, newEntry NewEntry) (_ *TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "entries.service.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	if err := validateEntry(newEntry); err != nil {
		return nil, err
	}

	currentEntry, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// moving the entry to another session re-checks the target session too
	if newEntry.TrainingSessionID != currentEntry.TrainingSessionID {
		if err := s.checkSessionOwnership(ctx, newEntry.TrainingSessionID, userID); err != nil {
			return nil, err
		}
	}

	updatedEntry := &TrainingEntry{
		ID:                id,
		UserID:            userID,
		TrainingSessionID: newEntry.TrainingSessionID,
		ExerciseTypeID:    newEntry.ExerciseTypeID,
		Weight:            newEntry.Weight,
		Sets:              newEntry.Sets,
		Reps:              newEntry.Reps,
	}
	if err := s.repo.Update(ctx, updatedEntry); err != nil {
		return nil, err
	}

	return updatedEntry, nil
}

func (s *Service) Delete(ctx context.Context, id int, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}
