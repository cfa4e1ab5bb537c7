package entries

import (
	"context"
	"fmt"
	"time"

	"github.com/bdjoric/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type ListParams struct {
	UserID           string
	SessionID        *int
	ExerciseTypeID   *int
	SessionStartFrom *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry TrainingEntry) (_ *TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO training_entry
				(user_id, training_session_id, exercise_type_id, weight, sets, reps)
				VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		entry.UserID, entry.TrainingSessionID, entry.ExerciseTypeID,
		entry.Weight, entry.Sets, entry.Reps,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert training entry: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", id))

	entry.ID = id
	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, id int, userID string) (_ *TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				e.id, e.user_id, e.training_session_id, e.exercise_type_id,
				e.weight, e.sets, e.reps, et.name, s.start_time
			FROM training_entry e
			JOIN exercise_type et ON e.exercise_type_id = et.id
			JOIN training_session s ON e.training_session_id = s.id
			WHERE e.id = $1 AND e.user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, err
	}

	if len(entries) != 1 {
		return nil, ErrEntryNotFound
	}

	return &entries[0], nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []TrainingEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.SessionID != nil {
		span.SetAttributes(attribute.Int("session_id", *params.SessionID))
	}
	if params.SessionStartFrom != nil {
		span.SetAttributes(attribute.String("session_start_from", params.SessionStartFrom.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				e.id, e.user_id, e.training_session_id, e.exercise_type_id,
				e.weight, e.sets, e.reps, et.name, s.start_time
			FROM training_entry e
			JOIN exercise_type et ON e.exercise_type_id = et.id
			JOIN training_session s ON e.training_session_id = s.id
				WHERE e.user_id = $1
				AND ($2::int IS NULL OR e.training_session_id = $2)
				AND ($3::int IS NULL OR e.exercise_type_id = $3)
				AND ($4::timestamptz IS NULL OR s.start_time >= $4)
			ORDER BY s.start_time DESC, e.id;`,
		params.UserID, params.SessionID, params.ExerciseTypeID, params.SessionStartFrom,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2entries: %w", err)
	}
	return entries, nil
}

func (r *Repo) Update(ctx context.Context, entry *TrainingEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", entry.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training_entry
			SET training_session_id = $1, exercise_type_id = $2, weight = $3, sets = $4, reps = $5
			WHERE id = $6 AND user_id = $7;`,
		entry.TrainingSessionID, entry.ExerciseTypeID, entry.Weight, entry.Sets, entry.Reps,
		entry.ID, entry.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM training_entry WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *Repo) rows2entries(rows pgx.Rows) ([]TrainingEntry, error) {
	entries := make([]TrainingEntry, 0)
	for rows.Next() {
		var entry TrainingEntry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.TrainingSessionID, &entry.ExerciseTypeID,
			&entry.Weight, &entry.Sets, &entry.Reps, &entry.ExerciseName, &entry.SessionStart,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
