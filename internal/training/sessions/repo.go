package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/bdjoric/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, session TrainingSession) (_ *TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO training_session (user_id, start_time, end_time)
			VALUES ($1, $2, $3)
		RETURNING id;`,
		session.UserID, session.StartTime, session.EndTime,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert training session: %w", err)
	}

	span.SetAttributes(attribute.Int("session.id", id))

	session.ID = id
	return &session, nil
}

// Get returns the session with the given id, but only if it belongs
// to the given user. A session of another user behaves exactly like
// a missing one.
func (r *Repo) Get(ctx context.Context, id int, userID string) (_ *TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var session TrainingSession
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, start_time, end_time
			FROM training_session
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	).Scan(&session.ID, &session.UserID, &session.StartTime, &session.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get training session: %w", err)
	}

	return &session, nil
}

func (r *Repo) List(ctx context.Context, userID string) (_ []TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, start_time, end_time
			FROM training_session
			WHERE user_id = $1
		ORDER BY start_time DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	sessions := make([]TrainingSession, 0)
	for rows.Next() {
		var session TrainingSession
		if err := rows.Scan(&session.ID, &session.UserID, &session.StartTime, &session.EndTime); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (r *Repo) Update(ctx context.Context, session *TrainingSession) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", session.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training_session SET start_time = $1, end_time = $2 WHERE id = $3 AND user_id = $4;`,
		session.StartTime, session.EndTime, session.ID, session.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Delete removes the session together with all its entries.
func (r *Repo) Delete(ctx context.Context, id int, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(
		ctx,
		`DELETE FROM training_entry WHERE training_session_id = $1 AND user_id = $2;`,
		id, userID,
	); err != nil {
		return fmt.Errorf("delete session entries: %w", err)
	}

	tag, err := tx.Exec(
		ctx,
		`DELETE FROM training_session WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}
