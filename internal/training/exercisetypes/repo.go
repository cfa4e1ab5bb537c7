package exercisetypes

import (
	"context"
	"errors"
	"fmt"

	"github.com/bdjoric/fitlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseTypeNotFound = errors.New("exercise type not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, name string) (_ *ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercisetypes.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_type (name) VALUES ($1) RETURNING id;`,
		name,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert exercise type: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise_type.id", id))

	return &ExerciseType{
		ID:   id,
		Name: name,
	}, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercisetypes.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_type.id", id))

	var exerciseType ExerciseType
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name FROM exercise_type WHERE id = $1;`,
		id,
	).Scan(&exerciseType.ID, &exerciseType.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseTypeNotFound
		}
		return nil, fmt.Errorf("get exercise type: %w", err)
	}

	return &exerciseType, nil
}

func (r *Repo) List(ctx context.Context) (_ []ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercisetypes.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name FROM exercise_type ORDER BY name;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	exerciseTypes := make([]ExerciseType, 0)
	for rows.Next() {
		var exerciseType ExerciseType
		if err := rows.Scan(&exerciseType.ID, &exerciseType.Name); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exerciseTypes = append(exerciseTypes, exerciseType)
	}

	return exerciseTypes, nil
}
