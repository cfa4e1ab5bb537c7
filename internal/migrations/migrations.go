package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Up applies all pending migrations to the given database.
func Up(ctx context.Context, dbHost, dbPort, dbName string) error {
	connString := fmt.Sprintf(
		"postgres://postgres@%s:%s/%s",
		dbHost, dbPort, dbName,
	)

	sqlDB, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("open migrations db conn: %w", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
