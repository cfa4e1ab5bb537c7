//go:build integration_test || all_tests

package sessions

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bdjoric/fitlog/internal/db"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepoSetup(t *testing.T) (*Repo, *pgxpool.Pool, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postgres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "fitlog_tests",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), dbPool, func() {
		dbPool.Close()
	}
}

func addTestUser(t *testing.T, dbPool *pgxpool.Pool) string {
	t.Helper()
	userID := uuid.NewString()
	_, err := dbPool.Exec(
		context.Background(),
		`INSERT INTO app_user (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4);`,
		userID, gofakeit.Username()+uuid.NewString()[:8], gofakeit.UUID(), time.Now(),
	)
	require.NoError(t, err)
	return userID
}

func TestRepo_AddAndGetSession(t *testing.T) {
	ctx := context.Background()
	repo, dbPool, shutdown := testRepoSetup(t)
	defer shutdown()

	userID := addTestUser(t, dbPool)
	start := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	end := start.Add(time.Hour)

	added, err := repo.Add(ctx, TrainingSession{
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	require.NotZero(t, added.ID)

	gotten, err := repo.Get(ctx, added.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, gotten.UserID)
	assert.WithinDuration(t, start, gotten.StartTime, time.Second)
	assert.WithinDuration(t, end, gotten.EndTime, time.Second)
}

func TestRepo_Get_WrongUser(t *testing.T) {
	ctx := context.Background()
	repo, dbPool, shutdown := testRepoSetup(t)
	defer shutdown()

	ownerID := addTestUser(t, dbPool)
	otherID := addTestUser(t, dbPool)

	added, err := repo.Add(ctx, TrainingSession{
		UserID:    ownerID,
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now(),
	})
	require.NoError(t, err)

	_, err = repo.Get(ctx, added.ID, otherID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRepo_List_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, dbPool, shutdown := testRepoSetup(t)
	defer shutdown()

	userID := addTestUser(t, dbPool)
	now := time.Now().Truncate(time.Second)
	for _, daysAgo := range []int{3, 1, 2} {
		_, err := repo.Add(ctx, TrainingSession{
			UserID:    userID,
			StartTime: now.AddDate(0, 0, -daysAgo),
			EndTime:   now.AddDate(0, 0, -daysAgo).Add(time.Hour),
		})
		require.NoError(t, err)
	}

	sessions, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for i := 1; i < len(sessions); i++ {
		assert.True(t, sessions[i-1].StartTime.After(sessions[i].StartTime))
	}
}

func TestRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, dbPool, shutdown := testRepoSetup(t)
	defer shutdown()

	userID := addTestUser(t, dbPool)
	added, err := repo.Add(ctx, TrainingSession{
		UserID:    userID,
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now(),
	})
	require.NoError(t, err)

	newStart := time.Now().Add(-3 * time.Hour).Truncate(time.Second)
	added.StartTime = newStart
	require.NoError(t, repo.Update(ctx, added))

	updated, err := repo.Get(ctx, added.ID, userID)
	require.NoError(t, err)
	assert.WithinDuration(t, newStart, updated.StartTime, time.Second)

	require.NoError(t, repo.Delete(ctx, added.ID, userID))
	_, err = repo.Get(ctx, added.ID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// gone means gone
	assert.ErrorIs(t, repo.Delete(ctx, added.ID, userID), ErrSessionNotFound)
}
