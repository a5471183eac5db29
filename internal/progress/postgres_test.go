package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a throwaway PostgreSQL container and returns a
// migrated store backed by it.
func setupPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("academy"),
		tcpostgres.WithUsername("academy"),
		tcpostgres.WithPassword("academy"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return store
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	store := setupPostgres(t)
	ctx := t.Context()

	id, err := store.CreateUser(ctx, User{Username: "sara", PasswordHash: []byte("hash")})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := store.CreateUser(ctx, User{Username: "sara", PasswordHash: []byte("hash")}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate err = %v, want ErrUsernameTaken", err)
	}

	u, err := store.UserByName(ctx, "sara")
	if err != nil {
		t.Fatalf("UserByName: %v", err)
	}
	if u.ID != id || string(u.PasswordHash) != "hash" {
		t.Fatalf("user = %+v", u)
	}
	if _, err := store.UserByName(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user err = %v, want ErrNotFound", err)
	}

	earlier := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := store.SaveQuizResult(ctx, id, QuizResult{LessonID: "subway-exit", Correct: 4, Total: 5, TakenAt: earlier}); err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}
	if err := store.SaveQuizResult(ctx, id, QuizResult{LessonID: "city-park", Correct: 5, Total: 5}); err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}
	if err := store.SaveAttempt(ctx, id, Attempt{LessonID: "subway-exit", ExerciseID: "ex1", Seconds: 45}); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}

	sum, err := store.Summary(ctx, id)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(sum.QuizResults) != 2 || len(sum.Attempts) != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.QuizResults[0].LessonID != "city-park" {
		t.Fatalf("quiz order = %+v", sum.QuizResults)
	}
	if sum.Attempts[0].ExerciseID != "ex1" || sum.Attempts[0].Seconds != 45 {
		t.Fatalf("attempt = %+v", sum.Attempts[0])
	}
}
