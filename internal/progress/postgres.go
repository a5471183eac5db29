package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed progress store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the progress tables when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username TEXT NOT NULL UNIQUE,
			password_hash BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			lesson_id TEXT NOT NULL,
			correct INT NOT NULL,
			total INT NOT NULL,
			taken_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS exercise_attempts (
			id BIGSERIAL PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			lesson_id TEXT NOT NULL,
			exercise_id TEXT NOT NULL,
			seconds INT NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS quiz_results_user_idx ON quiz_results (user_id, taken_at DESC)`,
		`CREATE INDEX IF NOT EXISTS exercise_attempts_user_idx ON exercise_attempts (user_id, completed_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate progress schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u User) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if u.Username == "" {
		return "", fmt.Errorf("username is required")
	}

	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id::text`,
		u.Username,
		u.PasswordHash,
		createdAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", ErrUsernameTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UserByName(ctx context.Context, username string) (*User, error) {
	return s.userByQuery(ctx,
		`SELECT id::text, username, password_hash, created_at
		 FROM users
		 WHERE username = $1
		 LIMIT 1`,
		username,
	)
}

func (s *PostgresStore) UserByID(ctx context.Context, id string) (*User, error) {
	return s.userByQuery(ctx,
		`SELECT id::text, username, password_hash, created_at
		 FROM users
		 WHERE id = $1::uuid
		 LIMIT 1`,
		id,
	)
}

func (s *PostgresStore) userByQuery(ctx context.Context, query string, args ...any) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	u := &User{}
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) SaveQuizResult(ctx context.Context, userID string, r QuizResult) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	takenAt := r.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO quiz_results (user_id, lesson_id, correct, total, taken_at)
		 VALUES ($1::uuid, $2, $3, $4, $5)`,
		userID,
		r.LessonID,
		r.Correct,
		r.Total,
		takenAt,
	)
	if err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveAttempt(ctx context.Context, userID string, a Attempt) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	completedAt := a.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO exercise_attempts (user_id, lesson_id, exercise_id, seconds, completed_at)
		 VALUES ($1::uuid, $2, $3, $4, $5)`,
		userID,
		a.LessonID,
		a.ExerciseID,
		a.Seconds,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (s *PostgresStore) Summary(ctx context.Context, userID string) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sum := &Summary{}

	rows, err := s.pool.Query(ctx,
		`SELECT lesson_id, correct, total, taken_at
		 FROM quiz_results
		 WHERE user_id = $1::uuid
		 ORDER BY taken_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r QuizResult
		if err := rows.Scan(&r.LessonID, &r.Correct, &r.Total, &r.TakenAt); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		sum.QuizResults = append(sum.QuizResults, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz results: %w", err)
	}

	attempts, err := s.pool.Query(ctx,
		`SELECT lesson_id, exercise_id, seconds, completed_at
		 FROM exercise_attempts
		 WHERE user_id = $1::uuid
		 ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer attempts.Close()
	for attempts.Next() {
		var a Attempt
		if err := attempts.Scan(&a.LessonID, &a.ExerciseID, &a.Seconds, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		sum.Attempts = append(sum.Attempts, a)
	}
	if err := attempts.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}

	return sum, nil
}
