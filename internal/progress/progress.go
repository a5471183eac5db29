// Package progress persists per-user practice state: accounts, quiz
// results, and timed exercise attempts.
package progress

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a user or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// User is one account. PasswordHash is a bcrypt hash, never the password.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuizResult is one completed vocabulary quiz.
type QuizResult struct {
	LessonID string    `json:"lesson_id"`
	Correct  int       `json:"correct"`
	Total    int       `json:"total"`
	TakenAt  time.Time `json:"taken_at"`
}

// Attempt is one completed timed exercise.
type Attempt struct {
	LessonID    string    `json:"lesson_id"`
	ExerciseID  string    `json:"exercise_id"`
	Seconds     int       `json:"seconds"`
	CompletedAt time.Time `json:"completed_at"`
}

// Summary is a user's practice history, newest first.
type Summary struct {
	QuizResults []QuizResult `json:"quiz_results"`
	Attempts    []Attempt    `json:"attempts"`
}

// Store persists users and their practice state.
type Store interface {
	CreateUser(ctx context.Context, u User) (string, error)
	UserByName(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
	SaveQuizResult(ctx context.Context, userID string, r QuizResult) error
	SaveAttempt(ctx context.Context, userID string, a Attempt) error
	Summary(ctx context.Context, userID string) (*Summary, error)
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*User
	byName  map[string]string
	quizzes map[string][]QuizResult
	tries   map[string][]Attempt
}

// NewMemoryStore creates a new in-memory progress store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*User),
		byName:  make(map[string]string),
		quizzes: make(map[string][]QuizResult),
		tries:   make(map[string][]Attempt),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[u.Username]; ok {
		return "", ErrUsernameTaken
	}
	u.ID = generateID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = &u
	s.byName[u.Username] = u.ID
	return u.ID, nil
}

func (s *MemoryStore) UserByName(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemoryStore) UserByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) SaveQuizResult(_ context.Context, userID string, r QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if r.TakenAt.IsZero() {
		r.TakenAt = time.Now()
	}
	s.quizzes[userID] = append(s.quizzes[userID], r)
	return nil
}

func (s *MemoryStore) SaveAttempt(_ context.Context, userID string, a Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now()
	}
	s.tries[userID] = append(s.tries[userID], a)
	return nil
}

func (s *MemoryStore) Summary(_ context.Context, userID string) (*Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := &Summary{
		QuizResults: append([]QuizResult(nil), s.quizzes[userID]...),
		Attempts:    append([]Attempt(nil), s.tries[userID]...),
	}
	sort.Slice(sum.QuizResults, func(i, j int) bool {
		return sum.QuizResults[i].TakenAt.After(sum.QuizResults[j].TakenAt)
	})
	sort.Slice(sum.Attempts, func(i, j int) bool {
		return sum.Attempts[i].CompletedAt.After(sum.Attempts[j].CompletedAt)
	})
	return sum, nil
}

func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
