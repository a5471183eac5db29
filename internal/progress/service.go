package progress

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on a failed login. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	minPasswordLen    = 8
	maxUsernameLen    = 64
	defaultSessionTTL = 30 * 24 * time.Hour
)

// Service wraps a Store with account handling and session tokens.
type Service struct {
	store    Store
	sessions sessionTable
}

// Option configures a Service.
type Option func(*Service)

// WithSessionTTL overrides how long session tokens stay valid.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessions.ttl = d
		}
	}
}

// NewService returns a service over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		sessions: sessionTable{entries: make(map[string]session), ttl: defaultSessionTTL},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns the new user.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLen {
		return nil, fmt.Errorf("username must be 1-%d characters", maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := User{Username: username, PasswordHash: hash}
	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	return s.store.UserByID(ctx, id)
}

// Login checks credentials and returns the user.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.store.UserByName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// StartSession issues a session token for a user.
func (s *Service) StartSession(userID string) string {
	return s.sessions.create(userID)
}

// UserForSession resolves a session token to its user.
func (s *Service) UserForSession(ctx context.Context, token string) (*User, error) {
	userID, ok := s.sessions.lookup(token)
	if !ok {
		return nil, ErrNotFound
	}
	return s.store.UserByID(ctx, userID)
}

// EndSession drops a session token.
func (s *Service) EndSession(token string) {
	s.sessions.drop(token)
}

// RecordQuiz stores a quiz result for a user.
func (s *Service) RecordQuiz(ctx context.Context, userID string, r QuizResult) error {
	if r.Total <= 0 || r.Correct < 0 || r.Correct > r.Total {
		return fmt.Errorf("quiz result out of range: %d/%d", r.Correct, r.Total)
	}
	return s.store.SaveQuizResult(ctx, userID, r)
}

// RecordAttempt stores an exercise attempt for a user.
func (s *Service) RecordAttempt(ctx context.Context, userID string, a Attempt) error {
	if a.LessonID == "" || a.ExerciseID == "" {
		return fmt.Errorf("attempt needs lesson and exercise ids")
	}
	return s.store.SaveAttempt(ctx, userID, a)
}

// Summary returns a user's practice history.
func (s *Service) Summary(ctx context.Context, userID string) (*Summary, error) {
	return s.store.Summary(ctx, userID)
}

type session struct {
	userID  string
	expires time.Time
}

// sessionTable holds session tokens in memory. Expired entries are pruned
// on lookup.
type sessionTable struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]session
}

func (t *sessionTable) create(userID string) string {
	b := make([]byte, 32)
	rand.Read(b)
	token := hex.EncodeToString(b)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[token] = session{userID: userID, expires: time.Now().Add(t.ttl)}
	return token
}

func (t *sessionTable) lookup(token string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, ok := t.entries[token]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expires) {
		delete(t.entries, token)
		return "", false
	}
	return sess.userID, true
}

func (t *sessionTable) drop(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, token)
}
