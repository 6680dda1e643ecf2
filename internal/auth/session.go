// Package auth keeps the client's access token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pomodoro/internal/kv"
	"pomodoro/internal/observe"
	"pomodoro/internal/taskapi"
)

// TokenKey is where the access token is persisted.
const TokenKey = "jwt_token"

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMissingFields    = errors.New("email and password are required")
)

// Authenticator is the login half of the Task API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (taskapi.LoginResponse, error)
	Register(ctx context.Context, email, password string) error
}

type Session struct {
	api    Authenticator
	store  kv.Store
	logger *log.Logger
	now    func() time.Time

	mu      sync.Mutex
	token   string
	changed observe.Subject[bool]
}

type Option func(*Session)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession loads a previously saved token from store.
func NewSession(api Authenticator, store kv.Store, logger *log.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		api:    api,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	token, ok, err := store.Get(TokenKey)
	if err != nil {
		logger.Printf("auth: load token: %v", err)
	}
	if ok {
		s.token = token
	}
	return s
}

// Token returns the stored token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a token is present and, when it carries
// an expiry, not yet expired. The signature is the server's business.
func (s *Session) IsAuthenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	return !expired(token, s.now())
}

// DropExpired signs out if the stored token has expired and reports
// whether it did. Subscribers see the same notification as Logout.
func (s *Session) DropExpired() bool {
	s.mu.Lock()
	if s.token == "" || !expired(s.token, s.now()) {
		s.mu.Unlock()
		return false
	}
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Remove(TokenKey); err != nil {
		s.logger.Printf("auth: remove token: %v", err)
	}
	s.changed.Notify(false)
	return true
}

func expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingFields
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.store.Set(TokenKey, resp.AccessToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.mu.Unlock()

	s.changed.Notify(true)
	return nil
}

// Register creates an account. It does not sign in.
func (s *Session) Register(ctx context.Context, email, password, confirm string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingFields
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return s.api.Register(ctx, email, password)
}

// Logout forgets the token.
func (s *Session) Logout() {
	if err := s.store.Remove(TokenKey); err != nil {
		s.logger.Printf("auth: remove token: %v", err)
	}

	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.mu.Unlock()

	if had {
		s.changed.Notify(false)
	}
}

// Subscribe calls fn with the new signed-in state after login and logout.
func (s *Session) Subscribe(fn func(authenticated bool)) func() {
	return s.changed.Subscribe(fn)
}
