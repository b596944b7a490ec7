package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"aegis_admin/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("incorrect identifier or secret")
	ErrMissingCredentials = errors.New("identifier and secret are required")
)

// Verifier maps a credential pair to a role. RoleNone means rejected.
type Verifier interface {
	Verify(identifier, secret string) domain.Role
}

// StaticVerifier accepts exactly one plaintext pair.
type StaticVerifier struct {
	Identifier string
	Secret     string
}

func (v StaticVerifier) Verify(identifier, secret string) domain.Role {
	if identifier == v.Identifier && secret == v.Secret {
		return domain.RoleAdmin
	}
	return domain.RoleNone
}

type Snapshot struct {
	LoggedIn bool        `json:"loggedIn"`
	Role     domain.Role `json:"role"`
}

// Session is the process-wide login state. Login and Logout are its only
// writers.
type Session struct {
	verifier Verifier
	latency  time.Duration

	mu       sync.RWMutex
	loggedIn bool
	role     domain.Role
}

type SessionOption func(*Session)

// WithLatency delays LoginAsync results, standing in for a remote verifier.
func WithLatency(d time.Duration) SessionOption {
	return func(s *Session) { s.latency = d }
}

func NewSession(v Verifier, opts ...SessionOption) *Session {
	s := &Session{verifier: v}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) Login(identifier, secret string) bool {
	role := s.verifier.Verify(identifier, secret)
	if role == domain.RoleNone {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.role = role
	return true
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.role = domain.RoleNone
}

func (s *Session) State() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{LoggedIn: s.loggedIn, Role: s.role}
}

func (s *Session) IsAdmin() bool {
	st := s.State()
	return st.LoggedIn && st.Role == domain.RoleAdmin
}

type LoginResult struct {
	OK  bool
	Err error
}

// LoginAsync runs Login after the configured latency. The returned channel
// delivers one result and is then closed. A context cancelled before the
// check leaves the session untouched.
func (s *Session) LoginAsync(ctx context.Context, identifier, secret string) <-chan LoginResult {
	ch := make(chan LoginResult, 1)

	go func() {
		defer close(ch)

		if s.latency > 0 {
			t := time.NewTimer(s.latency)
			defer t.Stop()
			select {
			case <-ctx.Done():
				ch <- LoginResult{Err: ctx.Err()}
				return
			case <-t.C:
			}
		}

		if err := ctx.Err(); err != nil {
			ch <- LoginResult{Err: err}
			return
		}

		ch <- LoginResult{OK: s.Login(identifier, secret)}
	}()

	return ch
}
