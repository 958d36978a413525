// Package session owns the in-memory authentication state and its
// transitions. State is derived from the secure store at startup and the
// user profile is refreshed opportunistically: staleness between refreshes
// is tolerated by design.
package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/models"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/store"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// AuthState is the snapshot the presentation layer routes on. Routing is a
// pure function of (IsAuthenticated, OnboardingCompleted, IsLoading) — never
// of User, so a slow profile fetch can not block navigation.
type AuthState struct {
	IsAuthenticated     bool
	OnboardingCompleted bool
	IsLoading           bool
	User                *models.User
}

// API is the slice of the backend client the session machine needs.
type API interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Listener receives every state change.
type Listener func(AuthState)

// Service is the session state machine. All exported methods are safe for
// concurrent use.
type Service struct {
	store store.Store
	api   API
	log   logging.Logger

	mu       sync.Mutex
	state    AuthState
	listener Listener

	refresh singleflight.Group
}

// NewService builds the machine in the Unknown state (IsLoading until
// Restore completes). listener may be nil.
func NewService(st store.Store, api API, log logging.Logger, listener Listener) *Service {
	return &Service{
		store:    st,
		api:      api,
		log:      log,
		state:    AuthState{IsLoading: true},
		listener: listener,
	}
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) update(mutate func(*AuthState)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(snapshot)
	}
}

// Restore rebuilds state from the secure store. Storage failures fail
// closed: the user is treated as unauthenticated instead of crashing. When a
// session exists, one best-effort profile fetch is attempted; its failure is
// logged, not fatal. Restore always terminates with IsLoading=false.
func (s *Service) Restore(ctx context.Context) {
	hasSession, err := s.store.HasSession(ctx)
	if err != nil {
		s.log.Error(ctx, "session flag unreadable, treating as logged out", "error", err)
		hasSession = false
	}

	completed := false
	if hasSession {
		completed, err = s.store.OnboardingCompleted(ctx)
		if err != nil {
			s.log.Warn(ctx, "onboarding flag unreadable", "error", err)
			completed = false
		}
	}

	var user *models.User
	if hasSession {
		user, err = s.api.CurrentUser(ctx)
		if err != nil {
			s.log.Warn(ctx, "profile fetch failed during restore", "error", err)
			user = nil
		}
	}

	s.update(func(st *AuthState) {
		st.IsAuthenticated = hasSession
		st.OnboardingCompleted = completed
		st.User = user
		st.IsLoading = false
	})
}

// Authenticate persists the token and flips to Authenticated. It neither
// fetches the profile nor touches the onboarding flag.
func (s *Service) Authenticate(ctx context.Context, token string) error {
	if err := s.store.SaveSession(ctx, token); err != nil {
		return err
	}
	s.update(func(st *AuthState) {
		st.IsAuthenticated = true
	})
	return nil
}

// CompleteOnboarding persists the one-way flag. Idempotent; only Logout
// reverses it.
func (s *Service) CompleteOnboarding(ctx context.Context) error {
	if err := s.store.SetOnboardingCompleted(ctx, true); err != nil {
		return err
	}
	s.update(func(st *AuthState) {
		st.OnboardingCompleted = true
	})
	return nil
}

// RefreshUser re-fetches the profile. This is an advisory operation: on
// failure the previous user value stays (stale-but-present beats null) and
// the error is only logged. Concurrent callers — e.g. a deep link racing the
// manual return screen — are coalesced into a single fetch.
func (s *Service) RefreshUser(ctx context.Context) {
	_, _, _ = s.refresh.Do("refresh-user", func() (any, error) {
		user, err := s.api.CurrentUser(ctx)
		if err != nil {
			s.log.Warn(ctx, "profile refresh failed, keeping previous", "error", err)
			return nil, nil
		}
		s.update(func(st *AuthState) {
			st.User = user
		})
		return user, nil
	})
}

// Logout clears all persisted session data and resets in-memory state.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.update(func(st *AuthState) {
		st.IsAuthenticated = false
		st.OnboardingCompleted = false
		st.User = nil
	})
	return nil
}
