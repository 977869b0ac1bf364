// Package session holds the signed-in user's tokens and profile, mirrored to
// persistent storage so a restart picks up where the last run left off.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"htrack/internal/api"
	"htrack/internal/store"

	"go.uber.org/zap"
)

// Event describes a session change.
type Event int

const (
	EventTokensChanged Event = iota
	EventUserChanged
	EventCleared
)

// Session is the in-memory plus persisted view of the current login.
// It implements api.TokenSource.
type Session struct {
	mu        sync.RWMutex
	kv        store.KV
	logger    *zap.Logger
	access    string
	refresh   string
	user      *api.User
	listeners []func(Event)
}

// New creates an empty session backed by kv.
func New(kv store.KV, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{kv: kv, logger: logger}
}

// Hydrate loads persisted tokens. Missing keys leave the session empty.
func (s *Session) Hydrate(ctx context.Context) error {
	access, err := s.get(ctx, store.KeyAccessToken)
	if err != nil {
		return err
	}
	refresh, err := s.get(ctx, store.KeyRefreshToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()
	s.logger.Debug("session hydrated", zap.Bool("has_access", access != ""), zap.Bool("has_refresh", refresh != ""))
	return nil
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

// AccessToken returns the current access token ("" when signed out).
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// HasAccessToken reports whether an access token is present.
func (s *Session) HasAccessToken() bool {
	return s.AccessToken() != ""
}

// User returns a copy of the cached profile, or nil.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetTokens stores and persists both tokens.
func (s *Session) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.kv.Set(ctx, store.KeyAccessToken, access); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	if err := s.kv.Set(ctx, store.KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}
	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()
	s.notify(EventTokensChanged)
	return nil
}

// SetAccessToken replaces the access token after a refresh.
func (s *Session) SetAccessToken(ctx context.Context, access string) error {
	if err := s.kv.Set(ctx, store.KeyAccessToken, access); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	s.mu.Lock()
	s.access = access
	s.mu.Unlock()
	s.notify(EventTokensChanged)
	return nil
}

// SetUser caches the profile.
func (s *Session) SetUser(u *api.User) {
	s.mu.Lock()
	if u == nil {
		s.user = nil
	} else {
		cp := *u
		s.user = &cp
	}
	s.mu.Unlock()
	s.notify(EventUserChanged)
}

// Clear drops tokens and profile from memory and storage. The in-memory
// state is cleared even if storage fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.access, s.refresh, s.user = "", "", nil
	s.mu.Unlock()

	err := s.kv.Delete(ctx, store.KeyAccessToken, store.KeyRefreshToken)
	s.notify(EventCleared)
	if err != nil {
		return fmt.Errorf("clear persisted tokens: %w", err)
	}
	s.logger.Debug("session cleared")
	return nil
}

// Subscribe registers fn to be called after every change.
func (s *Session) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) notify(e Event) {
	s.mu.RLock()
	ls := append([]func(Event){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range ls {
		fn(e)
	}
}
