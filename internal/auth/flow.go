// Package auth drives login, registration, logout and the
// refresh-on-401 session check.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/session"

	"go.uber.org/zap"
)

// State is the authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	RefreshingToken
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case RefreshingToken:
		return "refreshing_token"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrPasswordMismatch = errors.New("auth: passwords do not match")
	ErrMissingFields    = errors.New("auth: missing required fields")
	ErrNoRefreshToken   = errors.New("auth: no refresh token")
	ErrAuthExpired      = errors.New("auth: session expired")
)

// Error is a failure with a message fit for the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing text of err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

// API is the subset of the backend the flow needs.
type API interface {
	Login(ctx context.Context, username, password string) (*api.TokenPair, error)
	Register(ctx context.Context, in api.RegisterRequest) error
	RefreshToken(ctx context.Context, refresh string) (string, error)
	Profile(ctx context.Context) (*api.User, error)
}

// Flow is the auth state machine.
type Flow struct {
	api    API
	sess   *session.Session
	msgs   *i18n.Printer
	logger *zap.Logger

	opMu      sync.Mutex // serializes operations
	mu        sync.RWMutex
	state     State
	listeners []func(from, to State)
}

// NewFlow creates a flow in the Unauthenticated state.
func NewFlow(a API, sess *session.Session, msgs *i18n.Printer, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{api: a, sess: sess, msgs: msgs, logger: logger}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Session returns the session the flow manages.
func (f *Flow) Session() *session.Session {
	return f.sess
}

// OnTransition registers fn for every state change.
func (f *Flow) OnTransition(fn func(from, to State)) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

func (f *Flow) setState(to State) {
	f.mu.Lock()
	from := f.state
	f.state = to
	ls := append([]func(from, to State){}, f.listeners...)
	f.mu.Unlock()
	if from == to {
		return
	}
	f.logger.Debug("auth transition", zap.Stringer("from", from), zap.Stringer("to", to))
	for _, fn := range ls {
		fn(from, to)
	}
}

// Login authenticates, persists the tokens and loads the profile.
func (f *Flow) Login(ctx context.Context, username, password string) (*api.User, error) {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, &Error{Message: f.msgs.T(i18n.MsgRequiredFields), Err: ErrMissingFields}
	}

	f.setState(Authenticating)
	pair, err := f.api.Login(ctx, username, password)
	if err != nil {
		f.setState(Unauthenticated)
		f.logger.Info("login failed", zap.String("username", username), zap.Error(err))
		return nil, &Error{Message: f.loginFailure(err), Err: err}
	}
	if err := f.sess.SetTokens(ctx, pair.Access, pair.Refresh); err != nil {
		f.setState(Unauthenticated)
		return nil, &Error{Message: f.msgs.T(i18n.MsgLoginFailed), Err: err}
	}

	user, err := f.api.Profile(ctx)
	if err != nil {
		f.setState(Unauthenticated)
		return nil, &Error{Message: f.msgs.T(i18n.MsgLoginFailed), Err: fmt.Errorf("fetch profile: %w", err)}
	}
	f.sess.SetUser(user)
	f.setState(Authenticated)
	f.logger.Info("logged in", zap.String("username", user.Username))
	return user, nil
}

func (f *Flow) loginFailure(err error) string {
	var he *api.HTTPError
	if errors.As(err, &he) && he.Detail != "" {
		return he.Detail
	}
	return f.msgs.T(i18n.MsgLoginFailed)
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// Register creates an account. A password mismatch is rejected locally.
func (f *Flow) Register(ctx context.Context, in RegisterInput) error {
	if in.Password != in.Password2 {
		return &Error{Message: f.msgs.T(i18n.MsgPasswordMismatch), Err: ErrPasswordMismatch}
	}
	if strings.TrimSpace(in.Username) == "" || in.Email == "" || in.Password == "" {
		return &Error{Message: f.msgs.T(i18n.MsgRequiredFields), Err: ErrMissingFields}
	}

	err := f.api.Register(ctx, api.RegisterRequest{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		Password2: in.Password2,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		msg := f.msgs.T(i18n.MsgRegisterFailed)
		var he *api.HTTPError
		if errors.As(err, &he) {
			if flat := he.Flatten(); flat != "" {
				msg = flat
			}
		}
		f.logger.Info("registration failed", zap.String("username", in.Username), zap.Error(err))
		return &Error{Message: msg, Err: err}
	}
	f.logger.Info("registered", zap.String("username", in.Username))
	return nil
}

// Logout drops the session locally. The backend is not contacted.
func (f *Flow) Logout(ctx context.Context) error {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	err := f.sess.Clear(ctx)
	f.setState(Unauthenticated)
	return err
}

// CheckAuthentication validates the stored session against the backend.
// A 401 on the profile fetch triggers exactly one refresh and one retry;
// failure of either forces a logout.
func (f *Flow) CheckAuthentication(ctx context.Context) (State, error) {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	if !f.sess.HasAccessToken() {
		f.setState(Unauthenticated)
		return Unauthenticated, nil
	}

	user, err := f.api.Profile(ctx)
	if err == nil {
		f.sess.SetUser(user)
		f.setState(Authenticated)
		return Authenticated, nil
	}
	if !api.IsUnauthorized(err) {
		// Backend unreachable or broken: keep the tokens for next time.
		f.setState(Unauthenticated)
		return Unauthenticated, fmt.Errorf("check authentication: %w", err)
	}

	f.setState(RefreshingToken)
	refresh := f.sess.RefreshToken()
	if refresh == "" {
		return f.forceLogout(ctx, ErrNoRefreshToken)
	}
	access, err := f.api.RefreshToken(ctx, refresh)
	if err != nil {
		return f.forceLogout(ctx, fmt.Errorf("refresh: %w", err))
	}
	if err := f.sess.SetAccessToken(ctx, access); err != nil {
		return f.forceLogout(ctx, err)
	}

	user, err = f.api.Profile(ctx)
	if err != nil {
		return f.forceLogout(ctx, fmt.Errorf("profile after refresh: %w", err))
	}
	f.sess.SetUser(user)
	f.setState(Authenticated)
	f.logger.Debug("session refreshed", zap.String("username", user.Username))
	return Authenticated, nil
}

func (f *Flow) forceLogout(ctx context.Context, cause error) (State, error) {
	f.logger.Info("forcing logout", zap.Error(cause))
	if err := f.sess.Clear(ctx); err != nil {
		f.logger.Warn("clearing session", zap.Error(err))
	}
	f.setState(Unauthenticated)
	return Unauthenticated, &Error{
		Message: f.msgs.T(i18n.MsgSessionExpired),
		Err:     fmt.Errorf("%w: %w", ErrAuthExpired, cause),
	}
}
