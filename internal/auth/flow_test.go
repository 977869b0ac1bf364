package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"htrack/internal/api"
	"htrack/internal/api/apitest"
	"htrack/internal/i18n"
	"htrack/internal/session"
	"htrack/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userPath    = "/api/user/"
	refreshPath = "/api/auth/token/refresh/"
)

type harness struct {
	srv  *apitest.Server
	kv   *store.MemoryStore
	sess *session.Session
	flow *Flow
	seen []State
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{srv: apitest.NewServer(t), kv: store.NewMemoryStore()}
	h.sess = session.New(h.kv, nil)
	client, err := api.New(h.srv.BaseURL(), api.WithTokenSource(h.sess), api.WithTimeout(5*time.Second))
	require.NoError(t, err)
	h.flow = NewFlow(client, h.sess, i18n.NewPrinter(i18n.Hebrew), nil)
	h.flow.OnTransition(func(_, to State) { h.seen = append(h.seen, to) })
	return h
}

func (h *harness) signIn(t *testing.T, username string) (access, refresh string) {
	t.Helper()
	h.srv.AddUser(username, "pw")
	access, refresh = h.srv.IssueTokens(username)
	require.NoError(t, h.sess.SetTokens(context.Background(), access, refresh))
	return access, refresh
}

func TestLogin_Success(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("dana", "s3cret")

	user, err := h.flow.Login(context.Background(), "dana", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "dana", user.Username)
	assert.Equal(t, Authenticated, h.flow.State())
	assert.Equal(t, []State{Authenticating, Authenticated}, h.seen)
	assert.Equal(t, "dana", h.sess.User().Username)

	persisted, err := h.kv.Get(context.Background(), store.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, h.sess.AccessToken(), persisted)
}

func TestLogin_BackendDetailIsSurfaced(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("dana", "s3cret")

	_, err := h.flow.Login(context.Background(), "dana", "wrong")
	require.Error(t, err)
	assert.Equal(t, "No active account found with the given credentials", Message(err))
	assert.Equal(t, Unauthenticated, h.flow.State())
	assert.False(t, h.sess.HasAccessToken())
}

func TestLogin_FallbackMessageWithoutDetail(t *testing.T) {
	h := newHarness(t)
	h.srv.Fail("POST", "/api/auth/login/", apitest.Failure{Status: http.StatusInternalServerError, Body: `oops`})

	_, err := h.flow.Login(context.Background(), "dana", "pw")
	require.Error(t, err)
	assert.Equal(t, "שגיאה בהתחברות, נסה שוב", Message(err))
}

func TestLogin_MissingFieldsSkipNetwork(t *testing.T) {
	h := newHarness(t)
	_, err := h.flow.Login(context.Background(), " ", "")
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Zero(t, h.srv.TotalCalls())
}

func TestRegister_PasswordMismatchNeverCallsBackend(t *testing.T) {
	h := newHarness(t)
	err := h.flow.Register(context.Background(), RegisterInput{
		Username: "dana", Email: "d@example.com", Password: "one", Password2: "two",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Equal(t, "הסיסמאות אינן תואמות", Message(err))
	assert.Zero(t, h.srv.TotalCalls())
}

func TestRegister_FieldErrorsFlattened(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("dana", "pw")

	err := h.flow.Register(context.Background(), RegisterInput{
		Username: "dana", Email: "d@example.com", Password: "pw", Password2: "pw",
	})
	require.Error(t, err)
	assert.Equal(t, "A user with that username already exists.", Message(err))
}

func TestRegister_Success(t *testing.T) {
	h := newHarness(t)
	err := h.flow.Register(context.Background(), RegisterInput{
		Username: "noa", Email: "noa@example.com", Password: "pw", Password2: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, h.srv.Calls("POST", "/api/auth/register/"))
	// Registering does not sign in.
	assert.Equal(t, Unauthenticated, h.flow.State())

	_, err = h.flow.Login(context.Background(), "noa", "pw")
	assert.NoError(t, err)
}

func TestLogout_IsLocalOnly(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("dana", "pw")
	_, err := h.flow.Login(context.Background(), "dana", "pw")
	require.NoError(t, err)
	before := h.srv.TotalCalls()

	require.NoError(t, h.flow.Logout(context.Background()))
	assert.Equal(t, before, h.srv.TotalCalls())
	assert.Equal(t, Unauthenticated, h.flow.State())
	assert.False(t, h.sess.HasAccessToken())
	_, err = h.kv.Get(context.Background(), store.KeyRefreshToken)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheck_NoTokenIsUnauthenticated(t *testing.T) {
	h := newHarness(t)
	st, err := h.flow.CheckAuthentication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, st)
	assert.Zero(t, h.srv.TotalCalls())
}

func TestCheck_ValidToken(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "dana")

	st, err := h.flow.CheckAuthentication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Authenticated, st)
	assert.Equal(t, 1, h.srv.Calls("GET", userPath))
	assert.Zero(t, h.srv.Calls("POST", refreshPath))
}

func TestCheck_ExpiredAccessRefreshesOnce(t *testing.T) {
	h := newHarness(t)
	access, refresh := h.signIn(t, "dana")
	h.srv.ExpireAccess(access)

	st, err := h.flow.CheckAuthentication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Authenticated, st)
	assert.Equal(t, 1, h.srv.Calls("POST", refreshPath))
	assert.Equal(t, 2, h.srv.Calls("GET", userPath))
	assert.NotEqual(t, access, h.sess.AccessToken())
	assert.Equal(t, refresh, h.sess.RefreshToken())
	assert.Equal(t, []State{RefreshingToken, Authenticated}, h.seen)
}

func TestCheck_RefreshFailureForcesLogout(t *testing.T) {
	h := newHarness(t)
	access, refresh := h.signIn(t, "dana")
	h.srv.ExpireAccess(access)
	h.srv.RevokeRefresh(refresh)

	st, err := h.flow.CheckAuthentication(context.Background())
	assert.Equal(t, Unauthenticated, st)
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.Equal(t, "פג תוקף ההתחברות, נא להתחבר מחדש", Message(err))
	assert.Equal(t, 1, h.srv.Calls("POST", refreshPath))
	assert.Equal(t, 1, h.srv.Calls("GET", userPath))
	assert.False(t, h.sess.HasAccessToken())
}

func TestCheck_SecondUnauthorizedDoesNotLoop(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "dana")
	h.srv.Fail("GET", userPath, apitest.Failure{Status: http.StatusUnauthorized, Body: `{"detail":"nope"}`})

	st, err := h.flow.CheckAuthentication(context.Background())
	assert.Equal(t, Unauthenticated, st)
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.Equal(t, 1, h.srv.Calls("POST", refreshPath))
	assert.Equal(t, 2, h.srv.Calls("GET", userPath))
	assert.False(t, h.sess.HasAccessToken())
}

func TestCheck_MissingRefreshTokenForcesLogout(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sess.SetTokens(context.Background(), "stale", ""))

	st, err := h.flow.CheckAuthentication(context.Background())
	assert.Equal(t, Unauthenticated, st)
	assert.True(t, errors.Is(err, ErrNoRefreshToken))
	assert.Zero(t, h.srv.Calls("POST", refreshPath))
}

func TestCheck_ServerErrorKeepsTokens(t *testing.T) {
	h := newHarness(t)
	access, _ := h.signIn(t, "dana")
	h.srv.Fail("GET", userPath, apitest.Failure{Status: http.StatusInternalServerError, Body: `{}`})

	st, err := h.flow.CheckAuthentication(context.Background())
	assert.Equal(t, Unauthenticated, st)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthExpired)
	assert.Equal(t, access, h.sess.AccessToken())
	assert.Zero(t, h.srv.Calls("POST", refreshPath))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "refreshing_token", RefreshingToken.String())
	assert.Equal(t, "state(9)", State(9).String())
}
