package session

import (
	"context"
	"errors"
	"testing"

	"htrack/internal/api"
	"htrack/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_HydrateEmpty(t *testing.T) {
	s := New(store.NewMemoryStore(), nil)
	require.NoError(t, s.Hydrate(context.Background()))
	assert.False(t, s.HasAccessToken())
	assert.Empty(t, s.RefreshToken())
	assert.Nil(t, s.User())
}

func TestSession_TokensRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	s1 := New(kv, nil)
	require.NoError(t, s1.SetTokens(ctx, "a1", "r1"))
	require.NoError(t, s1.SetAccessToken(ctx, "a2"))

	s2 := New(kv, nil)
	require.NoError(t, s2.Hydrate(ctx))
	assert.Equal(t, "a2", s2.AccessToken())
	assert.Equal(t, "r1", s2.RefreshToken())

	v, err := kv.Get(ctx, store.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a2", v)
}

func TestSession_ClearRemovesEverything(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	s := New(kv, nil)
	require.NoError(t, s.SetTokens(ctx, "a", "r"))
	s.SetUser(&api.User{ID: 1, Username: "dana"})

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })
	require.NoError(t, s.Clear(ctx))

	assert.False(t, s.HasAccessToken())
	assert.Nil(t, s.User())
	_, err := kv.Get(ctx, store.KeyRefreshToken)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []Event{EventCleared}, events)
}

func TestSession_UserIsCopied(t *testing.T) {
	s := New(store.NewMemoryStore(), nil)
	u := &api.User{ID: 7, Username: "dana"}
	s.SetUser(u)
	u.Username = "mutated"

	got := s.User()
	require.NotNil(t, got)
	assert.Equal(t, "dana", got.Username)
	got.Username = "also mutated"
	assert.Equal(t, "dana", s.User().Username)
}

type failingKV struct{ store.KV }

func (failingKV) Delete(context.Context, ...string) error { return errors.New("disk full") }
func (failingKV) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestSession_ClearStillWipesMemoryOnStoreError(t *testing.T) {
	kv := store.NewMemoryStore()
	s := New(kv, nil)
	require.NoError(t, s.SetTokens(context.Background(), "a", "r"))

	s.kv = failingKV{kv}
	err := s.Clear(context.Background())
	assert.Error(t, err)
	assert.False(t, s.HasAccessToken())
}

func TestSession_SetTokensFailureKeepsOldTokens(t *testing.T) {
	kv := store.NewMemoryStore()
	s := New(kv, nil)
	require.NoError(t, s.SetTokens(context.Background(), "a", "r"))

	s.kv = failingKV{kv}
	assert.Error(t, s.SetTokens(context.Background(), "a2", "r2"))
	assert.Equal(t, "a", s.AccessToken())
}

func TestSession_ImplementsTokenSource(t *testing.T) {
	var _ api.TokenSource = New(store.NewMemoryStore(), nil)
}
