package oauth

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedeck/voicedeck/internal/storage"
)

func TestBuildAuthURL(t *testing.T) {
	raw := BuildAuthURL("client-1", "http://localhost:8484/oauth/callback", "state-1")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", parsed.Host)
	q := parsed.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "state-1", q.Get("state"))

	scope := q.Get("scope")
	for _, want := range []string{"auth/calendar", "calendar.events", "userinfo.profile", "userinfo.email"} {
		assert.Contains(t, scope, want)
	}
}

func TestInitiateStoresPendingAndRedirect(t *testing.T) {
	store := storage.NewMemoryStore()
	flow := New(store, "client-1", 8484)

	authURL, err := flow.Initiate(context.Background(), "asst-7")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(authURL, "https://accounts.google.com/"))

	var pending PendingAuth
	require.NoError(t, storage.GetJSON(context.Background(), store, storage.KeyAuthData, &pending))
	assert.Equal(t, "asst-7", pending.AssistantID)
	assert.NotEmpty(t, pending.State)

	raw, err := store.Get(context.Background(), storage.KeyPendingRedirect)
	require.NoError(t, err)
	assert.Equal(t, "/call/asst-7", string(raw))
}

func TestInitiateWithoutClientID(t *testing.T) {
	flow := New(storage.NewMemoryStore(), "", 8484)
	_, err := flow.Initiate(context.Background(), "")
	require.Error(t, err)
}

func TestResolveDestination(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	flow := New(store, "client-1", 8484)

	_, err := flow.Initiate(ctx, "asst-7")
	require.NoError(t, err)

	assert.Equal(t, "/call/asst-7", flow.ResolveDestination(ctx))

	// The redirect record is single-shot: a second resolve falls through.
	assert.Equal(t, "/", flow.ResolveDestination(ctx))
}

func TestClearPendingConsumesRedirect(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	flow := New(store, "client-1", 8484)

	_, err := flow.Initiate(ctx, "asst-7")
	require.NoError(t, err)

	// A denied or failed callback still consumes the stored redirect so it
	// cannot steer a later handoff.
	flow.ClearPending(ctx)

	_, err = store.Get(ctx, storage.KeyAuthData)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Get(ctx, storage.KeyPendingRedirect)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, "/", flow.ResolveDestination(ctx))
}

func TestResolveDestinationFallsBackToSubmission(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	flow := New(store, "client-1", 8484)

	require.NoError(t, storage.SetJSON(ctx, store, storage.KeySubmission, map[string]any{
		"assistantId": "asst-9",
	}))
	assert.Equal(t, "/call/asst-9", flow.ResolveDestination(ctx))
}

func TestResolveDestinationDefault(t *testing.T) {
	flow := New(storage.NewMemoryStore(), "client-1", 8484)
	assert.Equal(t, "/", flow.ResolveDestination(context.Background()))
}

func TestAssistantIDFromDestination(t *testing.T) {
	assert.Equal(t, "asst-7", AssistantIDFromDestination("/call/asst-7"))
	assert.Equal(t, "", AssistantIDFromDestination("/"))
}
