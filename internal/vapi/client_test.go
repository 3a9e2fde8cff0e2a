package vapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAssistants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assistant", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a1","name":"Acme - Receptionist"},{"id":"a2","name":"Helper"}]`))
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	assistants, err := client.ListAssistants(context.Background())
	require.NoError(t, err)
	require.Len(t, assistants, 2)
	assert.Equal(t, "a1", assistants[0].ID)
	assert.Equal(t, "Acme - Receptionist", assistants[0].Name)
}

func TestListAssistantsAuthErrors(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusUnauthorized, "Invalid API key"},
		{http.StatusForbidden, "Access denied"},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		client := New("bad-key", srv.URL)
		_, err := client.ListAssistants(context.Background())
		srv.Close()

		require.Error(t, err)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindAuth, apiErr.Kind)
		assert.Equal(t, tt.status, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), tt.message)
	}
}

func TestListAssistantsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	_, err := client.ListAssistants(context.Background())
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Contains(t, apiErr.Error(), "500")
}

func TestListAssistantsNetworkError(t *testing.T) {
	// Nothing is listening on this port.
	client := New("test-key", "http://127.0.0.1:1")
	_, err := client.ListAssistants(context.Background())
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Contains(t, apiErr.Error(), "Network error")
}

func TestGetAssistant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assistant/a1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"a1","name":"Acme Assistant","firstMessage":"Hello!"}`))
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	assistant, err := client.GetAssistant(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Assistant", assistant.Name)
	assert.Equal(t, "Hello!", assistant.FirstMessage)
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/session", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"sess-1"}`))
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	session, err := client.CreateSession(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
}

func TestListAssistantsTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.ListAssistants(ctx)
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTimeout, apiErr.Kind)
	assert.Contains(t, apiErr.Error(), "timeout")
}

func TestStreamChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		body := strings.Join([]string{
			`data: {"path":"output","delta":"Hel"}`,
			``,
			`data: {"path":"output","delta":"lo "}`,
			``,
			`not an event line`,
			`data: {broken json`,
			`data: {"path":"output","delta":"there"}`,
			``,
		}, "\n")
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := New("test-key", srv.URL)
	var deltas []string
	full, err := client.StreamChat(context.Background(), "sess-1", "hi", func(d string) {
		deltas = append(deltas, d)
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", full)
	assert.Equal(t, []string{"Hel", "lo ", "there"}, deltas)
}

func TestReadStreamEmptyAndDone(t *testing.T) {
	body := "data: [DONE]\n\ndata:\n"
	full, err := ReadStream(strings.NewReader(body), nil)
	require.NoError(t, err)
	assert.Empty(t, full)
}
