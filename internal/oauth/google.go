// Package oauth runs the Google authorization handoff for calendar
// integration. The token exchange itself happens server-side; this package
// only sends the user to the consent screen, catches the redirect on a
// loopback listener, and works out where in the app to land afterwards.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/storage"
)

const authEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"

// scopes requested from Google. Calendar read/write plus basic profile.
var scopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

// PendingAuth is the durable record of an in-flight authorization, written
// before the browser opens so a restart can still resolve the handoff.
type PendingAuth struct {
	AssistantID string    `json:"assistantId"`
	State       string    `json:"state"`
	StartedAt   time.Time `json:"startedAt"`
}

// CallbackResult is what the loopback listener captured.
type CallbackResult struct {
	Code  string
	State string
}

// Flow drives one authorization round trip.
type Flow struct {
	store    storage.Store
	clientID string
	port     int
}

func New(store storage.Store, clientID string, port int) *Flow {
	return &Flow{store: store, clientID: clientID, port: port}
}

// RedirectURI is the loopback address Google sends the user back to.
func (f *Flow) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/oauth/callback", f.port)
}

// BuildAuthURL assembles the consent-screen URL. access_type=offline with
// prompt=consent forces a refresh token on every grant.
func BuildAuthURL(clientID, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)
	return authEndpoint + "?" + q.Encode()
}

// Initiate persists the pending handoff and the post-auth destination, then
// returns the consent URL for the caller to open. An assistantID routes the
// user back to that assistant's call screen once authorization completes.
func (f *Flow) Initiate(ctx context.Context, assistantID string) (string, error) {
	if f.clientID == "" {
		return "", errors.New("no OAuth client id configured")
	}

	pending := PendingAuth{
		AssistantID: assistantID,
		State:       uuid.New().String(),
		StartedAt:   time.Now().UTC(),
	}
	if err := storage.SetJSON(ctx, f.store, storage.KeyAuthData, pending); err != nil {
		return "", fmt.Errorf("persisting pending auth: %w", err)
	}

	destination := "/"
	if assistantID != "" {
		destination = "/call/" + assistantID
	}
	if err := f.store.Set(ctx, storage.KeyPendingRedirect, []byte(destination)); err != nil {
		return "", fmt.Errorf("persisting redirect: %w", err)
	}

	logger.Info("oauth: initiating handoff, destination %s", destination)
	return BuildAuthURL(f.clientID, f.RedirectURI(), pending.State), nil
}

// WaitCallback serves the loopback listener until Google redirects back or
// ctx expires. The captured state must match the pending record.
func (f *Flow) WaitCallback(ctx context.Context) (*CallbackResult, error) {
	var pending PendingAuth
	if err := storage.GetJSON(ctx, f.store, storage.KeyAuthData, &pending); err != nil {
		return nil, fmt.Errorf("no pending authorization: %w", err)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.port))
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}

	results := make(chan CallbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
			results <- CallbackResult{}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h2>Authorization complete.</h2><p>You can close this window and return to the terminal.</p></body></html>")
		results <- CallbackResult{Code: q.Get("code"), State: q.Get("state")}
	})

	srv := &http.Server{Handler: mux}
	go srv.Serve(listener)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Code == "" {
			return nil, errors.New("authorization was denied")
		}
		if result.State != pending.State {
			return nil, errors.New("state mismatch in authorization callback")
		}
		logger.Info("oauth: callback received")
		return &result, nil
	}
}

// ResolveDestination consumes the stored post-auth destination. The redirect
// record is removed before it is used so a replayed callback cannot follow
// it twice. With no stored redirect it falls back to the last submission's
// assistant, then to the dashboard.
func (f *Flow) ResolveDestination(ctx context.Context) string {
	raw, err := f.store.Get(ctx, storage.KeyPendingRedirect)
	if err == nil {
		// Delete before use: the handoff is single-shot.
		if derr := f.store.Delete(ctx, storage.KeyPendingRedirect); derr != nil {
			logger.Warn("oauth: clearing redirect: %v", derr)
		}
		if dest := strings.TrimSpace(string(raw)); dest != "" {
			return dest
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("oauth: reading redirect: %v", err)
	}

	var submission map[string]any
	if err := storage.GetJSON(ctx, f.store, storage.KeySubmission, &submission); err == nil {
		if id, ok := submission["assistantId"].(string); ok && id != "" {
			return "/call/" + id
		}
	}
	return "/"
}

// ClearPending drops the pending-auth record and any unconsumed redirect
// after the flow resolves, success or failure. A stale redirect must not
// steer a later handoff.
func (f *Flow) ClearPending(ctx context.Context) {
	if err := f.store.Delete(ctx, storage.KeyAuthData); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("oauth: clearing pending auth: %v", err)
	}
	if err := f.store.Delete(ctx, storage.KeyPendingRedirect); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("oauth: clearing redirect: %v", err)
	}
}

// AssistantIDFromDestination pulls the assistant id out of a call-screen
// destination, returning "" for the dashboard.
func AssistantIDFromDestination(dest string) string {
	if id, found := strings.CutPrefix(dest, "/call/"); found {
		return id
	}
	return ""
}
