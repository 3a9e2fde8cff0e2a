package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voicedeck/voicedeck/internal/logger"
)

const (
	listTimeout   = 15 * time.Second
	detailTimeout = 10 * time.Second
)

// Kind classifies a request failure so callers can pick remediation text.
type Kind string

const (
	KindAuth    Kind = "auth"
	KindServer  Kind = "server"
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
)

// Error is a classified request failure. Message is already user-facing.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// Client talks to the assistant platform's REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func New(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// ListAssistants fetches every assistant on the account. Slow upstreams are
// cut off after 15 seconds.
func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var assistants []Assistant
	if err := c.do(ctx, http.MethodGet, "/assistant", nil, &assistants); err != nil {
		return nil, err
	}
	logger.Debug("vapi: listed %d assistants", len(assistants))
	return assistants, nil
}

// GetAssistant fetches a single assistant by id, with a 10 second cutoff.
func (c *Client) GetAssistant(ctx context.Context, id string) (*Assistant, error) {
	ctx, cancel := context.WithTimeout(ctx, detailTimeout)
	defer cancel()

	var assistant Assistant
	if err := c.do(ctx, http.MethodGet, "/assistant/"+id, nil, &assistant); err != nil {
		return nil, err
	}
	return &assistant, nil
}

// CreateSession opens a server-side conversation memory bound to the
// assistant. Chat turns sent under the returned session id share context.
func (c *Client) CreateSession(ctx context.Context, assistantID string) (*Session, error) {
	body := map[string]string{"assistantId": assistantID}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/session", body, &session); err != nil {
		return nil, err
	}
	logger.Info("vapi: created session %s for assistant %s", session.ID, assistantID)
	return &session, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "Request timeout. The API may be slow, please try again."}
	}
	logger.Warn("vapi: network error: %v", err)
	return &Error{Kind: KindNetwork, Message: "Network error. Please check your connection and try again."}
}

func classifyStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Message: "Invalid API key. Please check your credentials."}
	case http.StatusForbidden:
		return &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Message: "Access denied. Your API key may lack the required permissions."}
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	logger.Warn("vapi: request failed with %d: %s", resp.StatusCode, detail)
	return &Error{
		Kind:       KindServer,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("API request failed with status %d. Please try again.", resp.StatusCode),
	}
}
