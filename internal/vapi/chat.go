package vapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/voicedeck/voicedeck/internal/logger"
)

// chatRequest is the streaming chat turn payload.
type chatRequest struct {
	SessionID string `json:"sessionId"`
	Input     string `json:"input"`
	Stream    bool   `json:"stream"`
}

// streamFrame is one server-sent event payload. Path identifies the field
// being streamed; Delta carries the next text fragment.
type streamFrame struct {
	Path  string `json:"path"`
	Delta string `json:"delta"`
}

// StreamChat sends one chat turn under the session and streams the reply.
// onDelta fires for each text fragment as it arrives; the accumulated full
// reply is returned once the stream ends. No timeout is applied beyond ctx:
// replies stream for as long as the model talks.
func (c *Client) StreamChat(ctx context.Context, sessionID, input string, onDelta func(string)) (string, error) {
	payload, err := json.Marshal(chatRequest{SessionID: sessionID, Input: input, Stream: true})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", classifyStatus(resp)
	}
	return ReadStream(resp.Body, onDelta)
}

// ReadStream consumes a server-sent event body of chat frames. Lines without
// the data prefix and frames that fail to decode are skipped rather than
// aborting the stream.
func ReadStream(r io.Reader, onDelta func(string)) (string, error) {
	var full strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		data, found := strings.CutPrefix(line, "data:")
		if !found {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "" || data == "[DONE]" {
			continue
		}
		var frame streamFrame
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			logger.Debug("vapi: skipping malformed stream frame: %v", err)
			continue
		}
		if frame.Delta == "" {
			continue
		}
		full.WriteString(frame.Delta)
		if onDelta != nil {
			onDelta(frame.Delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("reading stream: %w", err)
	}
	return full.String(), nil
}
