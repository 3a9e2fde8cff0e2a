package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voicedeck/voicedeck/internal/logger"
)

const dialTimeout = 10 * time.Second

// wireFrame is the platform's call-channel envelope, both directions.
type wireFrame struct {
	Type           string  `json:"type"`
	AssistantID    string  `json:"assistantId,omitempty"`
	Role           string  `json:"role,omitempty"`
	TranscriptType string  `json:"transcriptType,omitempty"`
	Transcript     string  `json:"transcript,omitempty"`
	Volume         float64 `json:"volume,omitempty"`
	Muted          bool    `json:"muted,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// WebSocketTransport runs a voice session over the platform's websocket
// call channel, authenticated with the account's public key.
type WebSocketTransport struct {
	publicKey string
	baseURL   string

	mu     sync.Mutex
	conn   *websocket.Conn
	events chan Event
	closed bool
}

// NewWebSocketTransport builds a transport against apiBase, which may use an
// http(s) or ws(s) scheme.
func NewWebSocketTransport(publicKey, apiBase string) *WebSocketTransport {
	return &WebSocketTransport{publicKey: publicKey, baseURL: apiBase}
}

func (t *WebSocketTransport) Start(ctx context.Context, assistantID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return errors.New("transport already started")
	}

	endpoint, err := t.callURL()
	if err != nil {
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("connecting call channel: %w", err)
	}

	start := wireFrame{Type: "start", AssistantID: assistantID}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		return fmt.Errorf("opening call: %w", err)
	}

	t.conn = conn
	t.events = make(chan Event, 16)
	t.closed = false
	go t.readLoop(conn)

	logger.Info("call: channel opened for assistant %s", assistantID)
	return nil
}

func (t *WebSocketTransport) Stop() error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return nil
	}
	// A clean end frame lets the server close the session; the read loop
	// sees the close and emits call-end. If the write fails the connection
	// is closed directly, which also unblocks the read loop.
	if err := conn.WriteJSON(wireFrame{Type: "end"}); err != nil {
		conn.Close()
		return fmt.Errorf("closing call: %w", err)
	}
	return nil
}

func (t *WebSocketTransport) SetMuted(muted bool) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return errors.New("no active call")
	}
	return conn.WriteJSON(wireFrame{Type: "control", Muted: muted})
}

func (t *WebSocketTransport) Events() <-chan Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.events
}

func (t *WebSocketTransport) callURL() (string, error) {
	parsed, err := url.Parse(t.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing api base: %w", err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	}
	parsed.Path = "/call/web"
	q := parsed.Query()
	q.Set("publicKey", t.publicKey)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func (t *WebSocketTransport) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.teardown(nil)
			} else {
				t.teardown(err)
			}
			return
		}

		var frame wireFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			logger.Debug("call: skipping malformed frame: %v", err)
			continue
		}

		switch frame.Type {
		case "call-start":
			t.emit(Event{Type: EventCallStart})
		case "call-end":
			t.teardown(nil)
			return
		case "message", "transcript":
			t.emit(Event{Type: EventMessage, Transcript: Transcript{
				Role: frame.Role,
				Type: TranscriptType(frame.TranscriptType),
				Text: frame.Transcript,
			}})
		case "volume-level":
			t.emit(Event{Type: EventVolumeLevel, Volume: frame.Volume})
		case "error":
			t.teardown(errors.New(frame.Error))
			return
		}
	}
}

func (t *WebSocketTransport) emit(ev Event) {
	t.mu.Lock()
	events, closed := t.events, t.closed
	t.mu.Unlock()
	if closed || events == nil {
		return
	}
	events <- ev
}

// teardown closes the connection and ends the event stream. err, when set,
// is surfaced as an error event before the terminal call-end.
func (t *WebSocketTransport) teardown(err error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	conn, events := t.conn, t.events
	t.conn = nil
	t.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if events != nil {
		if err != nil {
			logger.Warn("call: channel failed: %v", err)
			events <- Event{Type: EventError, Err: err}
		}
		events <- Event{Type: EventCallEnd}
		close(events)
	}
}
