package call

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voicedeck/voicedeck/internal/logger"
)

// State is the call lifecycle phase.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateActive     State = "active"
	StateEnding     State = "ending"
)

// Source identifies which channel produced a timeline entry.
type Source string

const (
	SourceVoice  Source = "voice"
	SourceChat   Source = "chat"
	SourceSystem Source = "system"
)

// Message is one timeline entry. Partial entries are still being produced
// and get replaced in place until committed.
type Message struct {
	ID      string
	Role    string
	Source  Source
	Text    string
	Partial bool
	At      time.Time
}

// ErrCallInProgress is returned when a call is started while another one is
// not yet fully torn down.
var ErrCallInProgress = errors.New("a call is already in progress")

// Controller drives one assistant conversation: voice-call lifecycle, live
// transcripts, chat turns, and system notices all land in one ordered
// timeline. Safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	transport Transport
	state     State
	messages  []Message
	partials  map[string]int
	muted     bool
	volume    float64
	lastErr   error
	startedAt time.Time
	endedAt   time.Time
	onChange  func()
	now       func() time.Time
}

// NewController wraps a transport. onChange fires after every observable
// change and may be nil.
func NewController(transport Transport, onChange func()) *Controller {
	return &Controller{
		transport: transport,
		state:     StateIdle,
		partials:  make(map[string]int),
		onChange:  onChange,
		now:       time.Now,
	}
}

// StartCall begins a voice session. A second start while the previous call
// is connecting, active, or ending is rejected without touching the
// transport.
func (c *Controller) StartCall(ctx context.Context, assistantID string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrCallInProgress
	}
	c.state = StateConnecting
	c.lastErr = nil
	c.startedAt = time.Time{}
	c.endedAt = time.Time{}
	c.append(Message{Role: "system", Source: SourceSystem, Text: "Connecting..."})
	c.mu.Unlock()
	c.notify()

	if err := c.transport.Start(ctx, assistantID); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.lastErr = err
		c.append(Message{Role: "system", Source: SourceSystem, Text: "Could not start call: " + err.Error()})
		c.mu.Unlock()
		c.notify()
		return err
	}

	go c.consume()
	return nil
}

// EndCall requests teardown. The state flips to ending immediately; idle
// arrives with the transport's call-end event.
func (c *Controller) EndCall() error {
	c.mu.Lock()
	if c.state != StateConnecting && c.state != StateActive {
		c.mu.Unlock()
		return nil
	}
	c.state = StateEnding
	c.mu.Unlock()
	c.notify()

	if err := c.transport.Stop(); err != nil {
		logger.Warn("call: stop failed: %v", err)
		c.mu.Lock()
		c.finishCall()
		c.mu.Unlock()
		c.notify()
		return err
	}
	return nil
}

// ToggleMute flips the microphone and reports the new muted state.
func (c *Controller) ToggleMute() (bool, error) {
	c.mu.Lock()
	next := !c.muted
	c.mu.Unlock()

	if err := c.transport.SetMuted(next); err != nil {
		return !next, err
	}
	c.mu.Lock()
	c.muted = next
	c.mu.Unlock()
	c.notify()
	return next, nil
}

func (c *Controller) consume() {
	for ev := range c.transport.Events() {
		c.handleEvent(ev)
	}
}

func (c *Controller) handleEvent(ev Event) {
	c.mu.Lock()
	switch ev.Type {
	case EventCallStart:
		c.state = StateActive
		c.startedAt = c.now()
		c.append(Message{Role: "system", Source: SourceSystem, Text: "Call started"})
	case EventCallEnd:
		c.finishCall()
		c.append(Message{Role: "system", Source: SourceSystem, Text: "Call ended"})
	case EventMessage:
		c.upsertTranscript(ev.Transcript)
	case EventVolumeLevel:
		c.volume = ev.Volume
	case EventError:
		c.lastErr = ev.Err
		c.finishCall()
		if ev.Err != nil {
			c.append(Message{Role: "system", Source: SourceSystem, Text: "Call error: " + ev.Err.Error()})
		}
	}
	c.mu.Unlock()
	c.notify()
}

// finishCall returns to idle and drops any uncommitted transcript state.
// Callers hold the lock.
func (c *Controller) finishCall() {
	c.state = StateIdle
	c.endedAt = c.now()
	c.muted = false
	c.volume = 0
	for role, idx := range c.partials {
		c.messages[idx].Partial = false
		delete(c.partials, role)
	}
}

// upsertTranscript replaces the role's in-progress fragment, or commits it.
// Callers hold the lock.
func (c *Controller) upsertTranscript(tr Transcript) {
	if tr.Text == "" {
		return
	}
	idx, exists := c.partials[tr.Role]
	if tr.Type == TranscriptPartial {
		if exists {
			c.messages[idx].Text = tr.Text
			return
		}
		c.append(Message{Role: tr.Role, Source: SourceVoice, Text: tr.Text, Partial: true})
		c.partials[tr.Role] = len(c.messages) - 1
		return
	}
	if exists {
		c.messages[idx].Text = tr.Text
		c.messages[idx].Partial = false
		delete(c.partials, tr.Role)
		return
	}
	c.append(Message{Role: tr.Role, Source: SourceVoice, Text: tr.Text})
}

// AddUserChat records an outgoing chat turn.
func (c *Controller) AddUserChat(text string) {
	c.mu.Lock()
	c.append(Message{Role: "user", Source: SourceChat, Text: text})
	c.mu.Unlock()
	c.notify()
}

// BeginAssistantStream opens an in-progress assistant chat entry and returns
// its id for the delta appends that follow.
func (c *Controller) BeginAssistantStream() string {
	c.mu.Lock()
	id := uuid.New().String()
	c.append(Message{ID: id, Role: "assistant", Source: SourceChat, Partial: true})
	c.mu.Unlock()
	c.notify()
	return id
}

// AppendStreamDelta grows the streaming entry's visible text.
func (c *Controller) AppendStreamDelta(id, delta string) {
	c.mu.Lock()
	if idx, ok := c.indexOf(id); ok {
		c.messages[idx].Text += delta
	}
	c.mu.Unlock()
	c.notify()
}

// FinishStream commits the streaming entry with the full reply text, which
// wins over whatever the deltas accumulated to.
func (c *Controller) FinishStream(id, full string) {
	c.mu.Lock()
	if idx, ok := c.indexOf(id); ok {
		if full != "" {
			c.messages[idx].Text = full
		}
		c.messages[idx].Partial = false
	}
	c.mu.Unlock()
	c.notify()
}

// FailStream commits the streaming entry with an error notice.
func (c *Controller) FailStream(id, reason string) {
	c.mu.Lock()
	if idx, ok := c.indexOf(id); ok {
		if c.messages[idx].Text == "" {
			c.messages[idx].Text = "(no reply)"
		}
		c.messages[idx].Partial = false
	}
	if reason != "" {
		c.append(Message{Role: "system", Source: SourceSystem, Text: reason})
	}
	c.mu.Unlock()
	c.notify()
}

// AddSystem records an informational notice.
func (c *Controller) AddSystem(text string) {
	c.mu.Lock()
	c.append(Message{Role: "system", Source: SourceSystem, Text: text})
	c.mu.Unlock()
	c.notify()
}

// Messages returns a copy of the timeline in arrival order.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Duration is the elapsed call time. It grows only while the call is active
// and freezes at teardown; a new call resets it.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startedAt.IsZero() {
		return 0
	}
	if c.state == StateActive {
		return c.now().Sub(c.startedAt)
	}
	if c.endedAt.After(c.startedAt) {
		return c.endedAt.Sub(c.startedAt)
	}
	return 0
}

// append assigns an id and timestamp. Callers hold the lock.
func (c *Controller) append(m Message) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.At = c.now()
	c.messages = append(c.messages, m)
}

func (c *Controller) indexOf(id string) (int, bool) {
	for i := range c.messages {
		if c.messages[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
