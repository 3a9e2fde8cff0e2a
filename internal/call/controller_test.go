package call

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records calls and lets tests push events by hand.
type fakeTransport struct {
	mu         sync.Mutex
	startCalls int
	stopCalls  int
	muted      bool
	startErr   error
	events     chan Event
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{events: make(chan Event, 16)}
}

func (f *fakeTransport) Start(ctx context.Context, assistantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.startCalls++
	return nil
}

func (f *fakeTransport) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.events <- Event{Type: EventCallEnd}
	return nil
}

func (f *fakeTransport) SetMuted(muted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = muted
	return nil
}

func (f *fakeTransport) Events() <-chan Event { return f.events }

func (f *fakeTransport) starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestStartCallLifecycle(t *testing.T) {
	transport := newFakeTransport()
	ctrl := NewController(transport, nil)

	require.NoError(t, ctrl.StartCall(context.Background(), "asst-1"))
	assert.Equal(t, StateConnecting, ctrl.State())

	transport.events <- Event{Type: EventCallStart}
	waitFor(t, func() bool { return ctrl.State() == StateActive })

	require.NoError(t, ctrl.EndCall())
	waitFor(t, func() bool { return ctrl.State() == StateIdle })
}

func TestStartCallWhileActiveIsRejected(t *testing.T) {
	transport := newFakeTransport()
	ctrl := NewController(transport, nil)

	require.NoError(t, ctrl.StartCall(context.Background(), "asst-1"))
	transport.events <- Event{Type: EventCallStart}
	waitFor(t, func() bool { return ctrl.State() == StateActive })

	err := ctrl.StartCall(context.Background(), "asst-1")
	assert.ErrorIs(t, err, ErrCallInProgress)
	assert.Equal(t, 1, transport.starts(), "rejected start must not reach the transport")
	assert.Equal(t, StateActive, ctrl.State())
}

func TestStartCallTransportFailure(t *testing.T) {
	transport := newFakeTransport()
	transport.startErr = errors.New("no audio device")
	ctrl := NewController(transport, nil)

	err := ctrl.StartCall(context.Background(), "asst-1")
	require.Error(t, err)
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Error(t, ctrl.LastError())
}

func TestTranscriptPartialThenFinal(t *testing.T) {
	transport := newFakeTransport()
	ctrl := NewController(transport, nil)
	require.NoError(t, ctrl.StartCall(context.Background(), "asst-1"))
	transport.events <- Event{Type: EventCallStart}

	transport.events <- Event{Type: EventMessage, Transcript: Transcript{Role: "user", Type: TranscriptPartial, Text: "book an"}}
	transport.events <- Event{Type: EventMessage, Transcript: Transcript{Role: "user", Type: TranscriptPartial, Text: "book an appoin"}}
	transport.events <- Event{Type: EventMessage, Transcript: Transcript{Role: "user", Type: TranscriptFinal, Text: "book an appointment"}}

	waitFor(t, func() bool {
		for _, m := range ctrl.Messages() {
			if m.Source == SourceVoice && !m.Partial && m.Text == "book an appointment" {
				return true
			}
		}
		return false
	})

	voice := 0
	for _, m := range ctrl.Messages() {
		if m.Source == SourceVoice {
			voice++
		}
	}
	assert.Equal(t, 1, voice, "partials must replace, not accumulate")
}

func TestChatStreamCommitsOnce(t *testing.T) {
	ctrl := NewController(newFakeTransport(), nil)

	ctrl.AddUserChat("hi")
	id := ctrl.BeginAssistantStream()
	ctrl.AppendStreamDelta(id, "Hel")
	ctrl.AppendStreamDelta(id, "lo ")
	ctrl.AppendStreamDelta(id, "there")
	ctrl.FinishStream(id, "Hello there")

	var assistant []Message
	for _, m := range ctrl.Messages() {
		if m.Role == "assistant" && m.Source == SourceChat {
			assistant = append(assistant, m)
		}
	}
	require.Len(t, assistant, 1)
	assert.Equal(t, "Hello there", assistant[0].Text)
	assert.False(t, assistant[0].Partial)
}

func TestErrorEventEndsCall(t *testing.T) {
	transport := newFakeTransport()
	ctrl := NewController(transport, nil)
	require.NoError(t, ctrl.StartCall(context.Background(), "asst-1"))
	transport.events <- Event{Type: EventCallStart}
	waitFor(t, func() bool { return ctrl.State() == StateActive })

	transport.events <- Event{Type: EventError, Err: errors.New("connection lost")}
	waitFor(t, func() bool { return ctrl.State() == StateIdle })
	assert.Error(t, ctrl.LastError())
}

func TestDurationOnlyWhileActive(t *testing.T) {
	transport := newFakeTransport()
	ctrl := NewController(transport, nil)

	current := time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	ctrl.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		current = current.Add(d)
		mu.Unlock()
	}

	assert.Zero(t, ctrl.Duration())

	require.NoError(t, ctrl.StartCall(context.Background(), "asst-1"))
	transport.events <- Event{Type: EventCallStart}
	waitFor(t, func() bool { return ctrl.State() == StateActive })

	advance(42 * time.Second)
	assert.Equal(t, 42*time.Second, ctrl.Duration())

	transport.events <- Event{Type: EventCallEnd}
	waitFor(t, func() bool { return ctrl.State() == StateIdle })

	advance(time.Minute)
	assert.Equal(t, 42*time.Second, ctrl.Duration(), "duration freezes once the call ends")
}

func TestToggleMute(t *testing.T) {
	transport := newFakeTransport()
	ctrl := NewController(transport, nil)

	muted, err := ctrl.ToggleMute()
	require.NoError(t, err)
	assert.True(t, muted)
	assert.True(t, ctrl.Muted())

	muted, err = ctrl.ToggleMute()
	require.NoError(t, err)
	assert.False(t, muted)
}
