// Package call owns the live voice-call lifecycle: the transport event
// surface, the idle/connecting/active/ending state machine, and the unified
// conversation timeline shared by voice and chat turns.
package call

import "context"

// EventType names a transport event.
type EventType string

const (
	// EventCallStart fires once the media session is established.
	EventCallStart EventType = "call-start"
	// EventCallEnd fires when the session closes, locally or remotely.
	EventCallEnd EventType = "call-end"
	// EventMessage carries a transcript fragment.
	EventMessage EventType = "message"
	// EventVolumeLevel carries the assistant's output level, 0 to 1.
	EventVolumeLevel EventType = "volume-level"
	// EventError carries a transport failure. The session is dead after it.
	EventError EventType = "error"
)

// TranscriptType distinguishes in-progress from committed transcript text.
type TranscriptType string

const (
	TranscriptPartial TranscriptType = "partial"
	TranscriptFinal   TranscriptType = "final"
)

// Transcript is one speech-to-text fragment. Partial fragments for a role
// replace each other until a final one commits.
type Transcript struct {
	Role string
	Type TranscriptType
	Text string
}

// Event is one transport notification. Only the fields relevant to its Type
// are set.
type Event struct {
	Type       EventType
	Transcript Transcript
	Volume     float64
	Err        error
}

// Transport is a live voice session. Implementations deliver Events until
// the session ends; the channel closes after the terminal call-end or error
// event.
type Transport interface {
	// Start opens the media session for the assistant. It returns once the
	// connection attempt is underway; success arrives as EventCallStart.
	Start(ctx context.Context, assistantID string) error
	// Stop tears the session down. Safe to call when already stopped.
	Stop() error
	// SetMuted toggles the local microphone.
	SetMuted(muted bool) error
	// Events is the session's notification stream.
	Events() <-chan Event
}
