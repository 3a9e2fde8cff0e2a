package vapi

import "time"

// Voice is an assistant's voice configuration as returned by the platform.
type Voice struct {
	Provider string `json:"provider,omitempty"`
	VoiceID  string `json:"voiceId,omitempty"`
	Voice    string `json:"voice,omitempty"`
}

// Model is an assistant's language-model configuration.
type Model struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Transcriber is an assistant's speech-recognition configuration.
type Transcriber struct {
	Language string `json:"language,omitempty"`
}

// KnowledgeBaseEntry is one attached knowledge document.
type KnowledgeBaseEntry struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
}

// Assistant is the platform's raw assistant record. Only the fields this
// client reads are mapped; the rest of the payload is ignored.
type Assistant struct {
	ID            string               `json:"id"`
	OrgID         string               `json:"orgId,omitempty"`
	Name          string               `json:"name,omitempty"`
	FirstMessage  string               `json:"firstMessage,omitempty"`
	Voice         *Voice               `json:"voice,omitempty"`
	Model         *Model               `json:"model,omitempty"`
	Transcriber   *Transcriber         `json:"transcriber,omitempty"`
	KnowledgeBase []KnowledgeBaseEntry `json:"knowledgeBase,omitempty"`
	Metadata      map[string]string    `json:"metadata,omitempty"`
	CreatedAt     time.Time            `json:"createdAt,omitempty"`
	UpdatedAt     time.Time            `json:"updatedAt,omitempty"`
}

// Session is a server-side conversation-memory handle, created once per
// call/chat screen visit.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// CallReadiness reports whether a voice call can be attempted against an
// assistant, with the blocking issues when it cannot.
type CallReadiness struct {
	Ready  bool     `json:"ready"`
	Issues []string `json:"issues,omitempty"`
}

// AssistantSummary is the dashboard's display model, derived from the raw
// Assistant record. It is read-only display data: never mutated beyond
// wholesale cache replacement.
type AssistantSummary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CompanyName  string        `json:"companyName"`
	Personality  string        `json:"personality"`
	Language     string        `json:"language"`
	Industry     string        `json:"industry"`
	Status       string        `json:"status"`
	FirstMessage string        `json:"firstMessage"`
	Voice        Voice         `json:"voice"`
	Model        Model         `json:"model"`
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
	CallReady    CallReadiness `json:"callReady"`
}

// AssistantCache is the durable dashboard cache record.
type AssistantCache struct {
	Assistants []AssistantSummary `json:"assistants"`
	LastFetch  time.Time          `json:"lastFetch"`
}
