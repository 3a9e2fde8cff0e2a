// Package storage provides durable client-side key-value storage for
// voicedeck. The production implementation is backed by an embedded NATS
// JetStream key-value bucket; an in-memory implementation exists for tests.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Well-known storage keys. These mirror the wire-level keys the hosted
// platform's web client uses, so records survive tooling migrations.
const (
	KeyAssistantCache   = "vapi_assistants_cache" // cached assistant list + last fetch time
	KeyAuthData         = "voiceflow_auth_data"   // pending OAuth record (timestamp + origin)
	KeyPendingRedirect  = "voiceflow_redirect_url" // destination to resume after OAuth
	KeySubmission       = "voiceflow_submission"  // last successful wizard submission
	KeyEditingAssistant = "editing_assistant"     // assistant handed off to the wizard for editing
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a minimal durable key-value interface. All records are small JSON
// blobs; at-most-once consumption patterns (pending redirects) are built on
// Get followed by Delete.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON reads a key and unmarshals it into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// Consume reads a key and deletes it regardless of decode outcome, so stale
// records cannot replay on later visits.
func Consume(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	// Delete before decode: the record must not survive this read.
	if derr := s.Delete(ctx, key); derr != nil {
		return derr
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns the value for key or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
