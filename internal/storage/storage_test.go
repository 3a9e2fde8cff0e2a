package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("expected value v, got %q", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting missing key should not error, got %v", err)
	}
}

func TestConsumeReadsOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type record struct {
		URL string `json:"url"`
	}

	if err := SetJSON(ctx, s, KeyPendingRedirect, record{URL: "/call?assistantId=abc"}); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var rec record
	if err := Consume(ctx, s, KeyPendingRedirect, &rec); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if rec.URL != "/call?assistantId=abc" {
		t.Errorf("unexpected record: %+v", rec)
	}

	// Second read must miss: at-most-once consumption.
	if err := Consume(ctx, s, KeyPendingRedirect, &rec); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second consume, got %v", err)
	}
}

func TestConsumeDeletesMalformedRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, KeyAuthData, []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var v map[string]any
	if err := Consume(ctx, s, KeyAuthData, &v); err == nil {
		t.Fatal("expected decode error")
	}

	// The record must be gone even though decoding failed.
	if _, err := s.Get(ctx, KeyAuthData); !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed record should have been deleted, got %v", err)
	}
}

func TestKVStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded NATS test in short mode")
	}

	ctx := context.Background()
	kv, closeFn, err := Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer closeFn()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := kv.Set(ctx, KeySubmission, []byte(`{"assistantId":"a-1"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := kv.Get(ctx, KeySubmission)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"assistantId":"a-1"}` {
		t.Errorf("unexpected value %q", got)
	}

	if err := kv.Delete(ctx, KeySubmission); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, KeySubmission); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
