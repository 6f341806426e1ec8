package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/greyline-systems/honeytrap/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingBackend simulates a durable backend that is down.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("connection refused")
}

func (failingBackend) Save(context.Context, *session.Session) error {
	return errors.New("connection refused")
}

func (failingBackend) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	sess := session.New("s1")
	sess.TurnCount = 3
	sess.Append(session.SenderScammer, "pay now", 100)

	if err := m.Save(ctx, sess); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := m.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.TurnCount != 3 || len(got.History) != 1 {
		t.Errorf("round trip lost data: turns=%d history=%d", got.TurnCount, len(got.History))
	}

	// The stored record is a copy: mutating the returned session must not
	// affect what a later Get sees.
	got.TurnCount = 99
	again, _ := m.Get(ctx, "s1")
	if again.TurnCount != 3 {
		t.Errorf("expected stored copy isolation, got turn count %d", again.TurnCount)
	}
}

func TestMemory_AbsentIsNil(t *testing.T) {
	m := NewMemory()
	got, err := m.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected nil for absent session")
	}
}

func TestStore_GetAbsentReturnsFresh(t *testing.T) {
	s := New(NewMemory(), discardLogger())

	sess := s.Get(context.Background(), "never-seen")
	if sess == nil {
		t.Fatal("Get must never return nil")
	}
	if sess.ID != "never-seen" || sess.State != session.StateInit {
		t.Errorf("expected fresh session, got id=%q state=%q", sess.ID, sess.State)
	}
}

func TestStore_DegradesToFallback(t *testing.T) {
	s := New(failingBackend{}, discardLogger())
	ctx := context.Background()

	sess := session.New("s1")
	sess.TurnCount = 5

	if ok := s.Save(ctx, sess); !ok {
		t.Fatal("save must succeed via fallback when primary is down")
	}

	got := s.Get(ctx, "s1")
	if got.TurnCount != 5 {
		t.Errorf("expected fallback to serve the saved session, got turn count %d", got.TurnCount)
	}
}

func TestStore_NilPrimaryIsMemoryOnly(t *testing.T) {
	s := New(nil, discardLogger())
	ctx := context.Background()

	sess := session.New("s1")
	sess.ScamType = "UPI_FRAUD"
	if ok := s.Save(ctx, sess); !ok {
		t.Fatal("save must succeed with nil primary")
	}

	got := s.Get(ctx, "s1")
	if got.ScamType != "UPI_FRAUD" {
		t.Errorf("expected saved session back, got scam type %q", got.ScamType)
	}

	s.Delete(ctx, "s1")
	fresh := s.Get(ctx, "s1")
	if fresh.ScamType != "" {
		t.Error("expected fresh session after delete")
	}
}
