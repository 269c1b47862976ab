package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	entries := []Entry{
		{SessionID: "s1", Fn: "chat", Outcome: OutcomeOK, Duration: 120 * time.Millisecond},
		{SessionID: "s2", Fn: "chat", Outcome: OutcomeOK},
		{SessionID: "s1", Fn: "escalate", Outcome: OutcomeNetwork, Duration: 5 * time.Millisecond},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := j.Recent(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for s1, got %d", len(got))
	}
	if got[0].Fn != "escalate" || got[0].Outcome != OutcomeNetwork {
		t.Errorf("expected newest first, got %+v", got[0])
	}
	if got[1].Duration != 120*time.Millisecond {
		t.Errorf("expected 120ms, got %v", got[1].Duration)
	}
	if got[1].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	limited, err := j.Recent(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := j.Record(context.Background(), Entry{SessionID: "s", Fn: "contact", Outcome: OutcomeRejected}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer j.Close()
	got, err := j.Recent(context.Background(), "s", 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 || got[0].Outcome != OutcomeRejected {
		t.Errorf("unexpected entries %+v", got)
	}
}
