package session

import (
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()
	if a.ID == "" {
		t.Fatal("expected non-empty session id")
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct ids, both %q", a.ID)
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("expected a UUID, got %q: %v", a.ID, err)
	}
	if a.StartTime.IsZero() {
		t.Error("expected start time to be set")
	}
}
