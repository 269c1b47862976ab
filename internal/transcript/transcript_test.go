package transcript

import (
	"testing"
	"time"

	"TempleChat/internal/session"
)

type recordingView struct {
	appended []Row
	removed  []string
	scrolls  int
}

func (v *recordingView) AppendRow(row Row)   { v.appended = append(v.appended, row) }
func (v *recordingView) RemoveRow(id string) { v.removed = append(v.removed, id) }
func (v *recordingView) ScrollToEnd()        { v.scrolls++ }

func TestAppendMessage(t *testing.T) {
	view := &recordingView{}
	tr := New(view)
	fixed := time.Date(2026, 10, 19, 10, 5, 0, 0, time.UTC)
	tr.SetClock(func() time.Time { return fixed })

	tr.AppendMessage(session.RoleUser, "Hello")
	tr.AppendMessage(session.RoleBot, "Hi there")

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != session.RoleUser || msgs[0].Text != "Hello" {
		t.Errorf("unexpected first message %+v", msgs[0])
	}
	if msgs[1].Role != session.RoleBot || msgs[1].Text != "Hi there" {
		t.Errorf("unexpected second message %+v", msgs[1])
	}
	if !msgs[0].Timestamp.Equal(fixed) {
		t.Errorf("expected timestamp %v, got %v", fixed, msgs[0].Timestamp)
	}
	if len(view.appended) != 2 || view.scrolls != 2 {
		t.Errorf("expected 2 appends and 2 scrolls, got %d and %d", len(view.appended), view.scrolls)
	}
	if view.appended[0].ID == view.appended[1].ID {
		t.Errorf("row ids must be unique, both %q", view.appended[0].ID)
	}
}

func TestSetTyping_Idempotent(t *testing.T) {
	view := &recordingView{}
	tr := New(view)

	tr.SetTyping(true)
	tr.SetTyping(true)

	count := 0
	for _, r := range tr.Rows() {
		if r.Typing {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 typing row, got %d", count)
	}
	if len(view.appended) != 1 {
		t.Errorf("expected view to receive 1 row, got %d", len(view.appended))
	}
}

func TestSetTyping_Remove(t *testing.T) {
	view := &recordingView{}
	tr := New(view)

	tr.SetTyping(true)
	tr.SetTyping(false)

	if tr.Typing() {
		t.Error("expected typing indicator removed")
	}
	if len(tr.Rows()) != 0 {
		t.Errorf("expected no rows, got %d", len(tr.Rows()))
	}
	if len(view.removed) != 1 || view.removed[0] != TypingRowID {
		t.Errorf("expected removal of %q, got %v", TypingRowID, view.removed)
	}

	// Hiding when absent is a no-op.
	tr.SetTyping(false)
	if len(view.removed) != 1 {
		t.Errorf("expected no further removals, got %v", view.removed)
	}
}

func TestSetTyping_KeepsMessageOrder(t *testing.T) {
	tr := New(nil)
	tr.AppendMessage(session.RoleUser, "one")
	tr.SetTyping(true)
	tr.AppendMessage(session.RoleUser, "two")
	tr.SetTyping(false)
	tr.AppendMessage(session.RoleBot, "three")

	msgs := tr.Messages()
	want := []string{"one", "two", "three"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i, w := range want {
		if msgs[i].Text != w {
			t.Errorf("message %d: got %q, want %q", i, msgs[i].Text, w)
		}
	}
}
