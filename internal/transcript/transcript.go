// Package transcript keeps the ordered list of chat rows shown in the panel
// and mirrors every change onto a View.
package transcript

import (
	"fmt"
	"sync"
	"time"

	"TempleChat/internal/session"
)

// TypingRowID identifies the typing-indicator placeholder row.
const TypingRowID = "typing"

// Row is one entry of the transcript.
type Row struct {
	ID      string
	Message session.Message
	Typing  bool
}

// View is the UI surface rows are rendered onto.
type View interface {
	AppendRow(row Row)
	RemoveRow(id string)
	ScrollToEnd()
}

// Transcript is an append-only list of rows plus at most one typing
// indicator. It is safe for concurrent use.
type Transcript struct {
	mu     sync.Mutex
	view   View
	rows   []Row
	nextID int
	now    func() time.Time
}

// New creates an empty transcript rendering onto view. A nil view is allowed.
func New(view View) *Transcript {
	return &Transcript{view: view, now: time.Now}
}

// SetClock overrides the timestamp source.
func (t *Transcript) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// AppendMessage adds a timestamped row for role and scrolls to it.
func (t *Transcript) AppendMessage(role session.Role, text string) session.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	msg := session.Message{Role: role, Text: text, Timestamp: t.now()}
	row := Row{ID: fmt.Sprintf("row-%d", t.nextID), Message: msg}
	t.rows = append(t.rows, row)
	if t.view != nil {
		t.view.AppendRow(row)
		t.view.ScrollToEnd()
	}
	return msg
}

// SetTyping shows or hides the typing indicator. Both directions are
// idempotent.
func (t *Transcript) SetTyping(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.typingIndex()
	switch {
	case visible && idx < 0:
		row := Row{ID: TypingRowID, Typing: true, Message: session.Message{Role: session.RoleBot}}
		t.rows = append(t.rows, row)
		if t.view != nil {
			t.view.AppendRow(row)
			t.view.ScrollToEnd()
		}
	case !visible && idx >= 0:
		t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
		if t.view != nil {
			t.view.RemoveRow(TypingRowID)
		}
	}
}

// Typing reports whether the typing indicator is present.
func (t *Transcript) Typing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.typingIndex() >= 0
}

func (t *Transcript) typingIndex() int {
	for i, r := range t.rows {
		if r.Typing {
			return i
		}
	}
	return -1
}

// Rows returns a copy of all rows, including the typing indicator.
func (t *Transcript) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Messages returns the message rows in insertion order.
func (t *Transcript) Messages() []session.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]session.Message, 0, len(t.rows))
	for _, r := range t.rows {
		if !r.Typing {
			out = append(out, r.Message)
		}
	}
	return out
}

// FormatClock renders a timestamp as local hour:minute.
func FormatClock(ts time.Time) string {
	return ts.Local().Format("15:04")
}
