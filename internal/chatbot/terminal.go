package chatbot

import (
	"fmt"
	"io"
	"sync"

	"TempleChat/internal/session"
	"TempleChat/internal/transcript"
)

const (
	userAvatar = "🙂"
	botAvatar  = "寺"
)

// Terminal renders the widget as plain text lines. A terminal cannot take
// back a printed line, so removing the typing indicator prints nothing.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal creates a surface writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// AppendRow prints one transcript row.
func (t *Terminal) AppendRow(row transcript.Row) {
	if row.Typing {
		t.printf("%s  …\n", botAvatar)
		return
	}
	clock := transcript.FormatClock(row.Message.Timestamp)
	if row.Message.Role == session.RoleUser {
		t.printf("[%s] %s You: %s\n", clock, userAvatar, row.Message.Text)
		return
	}
	t.printf("[%s] %s Temple: %s\n", clock, botAvatar, row.Message.Text)
}

// RemoveRow is a no-op.
func (t *Terminal) RemoveRow(string) {}

// ScrollToEnd is a no-op; terminals follow output.
func (t *Terminal) ScrollToEnd() {}

// SetPanelVisible prints the panel header or a closed notice.
func (t *Terminal) SetPanelVisible(visible bool) {
	if visible {
		t.printf("=== Chat with Myogyoji Temple ===\nAsk about visiting, schedule, or basics. For times see /calendar.html & /plan-visit.html.\n")
		return
	}
	t.printf("=== chat closed (type /toggle to reopen) ===\n")
}

// SetStatus prints the availability dot and text.
func (t *Terminal) SetStatus(status Status) {
	dot := "○"
	if status.Online {
		dot = "●"
	}
	t.printf("%s %s\n", dot, status.Text)
}

// FocusInput is a no-op; the prompt always has focus.
func (t *Terminal) FocusInput() {}

// ClearInput is a no-op; the line was consumed when read.
func (t *Terminal) ClearInput() {}
