package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"TempleChat/internal/config"
	"TempleChat/internal/feed"
	"TempleChat/internal/journal"
	"TempleChat/internal/session"
	"TempleChat/internal/transcript"
)

// Fixed texts shown in the transcript and status line.
const (
	WelcomeText         = "Welcome! How can we help today?"
	ChatApologyText     = "Sorry—couldn’t send that just now."
	CallApologyText     = "Sorry—couldn’t send the call request just now."
	NetworkErrorText    = "Network error. Please try again."
	PhonePromptText     = "Please enter a phone number so we can call you back."
	DefaultCallTimeText = "Soonest available"
	OnlineText          = "Online"
	OfflineText         = "Offline — we’ll email you back"
)

// Surface is the UI the widget renders onto.
type Surface interface {
	transcript.View
	SetPanelVisible(visible bool)
	SetStatus(status Status)
	FocusInput()
	ClearInput()
}

// Status is the availability indicator (dot + text).
type Status struct {
	Online bool
	Text   string
}

// Dispatcher sends widget requests to the feed endpoint.
type Dispatcher interface {
	Chat(ctx context.Context, req feed.ChatRequest) (feed.ChatResponse, error)
	Escalate(ctx context.Context, req feed.EscalateRequest) (feed.EscalateResponse, error)
}

// Availability reports whether staff are online now.
type Availability interface {
	IsOnline() bool
}

// Recorder stores dispatch outcomes.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Form holds the widget's input fields.
type Form struct {
	Input string
	Email string
	Topic string
	Name  string
	Phone string
	Time  string
}

// Deps are the collaborators of a Widget. Journal and Meter are optional.
type Deps struct {
	Surface      Surface
	Client       Dispatcher
	Availability Availability
	Session      *session.Session
	Journal      Recorder
	Logger       *slog.Logger
	Meter        metric.Meter
}

// Widget is the chat panel: visibility, availability status, transcript
// and the chat / call-back dispatchers.
type Widget struct {
	surface    Surface
	client     Dispatcher
	avail      Availability
	session    *session.Session
	journal    Recorder
	logger     *slog.Logger
	outcomes   metric.Int64Counter
	transcript *transcript.Transcript

	mu      sync.Mutex
	form    Form
	visible bool
	status  Status
}

// NewWidget builds the widget, computes the initial status and greets the
// visitor. The panel starts hidden.
func NewWidget(deps Deps) (*Widget, error) {
	if deps.Surface == nil || deps.Client == nil || deps.Availability == nil {
		return nil, fmt.Errorf("surface, client and availability are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if deps.Session == nil {
		deps.Session = session.New()
	}

	w := &Widget{
		surface:    deps.Surface,
		client:     deps.Client,
		avail:      deps.Availability,
		session:    deps.Session,
		journal:    deps.Journal,
		logger:     deps.Logger,
		transcript: transcript.New(deps.Surface),
		form:       Form{Topic: config.DefaultTopic},
	}

	if deps.Meter != nil {
		counter, err := deps.Meter.Int64Counter(
			"templechat.dispatch.outcomes",
			metric.WithDescription("Widget dispatch outcomes by function"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create outcome counter: %w", err)
		}
		w.outcomes = counter
	}

	w.refreshStatus()
	w.transcript.AppendMessage(session.RoleBot, WelcomeText)
	return w, nil
}

// Session returns the session threaded through every request.
func (w *Widget) Session() *session.Session { return w.session }

// Transcript returns the widget's transcript.
func (w *Widget) Transcript() *transcript.Transcript { return w.transcript }

// Form returns a snapshot of the input fields.
func (w *Widget) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// UpdateForm applies fn to the input fields under the widget lock.
func (w *Widget) UpdateForm(fn func(f *Form)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.form)
}

// Visible reports whether the panel is shown.
func (w *Widget) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Status returns the last computed availability status.
func (w *Widget) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Toggle flips the panel between shown and hidden. Showing focuses the
// input. The status is recomputed on every toggle.
func (w *Widget) Toggle() {
	w.mu.Lock()
	w.visible = !w.visible
	visible := w.visible
	w.mu.Unlock()

	w.surface.SetPanelVisible(visible)
	if visible {
		w.surface.FocusInput()
	}
	w.refreshStatus()
}

func (w *Widget) refreshStatus() {
	status := Status{Online: w.avail.IsOnline(), Text: OfflineText}
	if status.Online {
		status.Text = OnlineText
	}
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
	w.surface.SetStatus(status)
}

// Send posts a chat message and renders the reply. Blank text is ignored.
// Overlapping calls are independent; replies render in completion order.
func (w *Widget) Send(ctx context.Context, text string) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return
	}

	w.transcript.AppendMessage(session.RoleUser, msg)
	w.UpdateForm(func(f *Form) { f.Input = "" })
	w.surface.ClearInput()
	w.transcript.SetTyping(true)

	form := w.Form()
	req := feed.ChatRequest{
		Message: msg,
		Session: w.session.ID,
		Email:   form.Email,
		Topic:   topicOrDefault(form.Topic),
	}

	start := time.Now()
	resp, err := w.client.Chat(ctx, req)
	w.transcript.SetTyping(false)

	outcome := classify(err, resp.OK && resp.Reply != "")
	switch outcome {
	case journal.OutcomeOK:
		w.transcript.AppendMessage(session.RoleBot, resp.Reply)
	case journal.OutcomeNetwork:
		w.transcript.AppendMessage(session.RoleBot, NetworkErrorText)
	default:
		w.transcript.AppendMessage(session.RoleBot, ChatApologyText)
	}
	w.finish(ctx, feed.FnChat, outcome, time.Since(start), err)
}

// RequestCall asks staff to call the visitor back. A phone number is
// required; the best time defaults to "Soonest available".
func (w *Widget) RequestCall(ctx context.Context) {
	form := w.Form()
	name := strings.TrimSpace(form.Name)
	phone := strings.TrimSpace(form.Phone)
	callTime := strings.TrimSpace(form.Time)
	if callTime == "" {
		callTime = DefaultCallTimeText
	}
	topic := topicOrDefault(form.Topic)

	if phone == "" {
		// Never sent, so no dispatch log line, counter or journal row.
		w.transcript.AppendMessage(session.RoleBot, PhonePromptText)
		w.logger.Info("validation failed", "fn", feed.FnEscalate, "session_id", w.session.ID, "field", "phone")
		return
	}

	w.transcript.AppendMessage(session.RoleUser, fmt.Sprintf("CALL REQUEST → %s — %s — %s", topic, callTime, phone))
	w.transcript.SetTyping(true)

	req := feed.EscalateRequest{
		Name:    name,
		Phone:   phone,
		Time:    callTime,
		Topic:   topic,
		Email:   form.Email,
		Session: w.session.ID,
	}

	start := time.Now()
	resp, err := w.client.Escalate(ctx, req)
	w.transcript.SetTyping(false)

	outcome := classify(err, resp.OK && resp.Msg != "")
	switch outcome {
	case journal.OutcomeOK:
		w.transcript.AppendMessage(session.RoleBot, resp.Msg)
		w.UpdateForm(func(f *Form) {
			f.Name = ""
			f.Phone = ""
		})
	case journal.OutcomeNetwork:
		w.transcript.AppendMessage(session.RoleBot, NetworkErrorText)
	default:
		w.transcript.AppendMessage(session.RoleBot, CallApologyText)
	}
	w.finish(ctx, feed.FnEscalate, outcome, time.Since(start), err)
}

func classify(err error, ok bool) journal.Outcome {
	switch {
	case errors.Is(err, feed.ErrTransport):
		return journal.OutcomeNetwork
	case err != nil, !ok:
		return journal.OutcomeRejected
	default:
		return journal.OutcomeOK
	}
}

func (w *Widget) finish(ctx context.Context, fn string, outcome journal.Outcome, d time.Duration, err error) {
	attrs := []any{"fn", fn, "session_id", w.session.ID, "outcome", string(outcome), "duration_ms", d.Milliseconds()}
	if err != nil {
		w.logger.Warn("dispatch failed", append(attrs, "error", err)...)
	} else {
		w.logger.Info("dispatch completed", attrs...)
	}

	if w.outcomes != nil {
		w.outcomes.Add(ctx, 1, metric.WithAttributes(
			attribute.String("fn", fn),
			attribute.String("outcome", string(outcome)),
		))
	}

	if w.journal != nil {
		entry := journal.Entry{SessionID: w.session.ID, Fn: fn, Outcome: outcome, Duration: d}
		if err := w.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
			w.logger.Warn("failed to journal dispatch", "fn", fn, "error", err)
		}
	}
}

func topicOrDefault(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return config.DefaultTopic
	}
	return topic
}
