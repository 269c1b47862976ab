package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"TempleChat/internal/feed"
)

// Texts shown after a form submission.
const (
	ContactThanksText  = "Thank you! We received your message."
	ContactSorryText   = "Sorry—could not send. Please call or email the temple."
	ContactNetworkText = "Network error. Please try again."
	NearestNoneText    = "No nearby matches yet."
	NearestErrorText   = "Error."
	NearestNetworkText = "Network error."
)

// FormClient submits the site forms.
type FormClient interface {
	Contact(ctx context.Context, req feed.ContactRequest) (feed.ContactResponse, error)
	Nearest(ctx context.Context, zip string) (feed.NearestResponse, error)
}

// ContactFields are the visitor's contact-form entries.
type ContactFields struct {
	Name    string
	Email   string
	Message string
}

// Result is the text to show the visitor, and whether the form should be
// reset.
type Result struct {
	Text  string
	Reset bool
}

// Forms submits the contact form and the nearest-member lookup.
type Forms struct {
	client FormClient
	logger *slog.Logger
}

// NewForms creates a Forms submitter.
func NewForms(client FormClient, logger *slog.Logger) *Forms {
	return &Forms{client: client, logger: logger}
}

// SubmitContact posts the contact form. Fields are sent as entered.
func (f *Forms) SubmitContact(ctx context.Context, fields ContactFields) Result {
	resp, err := f.client.Contact(ctx, feed.ContactRequest{
		Name:    fields.Name,
		Email:   fields.Email,
		Message: fields.Message,
		Source:  "web",
	})
	switch {
	case errors.Is(err, feed.ErrTransport):
		f.logger.Warn("contact submission failed", "error", err)
		return Result{Text: ContactNetworkText}
	case err != nil || !resp.OK:
		f.logger.Warn("contact submission rejected", "error", err)
		return Result{Text: ContactSorryText}
	}
	f.logger.Info("contact submission accepted")
	return Result{Text: ContactThanksText, Reset: true}
}

// Nearest looks up members near zip and renders the matches as indented JSON.
func (f *Forms) Nearest(ctx context.Context, zip string) string {
	resp, err := f.client.Nearest(ctx, zip)
	switch {
	case errors.Is(err, feed.ErrTransport):
		return NearestNetworkText
	case err != nil || !resp.OK:
		return NearestErrorText
	case resp.Count == 0:
		return NearestNoneText
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp.Matches, "", "  "); err != nil {
		return string(resp.Matches)
	}
	return out.String()
}
