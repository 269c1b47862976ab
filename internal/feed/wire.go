package feed

import "encoding/json"

// Function selectors passed as the fn query parameter.
const (
	FnChat     = "chat"
	FnEscalate = "escalate"
	FnContact  = "contact"
	FnFeed     = "feed"
	FnNearest  = "nearest"
)

// ChatRequest is the body of POST ?fn=chat
type ChatRequest struct {
	Message string `json:"message"`
	Session string `json:"session"`
	Email   string `json:"email"`
	Topic   string `json:"topic"`
}

// ChatResponse is the reply to a chat message
type ChatResponse struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply"`
}

// EscalateRequest is the body of POST ?fn=escalate (call-back request)
type EscalateRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Time    string `json:"time"`
	Topic   string `json:"topic"`
	Email   string `json:"email"`
	Session string `json:"session"`
}

// EscalateResponse is the reply to a call-back request
type EscalateResponse struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg"`
}

// ContactRequest is the body of POST ?fn=contact
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// ContactResponse is the reply to a contact-form submission
type ContactResponse struct {
	OK bool `json:"ok"`
}

// FileRef points at a Drive file
type FileRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FeedDocs lists Google Doc ids published for the site
type FeedDocs struct {
	AboutMain string `json:"aboutMain"`
}

// FeedResponse is the live content feed (GET ?fn=feed)
type FeedResponse struct {
	OK       bool      `json:"ok"`
	Docs     *FeedDocs `json:"docs,omitempty"`
	Calendar *FileRef  `json:"calendar,omitempty"`
	Passage  *FileRef  `json:"passage,omitempty"`
}

// NearestResponse is the member lookup result (GET ?fn=nearest&zip=...)
type NearestResponse struct {
	OK      bool            `json:"ok"`
	Count   int             `json:"count"`
	Matches json.RawMessage `json:"matches"`
}
