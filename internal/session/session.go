package session

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message represents a single chat message
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents a chat session. It lives as long as the process and
// is never stored.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
}

// New creates a session with a fresh random identifier.
func New() *Session {
	return &Session{
		ID:        NewID(),
		StartTime: time.Now(),
	}
}

// NewID returns a random v4 UUID, or the current unix-nano time when the
// random source is unavailable.
func NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return id.String()
}
