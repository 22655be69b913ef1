// Package leads tracks scored sales leads captured from conversations.
package leads

import (
	"strings"
	"time"
)

// Lead is one scored prospect. Rows are keyed by session: repeat messages in
// the same conversation update the lead rather than creating duplicates.
type Lead struct {
	ID          string    `json:"id"`
	DealerID    string    `json:"dealer_id"`
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Intent      string    `json:"intent"`
	Score       int       `json:"score"`
	Handoff     bool      `json:"handoff"`
	LastMessage string    `json:"last_message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Capture is the per-message upsert input.
type Capture struct {
	DealerID    string
	SessionID   string
	Name        string
	Email       string
	Phone       string
	Intent      string
	Score       int
	Handoff     bool
	LastMessage string
}

// Validate checks the capture can be keyed and scoped.
func (c *Capture) Validate() error {
	if strings.TrimSpace(c.SessionID) == "" {
		return ErrMissingSession
	}
	if strings.TrimSpace(c.DealerID) == "" {
		return ErrMissingDealer
	}
	return nil
}
