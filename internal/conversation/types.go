// Package conversation implements the response pipeline: intent
// classification, ordered response strategies with fallback, lead scoring,
// optional speech synthesis, and best-effort persistence.
package conversation

import (
	"context"
	"time"

	"github.com/autolane/dealer-ai-platform/internal/intent"
	"github.com/autolane/dealer-ai-platform/internal/settings"
	"github.com/autolane/dealer-ai-platform/internal/speech"
)

// CrewType records which response strategy produced the answer.
type CrewType string

const (
	CrewInventory   CrewType = "Inventory-Aware AI"
	CrewOpenAI      CrewType = "OpenAI"
	CrewRuleBased   CrewType = "Rule-Based"
	CrewAIAssistant CrewType = "AI Assistant"
	CrewFallback    CrewType = "Fallback"
	CrewError       CrewType = "Error"
)

// CustomerInfo identifies the customer on a processing request.
type CustomerInfo struct {
	DealerID string `json:"dealerId"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ProcessRequest is one customer message plus its conversation context.
type ProcessRequest struct {
	SessionID string       `json:"sessionId"`
	VehicleID string       `json:"vehicleId,omitempty"`
	Message   string       `json:"message"`
	Customer  CustomerInfo `json:"customerInfo"`
}

// Result is the single normalized output of every strategy branch. All
// branches populate the same shape so callers never special-case the
// provider that answered.
type Result struct {
	Success       bool                     `json:"success"`
	Response      string                   `json:"response"`
	CrewUsed      bool                     `json:"crewUsed"`
	CrewType      CrewType                 `json:"crewType"`
	Intent        intent.Intent            `json:"intent"`
	LeadScore     int                      `json:"leadScore"`
	ShouldHandoff bool                     `json:"shouldHandoff"`
	AudioURL      string                   `json:"audioUrl,omitempty"`
	Timings       map[string]time.Duration `json:"timings,omitempty"`

	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage is one turn in the LLM conversation context.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Synthesizer is the speech dependency. A nil artifact means "no audio".
type Synthesizer interface {
	Synthesize(ctx context.Context, text, dealerID string) *speech.Artifact
}

// SettingsReader is the settings dependency, satisfied by settings.Store.
type SettingsReader interface {
	Get(ctx context.Context, dealerID string) (*settings.Bundle, error)
	Invalidate(dealerID string)
}

// LeadRecord is the scored-lead snapshot the engine emits after each
// processed message.
type LeadRecord struct {
	DealerID    string
	SessionID   string
	Name        string
	Email       string
	Phone       string
	Intent      intent.Intent
	Score       int
	Handoff     bool
	LastMessage string
}

// LeadRecorder captures scored leads. Recording is best-effort.
type LeadRecorder interface {
	Record(ctx context.Context, rec LeadRecord) error
}
