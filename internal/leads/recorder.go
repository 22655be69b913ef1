package leads

import (
	"context"

	"github.com/autolane/dealer-ai-platform/internal/conversation"
)

// Recorder adapts the repository to the conversation engine's lead sink.
type Recorder struct {
	repo Repository
}

var _ conversation.LeadRecorder = (*Recorder)(nil)

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record upserts the scored lead snapshot for a processed message.
func (r *Recorder) Record(ctx context.Context, rec conversation.LeadRecord) error {
	_, err := r.repo.Upsert(ctx, Capture{
		DealerID:    rec.DealerID,
		SessionID:   rec.SessionID,
		Name:        rec.Name,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Intent:      string(rec.Intent),
		Score:       rec.Score,
		Handoff:     rec.Handoff,
		LastMessage: rec.LastMessage,
	})
	return err
}
