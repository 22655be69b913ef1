package conversation

import (
	"context"

	"github.com/autolane/dealer-ai-platform/internal/intent"
	"github.com/autolane/dealer-ai-platform/internal/inventory"
	"github.com/autolane/dealer-ai-platform/internal/settings"
)

// turn carries the classified request plus everything the engine resolved
// before running the pipeline. Strategies read it, never mutate it.
type turn struct {
	req            ProcessRequest
	message        string
	dealerID       string
	dealerName     string
	intent         intent.Intent
	urgency        intent.Urgency
	inventoryQuery bool
	vehicle        *inventory.Vehicle
	bundle         *settings.Bundle
	history        []ChatMessage
}

// stageAnswer is a strategy's contribution to the normalized Result.
type stageAnswer struct {
	Response string
	CrewUsed bool
	CrewType CrewType
}

// strategy is one stage of the response pipeline. The engine walks an ordered
// slice, skipping ineligible stages and falling through on error. The last
// strategy in the slice must be eligible for every turn and must not return
// an error.
type strategy interface {
	Name() string
	Eligible(t *turn) bool
	Respond(ctx context.Context, t *turn) (stageAnswer, error)
}
