package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/autolane/dealer-ai-platform/internal/intent"
	"github.com/autolane/dealer-ai-platform/internal/inventory"
	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// maxListedVehicles caps how many matches are spelled out in the reply.
const maxListedVehicles = 5

// inventoryStrategy answers inventory-style questions from live dealer stock.
// Once selected it always produces a response: matcher failures and empty
// lots degrade to explanatory text instead of falling through to the next
// stage.
type inventoryStrategy struct {
	matcher *inventory.Matcher
	log     *logging.Logger
}

func newInventoryStrategy(matcher *inventory.Matcher, log *logging.Logger) *inventoryStrategy {
	return &inventoryStrategy{matcher: matcher, log: log}
}

func (s *inventoryStrategy) Name() string { return "inventory" }

// Eligible gates on the inventory-query signal and a resolved dealer. The
// gate is independent of the classified intent and wins over it.
func (s *inventoryStrategy) Eligible(t *turn) bool {
	return s.matcher != nil && t.inventoryQuery && t.dealerID != ""
}

func (s *inventoryStrategy) Respond(ctx context.Context, t *turn) (stageAnswer, error) {
	answer := stageAnswer{CrewUsed: true, CrewType: CrewInventory}

	// With an anchor vehicle and an alternatives question, rank similar stock
	// instead of running a fresh keyword match.
	if t.vehicle != nil && t.intent == intent.IntentAlternatives {
		similar, err := s.matcher.Similar(ctx, t.dealerID, t.vehicle, maxListedVehicles)
		if err != nil {
			s.log.Warn("similar-vehicle lookup failed, degrading", "dealer_id", t.dealerID, "error", err)
		} else {
			answer.Response = formatSimilarResponse(t.vehicle, similar)
			return answer, nil
		}
	}

	match, err := s.matcher.Match(ctx, t.dealerID, t.message, inventory.DefaultLimit)
	if err != nil {
		s.log.Warn("inventory lookup failed, degrading", "dealer_id", t.dealerID, "error", err)
		answer.Response = "I'm having trouble pulling up our current inventory. A member of our sales team can walk you through what's on the lot - would you like me to connect you?"
		return answer, nil
	}

	answer.Response = formatInventoryResponse(match)
	return answer, nil
}

func formatInventoryResponse(match *inventory.MatchResult) string {
	if len(match.Items) == 0 {
		if match.TotalAvailable > 0 {
			return fmt.Sprintf("I didn't find anything matching that exact description, but we do have %d vehicles available right now. Would you like me to suggest some alternatives, or broaden the search?", match.TotalAvailable)
		}
		return "We don't have any vehicles in stock at the moment. New inventory arrives regularly - can I take your contact details so a salesperson can reach out as soon as something comes in?"
	}

	var sb strings.Builder
	if len(match.Items) == 1 {
		sb.WriteString("Great news - we have a vehicle that matches what you're looking for:\n")
	} else {
		fmt.Fprintf(&sb, "We have %d vehicles that match what you're looking for:\n", len(match.Items))
	}

	shown := match.Items
	if len(shown) > maxListedVehicles {
		shown = shown[:maxListedVehicles]
	}
	for _, v := range shown {
		fmt.Fprintf(&sb, "- %d %s %s", v.Year, titleCase(v.Make), titleCase(v.Model))
		if v.Trim != "" {
			fmt.Fprintf(&sb, " %s", v.Trim)
		}
		if v.Price > 0 {
			fmt.Fprintf(&sb, " - $%.0f", v.Price)
		}
		if v.Mileage > 0 {
			fmt.Fprintf(&sb, " (%s miles)", formatMiles(v.Mileage))
		}
		sb.WriteString("\n")
	}
	if len(match.Items) > maxListedVehicles {
		fmt.Fprintf(&sb, "...and %d more.\n", len(match.Items)-maxListedVehicles)
	}
	sb.WriteString("Would you like more details on any of these, or shall we set up a test drive?")
	return sb.String()
}

func formatSimilarResponse(anchor *inventory.Vehicle, similar []inventory.Vehicle) string {
	if len(similar) == 0 {
		return fmt.Sprintf("The %d %s %s is the only vehicle of its kind on our lot right now. Would you like to set up a test drive, or should I let you know when comparable stock arrives?",
			anchor.Year, titleCase(anchor.Make), titleCase(anchor.Model))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "If you like the %d %s %s, here's what else we have that's comparable:\n",
		anchor.Year, titleCase(anchor.Make), titleCase(anchor.Model))
	for _, v := range similar {
		fmt.Fprintf(&sb, "- %d %s %s", v.Year, titleCase(v.Make), titleCase(v.Model))
		if v.Trim != "" {
			fmt.Fprintf(&sb, " %s", v.Trim)
		}
		if v.Price > 0 {
			fmt.Fprintf(&sb, " - $%.0f", v.Price)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Would you like more details on any of these?")
	return sb.String()
}

func formatMiles(mileage int) string {
	if mileage >= 1000 {
		return fmt.Sprintf("%dk", mileage/1000)
	}
	return fmt.Sprintf("%d", mileage)
}
