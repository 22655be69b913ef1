package conversation

import (
	"fmt"
	"strings"

	"github.com/autolane/dealer-ai-platform/internal/inventory"
	"github.com/autolane/dealer-ai-platform/internal/settings"
)

const baseSystemPrompt = `You are a knowledgeable, friendly sales assistant for a car dealership. Answer questions about vehicles, pricing, financing, test drives, and trade-ins. Keep responses short and conversational. Never invent inventory, prices, or financing terms. When you do not know a detail, offer to connect the customer with a salesperson. Always guide the conversation toward a next step: a test drive, a quote, or a visit to the dealership.`

// BuildSystemPrompt assembles the LLM system prompt from the base prompt, the
// dealer identity, optional vehicle context, and the dealer's configured
// prompt-template sections. Empty sections are skipped.
func BuildSystemPrompt(dealerName string, vehicle *inventory.Vehicle, sections []settings.PromptSection) string {
	var sb strings.Builder
	sb.WriteString(baseSystemPrompt)

	if dealerName != "" {
		fmt.Fprintf(&sb, "\n\nYou represent %s.", dealerName)
	}

	if vehicle != nil {
		fmt.Fprintf(&sb, "\n\nThe customer is asking about this vehicle: %s", describeVehicle(vehicle))
	}

	for _, section := range sections {
		body := strings.TrimSpace(section.Body)
		if body == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n\n%s:\n%s", section.Title, body)
	}

	return sb.String()
}

func describeVehicle(v *inventory.Vehicle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s %s", v.Year, titleCase(v.Make), titleCase(v.Model))
	if v.Trim != "" {
		fmt.Fprintf(&sb, " %s", v.Trim)
	}
	if v.Price > 0 {
		fmt.Fprintf(&sb, ", priced at $%.0f", v.Price)
	}
	if v.Mileage > 0 {
		fmt.Fprintf(&sb, ", %d miles", v.Mileage)
	}
	if v.ExteriorColor != "" {
		fmt.Fprintf(&sb, ", %s exterior", v.ExteriorColor)
	}
	if len(v.Features) > 0 {
		fmt.Fprintf(&sb, ". Features: %s", strings.Join(v.Features, ", "))
	}
	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
