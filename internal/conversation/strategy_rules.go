package conversation

import (
	"context"

	"github.com/autolane/dealer-ai-platform/internal/intent"
)

// cannedResponses maps each intent to deterministic response text. The map is
// total over the intent enum so the rule stage can never decline.
var cannedResponses = map[intent.Intent]string{
	intent.IntentGreet:          "Hello! Welcome to the dealership. I'm here to help you find your next vehicle - are you looking for something specific, or would you like to browse what we have available?",
	intent.IntentTestDrive:      "I'd be happy to help you schedule a test drive! Let me know which vehicle you're interested in and a day and time that works for you, and I'll get it arranged with our sales team.",
	intent.IntentPrice:          "I can help with pricing. Let me know which vehicle you have in mind and I'll pull up the details - and our team can also walk you through current offers and incentives.",
	intent.IntentFinance:        "We offer a range of financing options, including competitive rates and flexible terms. Our finance team can pre-qualify you in minutes - would you like me to have someone reach out?",
	intent.IntentFeatures:       "Happy to go over features and specs. Which vehicle are you curious about? I can cover trim levels, technology packages, safety ratings, and more.",
	intent.IntentInventory:      "I can check what we currently have on the lot. Tell me the make, model, or price range you're after and I'll see what matches.",
	intent.IntentAlternatives:   "If that one isn't quite right, we likely have similar vehicles you'd love. Tell me what matters most - price, size, brand - and I'll suggest some alternatives.",
	intent.IntentTradeIn:        "We'd be glad to appraise your trade-in. If you share the year, make, model, and rough mileage, our team can give you an estimate and apply it toward your next vehicle.",
	intent.IntentHandoff:        "Of course - I'll connect you with one of our salespeople right away. They'll follow up shortly; is there anything you'd like me to pass along in the meantime?",
	intent.IntentUrgent:         "Understood - I'll flag this as time-sensitive. A member of our team will get back to you as quickly as possible. Is there anything else I can note for them?",
	intent.IntentGeneralInquiry: "Thanks for reaching out! I can help with inventory, pricing, financing, test drives, and trade-ins. What would you like to know?",
}

// ruleStrategy is the terminal stage: always eligible, never fails. It keeps
// the pipeline's availability guarantee by calling nothing fallible.
type ruleStrategy struct{}

func newRuleStrategy() *ruleStrategy { return &ruleStrategy{} }

func (s *ruleStrategy) Name() string { return "rules" }

func (s *ruleStrategy) Eligible(*turn) bool { return true }

func (s *ruleStrategy) Respond(_ context.Context, t *turn) (stageAnswer, error) {
	text, ok := cannedResponses[t.intent]
	if !ok {
		text = cannedResponses[intent.IntentGeneralInquiry]
	}
	return stageAnswer{Response: text, CrewUsed: false, CrewType: CrewRuleBased}, nil
}
