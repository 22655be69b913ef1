package intent

import (
	"regexp"
	"strings"
)

// rule pairs a predicate with the intent it yields. Rules are evaluated in
// slice order and the first match wins, so the order of classifierRules is a
// load-bearing invariant: keyword sets overlap (e.g. "schedule a test drive
// today" matches both the test-drive and urgent sets) and reordering changes
// classification results.
type rule struct {
	match  func(string) bool
	intent Intent
}

func anyKeyword(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// Short greeting tokens need word boundaries; plain substring matching would
// find "hi" inside "vehicle".
var greetPattern = regexp.MustCompile(`\b(hello|hi|hey|howdy|greetings|good (morning|afternoon|evening))\b`)

var classifierRules = []rule{
	{greetPattern.MatchString, IntentGreet},
	{anyKeyword("test drive", "test-drive", "drive it", "take it for a spin", "try it out"), IntentTestDrive},
	{anyKeyword("price", "cost", "how much", "pricing", "msrp", "out the door", "best offer"), IntentPrice},
	{anyKeyword("financ", "loan", "lease", "credit", "apr", "down payment", "monthly payment"), IntentFinance},
	{anyKeyword("feature", "spec", "mpg", "horsepower", "engine", "safety", "warranty", "sunroof", "awd", "interior"), IntentFeatures},
	{anyKeyword("inventory", "in stock", "availability", "do you have", "on the lot"), IntentInventory},
	{anyKeyword("similar", "alternative", "other options", "something else", "comparable", "instead"), IntentAlternatives},
	{anyKeyword("trade-in", "trade in", "my current car", "appraisal", "trade"), IntentTradeIn},
	{anyKeyword("human", "real person", "representative", "salesperson", "speak to someone", "talk to someone", "agent"), IntentHandoff},
	{anyKeyword("urgent", "asap", "immediately", "right away", "emergency"), IntentUrgent},
}

var urgencyKeywords = []string{"urgent", "asap", "today", "immediately", "now", "quick", "fast", "emergency"}

// inventoryQueryKeywords is intentionally a separate list from the inventory
// classifier rule above. The two can disagree ("what vehicles do you have"
// trips this gate without classifying as inventory) and the engine treats this
// gate as the higher-priority routing signal. Unifying the lists would change
// routing outcomes, so the duplication stays.
var inventoryQueryKeywords = []string{
	"inventory", "available", "stock", "show me", "what do you have",
	"options", "similar", "other", "vehicles", "cars", "suvs", "trucks",
	"looking for", "on the lot",
}

// Classifier maps raw message text to an Intent plus independent urgency and
// inventory-query signals.
type Classifier struct {
	rules []rule
}

// NewClassifier returns a classifier with the default ordered rule list.
func NewClassifier() *Classifier {
	return &Classifier{rules: classifierRules}
}

// Classify returns the intent of the first matching rule, or general inquiry
// when nothing matches.
func (c *Classifier) Classify(text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return IntentGeneralInquiry
	}
	for _, r := range c.rules {
		if r.match(normalized) {
			return r.intent
		}
	}
	return IntentGeneralInquiry
}

// AssessUrgency flags messages containing any urgency keyword.
func (c *Classifier) AssessUrgency(text string) Urgency {
	normalized := strings.ToLower(text)
	for _, kw := range urgencyKeywords {
		if strings.Contains(normalized, kw) {
			return UrgencyHigh
		}
	}
	return UrgencyNormal
}

// IsInventoryQuery reports whether the message should route to the
// inventory-aware response strategy. Evaluated independently of Classify.
func (c *Classifier) IsInventoryQuery(text string) bool {
	normalized := strings.ToLower(text)
	for _, kw := range inventoryQueryKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
