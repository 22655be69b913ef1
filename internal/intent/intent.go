// Package intent classifies customer messages into a fixed set of sales
// intents and exposes the independent urgency and inventory-query signals the
// conversation engine routes on.
package intent

// Intent is the classified purpose of a customer message.
type Intent string

const (
	IntentGreet          Intent = "greet"
	IntentTestDrive      Intent = "test_drive"
	IntentPrice          Intent = "price"
	IntentFinance        Intent = "finance"
	IntentFeatures       Intent = "features"
	IntentInventory      Intent = "inventory"
	IntentAlternatives   Intent = "alternatives"
	IntentTradeIn        Intent = "trade_in"
	IntentHandoff        Intent = "handoff"
	IntentUrgent         Intent = "urgent"
	IntentGeneralInquiry Intent = "general_inquiry"

	// IntentError is the sentinel used when processing fails outright.
	IntentError Intent = "error"
)

// Urgency flags how time-sensitive a message is. It is computed independently
// of Intent and the two are not mutually exclusive.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)
