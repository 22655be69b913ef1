package intent

import "testing"

func TestClassify_FirstMatchWins(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		name string
		text string
		want Intent
	}{
		{"greeting", "Hello there!", IntentGreet},
		{"greeting beats test drive", "Hi, can I book a test drive?", IntentGreet},
		{"test drive", "Can you tell me about test drives?", IntentTestDrive},
		{"test drive beats urgent", "I want to schedule a test drive today", IntentTestDrive},
		{"price", "How much does the Camry cost?", IntentPrice},
		{"finance", "What financing rates do you offer?", IntentFinance},
		{"features", "Does it have a sunroof and AWD?", IntentFeatures},
		{"inventory", "What's your current inventory?", IntentInventory},
		{"alternatives", "Anything comparable to the CR-V?", IntentAlternatives},
		{"trade in", "I'd like to trade in my current car", IntentTradeIn},
		{"handoff", "Can I speak to someone at the dealership?", IntentHandoff},
		{"urgent only", "I need this done ASAP", IntentUrgent},
		{"default", "The weather is nice", IntentGeneralInquiry},
		{"empty", "", IntentGeneralInquiry},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Classify(tc.text); got != tc.want {
				t.Errorf("Classify(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify("TEST DRIVE PLEASE"); got != IntentTestDrive {
		t.Errorf("expected test_drive, got %s", got)
	}
}

func TestAssessUrgency(t *testing.T) {
	c := NewClassifier()

	high := []string{
		"I need it today",
		"ASAP please",
		"this is urgent",
		"call me immediately",
		"quick question about the Civic",
	}
	for _, text := range high {
		if c.AssessUrgency(text) != UrgencyHigh {
			t.Errorf("AssessUrgency(%q) = normal, want high", text)
		}
	}

	if c.AssessUrgency("just browsing, no rush") != UrgencyNormal {
		t.Error("expected normal urgency")
	}
}

func TestUrgencyIndependentOfIntent(t *testing.T) {
	c := NewClassifier()
	text := "I want to schedule a test drive today"

	if got := c.Classify(text); got != IntentTestDrive {
		t.Fatalf("Classify = %s, want test_drive", got)
	}
	if got := c.AssessUrgency(text); got != UrgencyHigh {
		t.Fatalf("AssessUrgency = %s, want high", got)
	}
}

func TestIsInventoryQuery(t *testing.T) {
	c := NewClassifier()

	positive := []string{
		"show me what you have",
		"what vehicles are available?",
		"do you have similar cars in stock",
		"what are my options",
	}
	for _, text := range positive {
		if !c.IsInventoryQuery(text) {
			t.Errorf("IsInventoryQuery(%q) = false, want true", text)
		}
	}

	if c.IsInventoryQuery("what time do you open") {
		t.Error("opening-hours question should not be an inventory query")
	}
}

// The inventory gate and the inventory intent are maintained as separate
// keyword lists and may disagree; the engine relies on the gate, not the
// intent, for routing.
func TestInventoryGateDisagreesWithIntent(t *testing.T) {
	c := NewClassifier()
	text := "what cars should I look at"

	if !c.IsInventoryQuery(text) {
		t.Fatal("expected inventory gate to trigger")
	}
	if got := c.Classify(text); got == IntentInventory {
		t.Fatalf("expected a non-inventory intent, got %s", got)
	}
}
