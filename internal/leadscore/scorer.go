// Package leadscore turns a classified message into a 0-100 engagement score
// and a human-handoff decision.
package leadscore

import "github.com/autolane/dealer-ai-platform/internal/intent"

const (
	baseScore        = 50
	urgencyBonus     = 15
	longMessageBonus = 5
	longMessageChars = 20
	maxScore         = 100

	handoffThreshold = 80
)

var intentBonuses = map[intent.Intent]int{
	intent.IntentTestDrive: 25,
	intent.IntentPrice:     20,
	intent.IntentFinance:   18,
	intent.IntentFeatures:  15,
	intent.IntentInventory: 12,
	intent.IntentGreet:     5,
}

const defaultIntentBonus = 8

// Score computes the engagement score for a message. The score builds
// monotonically from the base and is clamped to [0,100].
func Score(in intent.Intent, urgency intent.Urgency, message string) int {
	score := baseScore

	if bonus, ok := intentBonuses[in]; ok {
		score += bonus
	} else {
		score += defaultIntentBonus
	}

	if urgency == intent.UrgencyHigh {
		score += urgencyBonus
	}
	if len(message) > longMessageChars {
		score += longMessageBonus
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

// ShouldHandoff reports whether the conversation should escalate to a human.
// Any one trigger suffices: a score at or above the threshold, an intent that
// always warrants a human, or high urgency.
func ShouldHandoff(in intent.Intent, urgency intent.Urgency, score int) bool {
	if score >= handoffThreshold {
		return true
	}
	switch in {
	case intent.IntentHandoff, intent.IntentFinance, intent.IntentTestDrive:
		return true
	}
	return urgency == intent.UrgencyHigh
}
