package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// DefaultLimit caps how many vehicles a match returns.
const DefaultLimit = 20

// Matcher filters and ranks dealer inventory against customer messages.
type Matcher struct {
	repo   Repository
	logger *logging.Logger
}

// NewMatcher wires a matcher around the supplied repository.
func NewMatcher(repo Repository, logger *logging.Logger) *Matcher {
	if repo == nil {
		panic("inventory: repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Matcher{repo: repo, logger: logger}
}

// Match extracts constraints from the message and returns matching available
// vehicles, most recent first. When the filters eliminate everything, the
// result still carries the unfiltered available count.
func (m *Matcher) Match(ctx context.Context, dealerID, freeText string, limit int) (*MatchResult, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	criteria := ExtractCriteria(freeText)
	items, err := m.repo.Available(ctx, dealerID, criteria, limit)
	if err != nil {
		return nil, fmt.Errorf("inventory: match failed: %w", err)
	}

	result := &MatchResult{
		Items:          items,
		TotalAvailable: len(items),
		Criteria:       criteria,
	}

	if len(items) == 0 {
		total, err := m.repo.CountAvailable(ctx, dealerID)
		if err != nil {
			m.logger.Warn("failed to count available inventory", "error", err, "dealer_id", dealerID)
			total = 0
		}
		result.TotalAvailable = total
	}

	return result, nil
}

// Similar ranks the dealer's available stock by relevance to the anchor
// vehicle: same make scores 3, same model only scores 2, anything else 1.
// Ties break by recency, which Available already guarantees.
func (m *Matcher) Similar(ctx context.Context, dealerID string, anchor *Vehicle, limit int) ([]Vehicle, error) {
	if anchor == nil {
		return nil, fmt.Errorf("inventory: anchor vehicle required")
	}
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	// Pull unfiltered stock and rank in memory; dealer inventories are small.
	candidates, err := m.repo.Available(ctx, dealerID, Criteria{}, DefaultLimit*3)
	if err != nil {
		return nil, fmt.Errorf("inventory: similar lookup failed: %w", err)
	}

	type ranked struct {
		vehicle Vehicle
		score   int
	}
	rankedList := make([]ranked, 0, len(candidates))
	for _, v := range candidates {
		if v.ID == anchor.ID {
			continue
		}
		score := 1
		switch {
		case strings.EqualFold(v.Make, anchor.Make):
			score = 3
		case strings.EqualFold(v.Model, anchor.Model):
			score = 2
		}
		rankedList = append(rankedList, ranked{vehicle: v, score: score})
	}

	sort.SliceStable(rankedList, func(i, j int) bool {
		return rankedList[i].score > rankedList[j].score
	})

	if len(rankedList) > limit {
		rankedList = rankedList[:limit]
	}
	out := make([]Vehicle, len(rankedList))
	for i, r := range rankedList {
		out[i] = r.vehicle
	}
	return out, nil
}
