package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

type fakeRepo struct {
	vehicles []Vehicle
	err      error
}

func (f *fakeRepo) Available(_ context.Context, dealerID string, c Criteria, limit int) ([]Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Vehicle
	for _, v := range f.vehicles {
		if v.DealerID != dealerID || v.Status != StatusAvailable {
			continue
		}
		if c.Make != "" && !strings.EqualFold(v.Make, c.Make) {
			continue
		}
		if c.Model != "" && !strings.EqualFold(v.Model, c.Model) {
			continue
		}
		if c.MinPrice > 0 && v.Price < c.MinPrice {
			continue
		}
		if c.MaxPrice > 0 && v.Price > c.MaxPrice {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) CountAvailable(_ context.Context, dealerID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, v := range f.vehicles {
		if v.DealerID == dealerID && v.Status == StatusAvailable {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Vehicle, error) {
	for _, v := range f.vehicles {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, ErrVehicleNotFound
}

// mixedLot returns 10 vehicles: 3 Toyotas plus 7 others, newest first.
func mixedLot() []Vehicle {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	makes := []string{"toyota", "toyota", "toyota", "honda", "honda", "ford", "ford", "nissan", "kia", "mazda"}
	models := []string{"camry", "rav4", "corolla", "civic", "cr-v", "f-150", "escape", "altima", "sportage", "cx-5"}
	out := make([]Vehicle, len(makes))
	for i := range makes {
		out[i] = Vehicle{
			ID:        fmt.Sprintf("v%d", i),
			DealerID:  "dealer-1",
			Make:      makes[i],
			Model:     models[i],
			Year:      2024,
			Price:     20000 + float64(i)*1000,
			Status:    StatusAvailable,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestMatch_MakeFilter(t *testing.T) {
	repo := &fakeRepo{vehicles: mixedLot()}
	m := NewMatcher(repo, logging.Default())

	result, err := m.Match(context.Background(), "dealer-1", "any toyota in stock?", 20)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 toyotas, got %d", len(result.Items))
	}
	for i, v := range result.Items {
		if v.Make != "toyota" {
			t.Errorf("item %d make = %q", i, v.Make)
		}
		if i > 0 && result.Items[i-1].CreatedAt.Before(v.CreatedAt) {
			t.Errorf("items not ordered by recency at %d", i)
		}
	}
}

func TestMatch_NoMatchesCarriesUnfilteredCount(t *testing.T) {
	repo := &fakeRepo{vehicles: mixedLot()}
	m := NewMatcher(repo, logging.Default())

	result, err := m.Match(context.Background(), "dealer-1", "got a tesla under 15k?", 20)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected no matches, got %d", len(result.Items))
	}
	if result.TotalAvailable != 10 {
		t.Errorf("TotalAvailable = %d, want 10", result.TotalAvailable)
	}
}

func TestMatch_PriceFilter(t *testing.T) {
	repo := &fakeRepo{vehicles: mixedLot()}
	m := NewMatcher(repo, logging.Default())

	result, err := m.Match(context.Background(), "dealer-1", "what do you have under 22k", 20)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	for _, v := range result.Items {
		if v.Price > 22000 {
			t.Errorf("vehicle %s price %v exceeds max", v.ID, v.Price)
		}
	}
	if len(result.Items) != 3 {
		t.Errorf("expected 3 vehicles at or under 22000, got %d", len(result.Items))
	}
}

func TestMatch_RepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	m := NewMatcher(repo, logging.Default())

	if _, err := m.Match(context.Background(), "dealer-1", "toyota", 20); err == nil {
		t.Fatal("expected error")
	}
}

func TestSimilar_Ranking(t *testing.T) {
	repo := &fakeRepo{vehicles: mixedLot()}
	m := NewMatcher(repo, logging.Default())

	anchor := &Vehicle{ID: "anchor", Make: "toyota", Model: "cr-v"}
	similar, err := m.Similar(context.Background(), "dealer-1", anchor, 20)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(similar) != 10 {
		t.Fatalf("expected all 10 candidates, got %d", len(similar))
	}

	// Same-make vehicles first (3 toyotas), then the model-only match (cr-v),
	// then everything else by recency.
	for i := 0; i < 3; i++ {
		if similar[i].Make != "toyota" {
			t.Errorf("position %d = %s %s, want a toyota", i, similar[i].Make, similar[i].Model)
		}
	}
	if similar[3].Model != "cr-v" {
		t.Errorf("position 3 = %s, want the cr-v model match", similar[3].Model)
	}
}

func TestSimilar_ExcludesAnchor(t *testing.T) {
	vehicles := mixedLot()
	repo := &fakeRepo{vehicles: vehicles}
	m := NewMatcher(repo, logging.Default())

	anchor := &vehicles[0]
	similar, err := m.Similar(context.Background(), "dealer-1", anchor, 20)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	for _, v := range similar {
		if v.ID == anchor.ID {
			t.Fatal("anchor vehicle must not appear in its own similar list")
		}
	}
}
