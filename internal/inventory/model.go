// Package inventory matches dealer vehicle stock against free-text customer
// messages.
package inventory

import "time"

// StatusAvailable is the only status eligible for matching.
const StatusAvailable = "available"

// Vehicle is one unit of dealer stock.
type Vehicle struct {
	ID            string    `json:"id"`
	DealerID      string    `json:"dealer_id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Trim          string    `json:"trim,omitempty"`
	Price         float64   `json:"price,omitempty"`
	Mileage       int       `json:"mileage,omitempty"`
	Status        string    `json:"status"`
	ExteriorColor string    `json:"exterior_color,omitempty"`
	InteriorColor string    `json:"interior_color,omitempty"`
	Features      []string  `json:"features,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Criteria are the filters extracted from a customer message. Zero values
// mean "no constraint". Filters are applied conjunctively.
type Criteria struct {
	Make     string
	Model    string
	MinPrice float64
	MaxPrice float64
}

// IsEmpty reports whether no filter was extracted at all.
func (c Criteria) IsEmpty() bool {
	return c.Make == "" && c.Model == "" && c.MinPrice == 0 && c.MaxPrice == 0
}

// MatchResult pairs the filtered items with the unfiltered available count so
// callers can report "0 of N match, but N are available".
type MatchResult struct {
	Items          []Vehicle
	TotalAvailable int
	Criteria       Criteria
}
