package query

import (
	"strings"

	"github.com/WTMsoft/PremScout/internal/player"
)

// DefaultMaxPrice is the upper bound of the price range, in tenths of a million.
const DefaultMaxPrice = 200

// FilterCriteria constrains a player list. Empty string fields mean no constraint.
// Prices are inclusive and expressed in tenths, like Record.NowCost.
type FilterCriteria struct {
	NamePattern string          `json:"name,omitempty"`
	Position    player.Position `json:"position,omitempty"`
	Team        string          `json:"team,omitempty"`
	MinPrice    float64         `json:"min_price"`
	MaxPrice    float64         `json:"max_price"`
}

func DefaultFilter() FilterCriteria {
	return FilterCriteria{MinPrice: 0, MaxPrice: DefaultMaxPrice}
}

// Match reports whether r satisfies every constraint in c.
func (c FilterCriteria) Match(r player.Record) bool {
	if c.NamePattern != "" {
		if r.Name == "" || !strings.Contains(strings.ToLower(r.Name), strings.ToLower(c.NamePattern)) {
			return false
		}
	}
	if c.Position != "" && r.Position != c.Position {
		return false
	}
	if c.Team != "" && r.Team != c.Team {
		return false
	}
	price := float64(r.NowCost)
	return price >= c.MinPrice && price <= c.MaxPrice
}

// Filter returns the matching records in their original order.
func Filter(records []player.Record, c FilterCriteria) []player.Record {
	out := make([]player.Record, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
