package accommodations

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidNights means the requested nights count has no pricing tier.
var ErrInvalidNights = errors.New("Invalid night selection")

// PricingConfig maps a nights selection to a fixed price in rupees and the
// check-in days (day of month, festival week in Feb) allowed for it.
// Prices are always resolved here, never trusted from the client.
//
// The valid start days are irregular business policy from the festival
// calendar, so they are configuration, not date arithmetic.
type PricingConfig struct {
	Prices      map[int]int   // nights -> price in rupees
	ValidStarts map[int][]int // nights -> permitted check-in days of month
}

// DefaultPricing is the Synapse '26 accommodation policy:
// 2 nights 2300 (check-in 27 or 28), 3 nights 2500 (27), 4 nights 2800 (26).
func DefaultPricing() PricingConfig {
	return PricingConfig{
		Prices: map[int]int{
			2: 2300,
			3: 2500,
			4: 2800,
		},
		ValidStarts: map[int][]int{
			2: {27, 28},
			3: {27},
			4: {26},
		},
	}
}

// Price returns the fixed rupee price for a nights tier.
func (c PricingConfig) Price(nights int) (int, error) {
	price, ok := c.Prices[nights]
	if !ok || price <= 0 {
		return 0, ErrInvalidNights
	}
	return price, nil
}

// ValidateStart checks a proposed check-in day against the permitted set for
// the tier. Day-of-month only: the festival window sits inside a single
// known month, matching how the policy is published.
func (c PricingConfig) ValidateStart(nights, startDay int) error {
	allowed := c.ValidStarts[nights]
	if len(allowed) == 0 {
		return ErrInvalidNights
	}
	for _, d := range allowed {
		if d == startDay {
			return nil
		}
	}
	return fmt.Errorf("Invalid start date for %d nights. Allowed starts: %s Feb", nights, joinDays(allowed))
}

func joinDays(days []int) string {
	sorted := make([]int, len(days))
	copy(sorted, days)
	sort.Ints(sorted)

	parts := make([]string, 0, len(sorted))
	for _, d := range sorted {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ", ")
}
