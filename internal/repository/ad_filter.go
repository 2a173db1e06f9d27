package repository

import (
	"slices"
	"strings"

	"github.com/baharkarakas/classifieds-backend/internal/models"
)

// AdFilter narrows an ad listing. Zero-valued fields do not restrict.
type AdFilter struct {
	// CategoryIDs matches ads in any of the categories.
	CategoryIDs []int64
	// Text matches a case-insensitive substring of the description.
	Text string
	// Location matches ads whose author has a location whose name contains
	// it, case-insensitively.
	Location string
	// PriceFrom and PriceTo only apply together.
	PriceFrom *int64
	PriceTo   *int64
	// PriceToInclusive closes the range at PriceTo. The default half-open
	// range [PriceFrom, PriceTo) is the historical behaviour.
	PriceToInclusive bool

	Limit  int
	Offset int
}

// PriceRange returns the bounds to apply, if any. The range is [lo, hi]
// when inclusive is set and [lo, hi) otherwise.
func (f AdFilter) PriceRange() (lo, hi int64, inclusive, ok bool) {
	if f.PriceFrom == nil || f.PriceTo == nil {
		return 0, 0, false, false
	}
	return *f.PriceFrom, *f.PriceTo, f.PriceToInclusive, true
}

// inPriceRange reports whether price lies within the filter's price bounds.
func (f AdFilter) inPriceRange(price int64) bool {
	lo, hi, inclusive, ok := f.PriceRange()
	if !ok {
		return true
	}
	if price < lo {
		return false
	}
	if inclusive {
		return price <= hi
	}
	return price < hi
}

// Match reports whether a passes the filter. authorLocations are the
// location names of a's author.
func (f AdFilter) Match(a models.Ad, authorLocations []string) bool {
	if len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, a.CategoryID) {
		return false
	}
	if f.Text != "" && !ContainsFold(a.Description, f.Text) {
		return false
	}
	if f.Location != "" && !slices.ContainsFunc(authorLocations, func(name string) bool {
		return ContainsFold(name, f.Location)
	}) {
		return false
	}
	if !f.inPriceRange(a.Price) {
		return false
	}
	return true
}

// ContainsFold is a case-insensitive strings.Contains.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
