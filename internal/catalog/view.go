// Package catalog derives the browsable product view and imports the
// seed catalogue.
package catalog

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"storefront/internal/model"
)

// PageSize is the fixed number of products per catalogue page.
const PageSize = 12

// SortKey selects the catalogue ordering.
type SortKey string

const (
	SortPriority  SortKey = "priority"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
)

// ParseSortKey maps a request parameter to a SortKey, falling back to
// the default priority ordering for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc, SortNewest, SortOldest:
		return SortKey(s)
	default:
		return SortPriority
	}
}

// Page is one page of the filtered, sorted catalogue.
type Page struct {
	Items      []model.Product `json:"items"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	TotalItems int             `json:"totalItems"`
}

// View filters the catalogue by a case-insensitive substring query over
// name and description, sorts it by the given key, and returns the
// requested page. It is pure and cheap enough to re-run on every
// request. An out-of-range page is clamped into [1, totalPages].
func View(products []model.Product, query string, key SortKey, page int) Page {
	filtered := filter(products, query)
	sorted := sortProducts(filtered, key)

	totalPages := (len(sorted) + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	items := []model.Product{}
	if totalPages > 0 {
		start := (page - 1) * PageSize
		end := min(start+PageSize, len(sorted))
		items = sorted[start:end]
	}

	return Page{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		TotalItems: len(sorted),
	}
}

func filter(products []model.Product, query string) []model.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products
	}

	return lo.Filter(products, func(p model.Product, _ int) bool {
		return strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query)
	})
}

// sortProducts returns a sorted copy. The sort is stable so equal keys
// keep their incoming order beyond the documented tie-breaks.
func sortProducts(products []model.Product, key SortKey) []model.Product {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)

	var less func(a, b model.Product) bool
	switch key {
	case SortPriceLow:
		less = func(a, b model.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b model.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b model.Product) bool { return a.Name < b.Name }
	case SortNameDesc:
		less = func(a, b model.Product) bool { return a.Name > b.Name }
	case SortNewest:
		less = func(a, b model.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b model.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		// priority ascending, newest first within equal priority
		less = func(a, b model.Product) bool {
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}
