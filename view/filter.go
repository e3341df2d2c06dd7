// Package view derives the searched, filtered and paginated list shown on the
// market page.
package view

import (
	"strings"

	"github.com/kv-base-hack/market-dashboard-api/common"
)

const (
	PageSize = 20
	// MarketCapThreshold is the minimum market cap kept by CategoryMarketCap.
	MarketCapThreshold = 1_000_000_000
)

type Page struct {
	Items       []common.MarketEntry `json:"items"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
	TotalItems  int                  `json:"total_items"`
}

// Apply runs text filter, category filter and pagination in that order.
// It only reads its inputs.
func Apply(snapshot common.Snapshot, state common.FilterState) Page {
	filtered := Filter(snapshot, state.SearchText, state.Category)
	total := TotalPages(len(filtered))
	page := ClampPage(state.Page, total)

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	items := make([]common.MarketEntry, 0, end-start)
	items = append(items, filtered[start:end]...)

	return Page{
		Items:       items,
		CurrentPage: page,
		TotalPages:  total,
		TotalItems:  len(filtered),
	}
}

// Filter keeps snapshot order. The search text is matched as typed, surrounding
// spaces included.
func Filter(snapshot common.Snapshot, search string, category common.Category) []common.MarketEntry {
	search = strings.ToLower(search)
	res := make([]common.MarketEntry, 0, len(snapshot))
	for _, e := range snapshot {
		if !matchSearch(e, search) || !matchCategory(e, category) {
			continue
		}
		res = append(res, e)
	}
	return res
}

func matchSearch(e common.MarketEntry, search string) bool {
	return search == "" ||
		strings.Contains(strings.ToLower(e.Name), search) ||
		strings.Contains(strings.ToLower(e.Symbol), search)
}

func matchCategory(e common.MarketEntry, category common.Category) bool {
	switch category {
	case common.CategoryTopGainers:
		return e.PriceChangePercent24h > 0
	case common.CategoryTopLosers:
		return e.PriceChangePercent24h < 0
	case common.CategoryMarketCap:
		return e.MarketCap > MarketCapThreshold
	default:
		return true
	}
}

// TotalPages is never below 1, even for an empty result.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
