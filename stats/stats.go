// Package stats computes the headline market figures shown above the list.
package stats

import (
	"math"
	"sort"

	"github.com/kv-base-hack/market-dashboard-api/common"
)

// TopN is the number of leading entries summed into the total market cap.
const TopN = 10

type Mover struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Symbol                string  `json:"symbol"`
	PriceChangePercent24h float64 `json:"price_change_percentage_24h"`
}

type Stats struct {
	TotalMarketCap float64 `json:"total_market_cap"`
	TopGainer      *Mover  `json:"top_gainer"`
	TopLoser       *Mover  `json:"top_loser"`
}

// Compute assumes the snapshot is already ordered by market cap descending and
// does not re-sort it before taking the top entries.
func Compute(snapshot common.Snapshot) Stats {
	normalized := make([]common.MarketEntry, 0, len(snapshot))
	for _, e := range snapshot {
		normalized = append(normalized, normalize(e))
	}

	var res Stats
	top := normalized
	if len(top) > TopN {
		top = top[:TopN]
	}
	for _, e := range top {
		res.TotalMarketCap += e.MarketCap
	}

	if len(normalized) == 0 {
		return res
	}

	byChange := make([]common.MarketEntry, len(normalized))
	copy(byChange, normalized)
	sort.SliceStable(byChange, func(i, j int) bool {
		return byChange[i].PriceChangePercent24h > byChange[j].PriceChangePercent24h
	})

	gainer := toMover(byChange[0])
	res.TopGainer = &gainer
	if len(byChange) > 1 {
		loser := toMover(byChange[len(byChange)-1])
		res.TopLoser = &loser
	}
	return res
}

func toMover(e common.MarketEntry) Mover {
	return Mover{
		ID:                    e.ID,
		Name:                  e.Name,
		Symbol:                e.Symbol,
		PriceChangePercent24h: e.PriceChangePercent24h,
	}
}

func normalize(e common.MarketEntry) common.MarketEntry {
	e.CurrentPrice = finiteOrZero(e.CurrentPrice)
	e.MarketCap = finiteOrZero(e.MarketCap)
	e.PriceChangePercent24h = finiteOrZero(e.PriceChangePercent24h)
	return e
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
