package common

import (
	"time"
)

// PlaceholderImage is served in place of a missing coin image.
const PlaceholderImage = "/placeholder.png"

// MarketEntry is one coin row of a market snapshot.
type MarketEntry struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Symbol                string    `json:"symbol"`
	Image                 string    `json:"image"`
	CurrentPrice          float64   `json:"current_price"`
	MarketCap             float64   `json:"market_cap"`
	PriceChangePercent24h float64   `json:"price_change_percentage_24h"`
	Sparkline7d           []float64 `json:"sparkline_7d"`
}

// Snapshot is an ordered sequence of entries, descending by market cap as
// returned upstream. It is always replaced as a whole.
type Snapshot []MarketEntry

type CoinDetail struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Symbol                string  `json:"symbol"`
	Image                 string  `json:"image"`
	CurrentPrice          float64 `json:"current_price"`
	MarketCap             float64 `json:"market_cap"`
	PriceChangePercent24h float64 `json:"price_change_percentage_24h"`
	High24h               float64 `json:"high_24h"`
	Low24h                float64 `json:"low_24h"`
	CirculatingSupply     float64 `json:"circulating_supply"`
	// DescriptionHTML is sanitized before it leaves the detail assembler.
	DescriptionHTML string `json:"description_html"`
}

type ChartPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
	Price     float64   `json:"price"`
}

// FilterState is per-view and never persisted.
type FilterState struct {
	SearchText string   `json:"search"`
	Category   Category `json:"category"`
	Page       int      `json:"page"`
}
