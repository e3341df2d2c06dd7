package coingecko

import (
	"time"

	"github.com/kv-base-hack/market-dashboard-api/common"
)

// MarketCoin is one element of the coins/markets response. Numeric fields are
// pointers because upstream sends null for unknown values.
type MarketCoin struct {
	ID                       string     `json:"id"`
	Symbol                   string     `json:"symbol"`
	Name                     string     `json:"name"`
	Image                    string     `json:"image"`
	CurrentPrice             *float64   `json:"current_price"`
	MarketCap                *float64   `json:"market_cap"`
	PriceChangePercentage24h *float64   `json:"price_change_percentage_24h"`
	SparklineIn7d            *Sparkline `json:"sparkline_in_7d"`
}

type Sparkline struct {
	Price []float64 `json:"price"`
}

func (m MarketCoin) Convert() common.MarketEntry {
	e := common.MarketEntry{
		ID:                    m.ID,
		Name:                  m.Name,
		Symbol:                m.Symbol,
		Image:                 m.Image,
		CurrentPrice:          valueOrZero(m.CurrentPrice),
		MarketCap:             valueOrZero(m.MarketCap),
		PriceChangePercent24h: valueOrZero(m.PriceChangePercentage24h),
		Sparkline7d:           []float64{},
	}
	if e.Image == "" {
		e.Image = common.PlaceholderImage
	}
	if m.SparklineIn7d != nil && m.SparklineIn7d.Price != nil {
		e.Sparkline7d = m.SparklineIn7d.Price
	}
	return e
}

// Coin is the subset of the coins/{id} response the dashboard reads.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  *struct {
		Thumb string `json:"thumb"`
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"image"`
	Description *struct {
		En string `json:"en"`
	} `json:"description"`
	MarketData *CoinMarketData `json:"market_data"`
}

type CoinMarketData struct {
	CurrentPrice             map[string]*float64 `json:"current_price"`
	MarketCap                map[string]*float64 `json:"market_cap"`
	High24h                  map[string]*float64 `json:"high_24h"`
	Low24h                   map[string]*float64 `json:"low_24h"`
	PriceChangePercentage24h *float64            `json:"price_change_percentage_24h"`
	CirculatingSupply        *float64            `json:"circulating_supply"`
}

// Convert maps the coin into a detail record priced in currency. The
// description is copied verbatim and must be sanitized by the caller.
func (c Coin) Convert(currency string) common.CoinDetail {
	d := common.CoinDetail{
		ID:     c.ID,
		Name:   c.Name,
		Symbol: c.Symbol,
		Image:  common.PlaceholderImage,
	}
	if c.Image != nil && c.Image.Large != "" {
		d.Image = c.Image.Large
	}
	if c.Description != nil {
		d.DescriptionHTML = c.Description.En
	}
	if md := c.MarketData; md != nil {
		d.CurrentPrice = valueOrZero(md.CurrentPrice[currency])
		d.MarketCap = valueOrZero(md.MarketCap[currency])
		d.High24h = valueOrZero(md.High24h[currency])
		d.Low24h = valueOrZero(md.Low24h[currency])
		d.PriceChangePercent24h = valueOrZero(md.PriceChangePercentage24h)
		d.CirculatingSupply = valueOrZero(md.CirculatingSupply)
	}
	return d
}

// MarketChart is the coins/{id}/market_chart response; each price is an
// [epochMillis, price] pair.
type MarketChart struct {
	Prices [][]float64 `json:"prices"`
}

const chartDateLayout = "2006-01-02"

// Points converts the raw price pairs, keeping upstream order and skipping
// malformed pairs.
func (m MarketChart) Points() []common.ChartPoint {
	points := make([]common.ChartPoint, 0, len(m.Prices))
	for _, p := range m.Prices {
		if len(p) < 2 {
			continue
		}
		ts := time.UnixMilli(int64(p[0])).UTC()
		points = append(points, common.ChartPoint{
			Timestamp: ts,
			Date:      ts.Format(chartDateLayout),
			Price:     p[1],
		})
	}
	return points
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
