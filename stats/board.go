package stats

import (
	"math"
	"sync"
	"time"

	"github.com/kv-base-hack/market-dashboard-api/tween"
)

const (
	TotalDuration   = 900 * time.Millisecond
	PercentDuration = 700 * time.Millisecond
)

// Frame is what the stat cards display at one instant.
type Frame struct {
	Ready bool `json:"ready"`

	TotalMarketCap     float64 `json:"total_market_cap"`
	TotalMarketCapText string  `json:"total_market_cap_text"`

	Gainer            string  `json:"gainer"`
	GainerPercent     float64 `json:"gainer_percent"`
	GainerPercentText string  `json:"gainer_percent_text"`

	Loser            string  `json:"loser"`
	LoserPercent     float64 `json:"loser_percent"`
	LoserPercentText string  `json:"loser_percent_text"`
}

// Board smooths successive Stats into displayed frames. Each figure animates
// from whatever it currently shows to the new target.
type Board struct {
	mu     sync.RWMutex
	latest Stats
	ready  bool
	total  *tween.Tween
	gainer *tween.Tween
	loser  *tween.Tween
}

func NewBoard() *Board {
	return &Board{
		total:  tween.New(0, TotalDuration),
		gainer: tween.New(0, PercentDuration),
		loser:  tween.New(0, PercentDuration),
	}
}

func (b *Board) Update(s Stats, now time.Time) {
	b.mu.Lock()
	b.latest = s
	b.ready = true
	b.mu.Unlock()

	b.total.SetTarget(s.TotalMarketCap, now)
	b.gainer.SetTarget(absPercent(s.TopGainer), now)
	b.loser.SetTarget(absPercent(s.TopLoser), now)
}

func (b *Board) Latest() (Stats, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.ready
}

func (b *Board) Animating(now time.Time) bool {
	return b.total.Animating(now) || b.gainer.Animating(now) || b.loser.Animating(now)
}

func (b *Board) Display(now time.Time) Frame {
	b.mu.RLock()
	latest, ready := b.latest, b.ready
	b.mu.RUnlock()

	total := b.total.Value(now)
	gainer := b.gainer.Value(now)
	loser := b.loser.Value(now)

	return Frame{
		Ready:              ready,
		TotalMarketCap:     total,
		TotalMarketCapText: FormatLargeNumber(math.Round(total)),
		Gainer:             MoverLabel(latest.TopGainer),
		GainerPercent:      gainer,
		GainerPercentText:  FormatPercent(gainer),
		Loser:              MoverLabel(latest.TopLoser),
		LoserPercent:       loser,
		LoserPercentText:   FormatPercent(loser),
	}
}

func absPercent(m *Mover) float64 {
	if m == nil {
		return 0
	}
	return math.Abs(m.PriceChangePercent24h)
}
