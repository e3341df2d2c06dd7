// Package detail assembles the single-coin page from coin metadata and its
// 7-day price series.
package detail

import (
	"context"

	"github.com/kv-base-hack/market-dashboard-api/common"
	"github.com/kv-base-hack/market-dashboard-api/lib/coingecko"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Source interface {
	FetchCoin(ctx context.Context, id string) (coingecko.Coin, error)
	FetchMarketChart(ctx context.Context, id, currency string, days int) (coingecko.MarketChart, error)
}

// Detail may be partial. Coin is nil when the metadata fetch failed and Chart
// is empty when the series fetch failed.
type Detail struct {
	ID       string              `json:"id"`
	Coin     *common.CoinDetail  `json:"coin"`
	Chart    []common.ChartPoint `json:"chart"`
	MetaErr  error               `json:"-"`
	ChartErr error               `json:"-"`
}

func (d Detail) Complete() bool {
	return d.MetaErr == nil && d.ChartErr == nil
}

type Assembler struct {
	log    *zap.SugaredLogger
	source Source
}

func NewAssembler(log *zap.SugaredLogger, source Source) *Assembler {
	return &Assembler{
		log:    log.With("component", "detail"),
		source: source,
	}
}

// Assemble fetches metadata and chart concurrently. A failure of one does not
// cancel the other; errors are kept on the result and logged unless ctx was
// cancelled.
func (a *Assembler) Assemble(ctx context.Context, id string) Detail {
	res := Detail{ID: id, Chart: []common.ChartPoint{}}

	var g errgroup.Group
	g.Go(func() error {
		coin, err := a.source.FetchCoin(ctx, id)
		if err != nil {
			if ctx.Err() == nil {
				a.log.Errorw("error when fetch coin details", "id", id, "err", err)
			}
			res.MetaErr = err
			return nil
		}
		d := coin.Convert(coingecko.ChartCurrency)
		d.DescriptionHTML = SanitizeHTML(d.DescriptionHTML)
		res.Coin = &d
		return nil
	})
	g.Go(func() error {
		chart, err := a.source.FetchMarketChart(ctx, id, coingecko.ChartCurrency, coingecko.ChartDays)
		if err != nil {
			if ctx.Err() == nil {
				a.log.Errorw("error when fetch chart data", "id", id, "err", err)
			}
			res.ChartErr = err
			return nil
		}
		res.Chart = chart.Points()
		return nil
	})
	_ = g.Wait()

	return res
}
