package worker

import (
	"context"
	"time"

	"github.com/kv-base-hack/market-dashboard-api/common"
	"github.com/kv-base-hack/market-dashboard-api/storage"
	"go.uber.org/zap"
)

const DefaultMarketsInterval = 60 * time.Second

type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (common.Snapshot, error)
}

// GetMarkets keeps storage fed with the latest market snapshot. A failed fetch
// keeps the previous snapshot.
type GetMarkets struct {
	log      *zap.SugaredLogger
	source   SnapshotSource
	duration time.Duration
	storage  *storage.Storage
}

func NewGetMarkets(log *zap.SugaredLogger, source SnapshotSource, duration time.Duration, storage *storage.Storage) *GetMarkets {
	if duration <= 0 {
		duration = DefaultMarketsInterval
	}
	return &GetMarkets{
		log:      log.With("worker", "getMarkets"),
		source:   source,
		duration: duration,
		storage:  storage,
	}
}

func (g *GetMarkets) Init(ctx context.Context) error {
	return g.process(ctx)
}

// Run polls until ctx is cancelled. The first fetch happens immediately.
func (g *GetMarkets) Run(ctx context.Context) {
	ticker := time.NewTicker(g.duration)
	defer ticker.Stop()
	for {
		_ = g.process(ctx)
		select {
		case <-ctx.Done():
			g.log.Infow("stop markets worker")
			return
		case <-ticker.C:
		}
	}
}

func (g *GetMarkets) process(ctx context.Context) error {
	start := time.Now()
	snapshot, err := g.source.FetchSnapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			g.log.Errorw("error when fetch market snapshot", "err", err)
		}
		return err
	}
	g.storage.SetSnapshot(snapshot, time.Now())
	g.log.Debugw("fetched market snapshot", "entries", len(snapshot), "executed", time.Since(start).String())
	return nil
}
