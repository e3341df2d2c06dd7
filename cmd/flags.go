package main

import (
	"github.com/kv-base-hack/market-dashboard-api/internal/server"
	"github.com/kv-base-hack/market-dashboard-api/lib/coingecko"
	"github.com/kv-base-hack/market-dashboard-api/worker"
	"github.com/urfave/cli/v2"
)

const (
	coingeckoURLFlag      = "coingecko-url"
	coingeckoTimeoutFlag  = "coingecko-timeout"
	marketsDurationFlag   = "markets-duration"
	marketsRevalidateFlag = "markets-revalidate"
	watchlistBackendFlag  = "watchlist-backend"
	boltPathFlag          = "bolt-path"
)

const (
	backendMemory   = "memory"
	backendBolt     = "bolt"
	backendRedis    = "redis"
	backendPostgres = "postgres"
)

// NewFlags creates new cli flags.
func NewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    coingeckoURLFlag,
			Value:   coingecko.DefaultBaseURL,
			Usage:   "base url of the coingecko api",
			EnvVars: []string{"COINGECKO_URL"},
		},
		&cli.DurationFlag{
			Name:    coingeckoTimeoutFlag,
			Value:   coingecko.DefaultTimeout,
			Usage:   "timeout of one coingecko request",
			EnvVars: []string{"COINGECKO_TIMEOUT"},
		},
		&cli.DurationFlag{
			Name:    marketsDurationFlag,
			Value:   worker.DefaultMarketsInterval,
			Usage:   "duration to refresh the market snapshot",
			EnvVars: []string{"MARKETS_DURATION"},
		},
		&cli.DurationFlag{
			Name:    marketsRevalidateFlag,
			Value:   server.DefaultMarketsRevalidate,
			Usage:   "how long a proxied markets response is reused",
			EnvVars: []string{"MARKETS_REVALIDATE"},
		},
		&cli.StringFlag{
			Name:    watchlistBackendFlag,
			Value:   backendBolt,
			Usage:   "watchlist storage: memory, bolt, redis or postgres",
			EnvVars: []string{"WATCHLIST_BACKEND"},
		},
		&cli.StringFlag{
			Name:    boltPathFlag,
			Value:   "watchlist.db",
			Usage:   "bolt file used by the bolt watchlist backend",
			EnvVars: []string{"BOLT_PATH"},
		},
	}
}
