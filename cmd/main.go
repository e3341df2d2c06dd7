package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kv-base-hack/market-dashboard-api/internal/httputil"
	"github.com/kv-base-hack/market-dashboard-api/internal/logger"
	"github.com/kv-base-hack/market-dashboard-api/internal/server"
	"github.com/kv-base-hack/market-dashboard-api/lib/coingecko"
	"github.com/kv-base-hack/market-dashboard-api/storage"
	"github.com/kv-base-hack/market-dashboard-api/storage/db"
	"github.com/kv-base-hack/market-dashboard-api/watchlist"
	"github.com/kv-base-hack/market-dashboard-api/worker"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	app := cli.NewApp()
	app.Name = "market-dashboard-api"
	app.Action = run
	app.Flags = append(app.Flags, logger.NewLoggerFlags()...)
	app.Flags = append(app.Flags, NewPostgreSQLFlags()...)
	app.Flags = append(app.Flags, NewRedisFlags()...)
	app.Flags = append(app.Flags, NewFlags()...)
	app.Flags = append(app.Flags, httputil.NewHTTPCliFlags(httputil.Port)...)

	sort.Sort(cli.FlagsByName(app.Flags))

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}
}

func run(c *cli.Context) error {
	logger, flusher, err := logger.NewLogger(c)
	if err != nil {
		return err
	}
	defer flusher()

	zap.ReplaceGlobals(logger)
	log := logger.Sugar()
	log.Debugw("Starting application...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := newWatchlistKV(c)
	if err != nil {
		log.Errorw("error when open watchlist storage", "backend", c.String(watchlistBackendFlag), "err", err)
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Errorw("error when close watchlist storage", "err", err)
		}
	}()
	store := watchlist.NewStore(log, kv)

	snapshots := storage.NewStorage(log)
	cg := coingecko.NewCoinGecko(log, c.String(coingeckoURLFlag), c.Duration(coingeckoTimeoutFlag))

	getMarkets := worker.NewGetMarkets(log, cg, c.Duration(marketsDurationFlag), snapshots)
	go getMarkets.Run(ctx)

	host := httputil.NewHTTPAddressFromContext(c)
	server := server.NewServer(host, log, snapshots, cg, store, c.Duration(marketsRevalidateFlag))
	return server.Run(ctx)
}

func newWatchlistKV(c *cli.Context) (db.KV, error) {
	switch backend := c.String(watchlistBackendFlag); backend {
	case backendMemory:
		return db.NewMemory(), nil
	case backendBolt:
		return db.NewBolt(c.String(boltPathFlag))
	case backendRedis:
		return db.NewRedisFromAddr(redisAddr(c), c.String(redisPasswordFlag), c.Int(redisDBFlag), c.String(redisPrefixFlag))
	case backendPostgres:
		database, err := NewDBFromContext(c)
		if err != nil {
			return nil, err
		}
		pg := db.NewPostgres(database)
		if err := pg.InitSchema(); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("init postgres schema: %w", err)
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown watchlist backend %q", backend)
	}
}
