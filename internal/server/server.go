package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kv-base-hack/market-dashboard-api/common"
	"github.com/kv-base-hack/market-dashboard-api/detail"
	"github.com/kv-base-hack/market-dashboard-api/storage"
	"github.com/kv-base-hack/market-dashboard-api/watchlist"
	"go.uber.org/zap"
)

const (
	DefaultMarketsRevalidate = 60 * time.Second
	shutdownTimeout          = 5 * time.Second
)

// Upstream is the market data provider behind both the pass-through proxy and
// the dashboard routes.
type Upstream interface {
	detail.Source
	MarketsRaw(ctx context.Context) ([]byte, error)
	CoinRaw(ctx context.Context, id string) ([]byte, error)
	MarketChartRaw(ctx context.Context, id, currency string, days int) ([]byte, error)
}

// Server to serve the service.
type Server struct {
	s         *gin.Engine
	bindAddr  string
	log       *zap.SugaredLogger
	storage   *storage.Storage
	upstream  Upstream
	watchlist *watchlist.Store
	assembler *detail.Assembler
	upgrader  websocket.Upgrader

	marketsRevalidate time.Duration
	now               func() time.Time
}

// NewServer returns a new server.
func NewServer(bindAddr string, log *zap.SugaredLogger, storage *storage.Storage, upstream Upstream,
	store *watchlist.Store, marketsRevalidate time.Duration) *Server {
	engine := gin.New()

	engine.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	engine.Use(cors.New(config))

	if marketsRevalidate <= 0 {
		marketsRevalidate = DefaultMarketsRevalidate
	}

	s := &Server{
		s:         engine,
		log:       log,
		bindAddr:  bindAddr,
		storage:   storage,
		upstream:  upstream,
		watchlist: store,
		assembler: detail.NewAssembler(log, upstream),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		marketsRevalidate: marketsRevalidate,
		now:               time.Now,
	}

	s.register()

	return s
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.bindAddr,
		Handler:           s.s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("run in ", "s.bindAddr", s.bindAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Infow("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

func (s *Server) register() {
	s.s.GET("/healthz", s.health)

	api := s.s.Group("/api")
	api.GET("/markets", s.proxyMarkets)
	api.GET("/coin/:id", s.proxyCoin)
	api.GET("/coin/:id/market_chart", s.proxyMarketChart)

	v1 := s.s.Group("/v1")
	v1.GET("/markets", s.listMarkets)
	v1.GET("/markets/stats", s.getStats)
	v1.GET("/stream/stats", s.streamStats)

	v1.GET("/coin/:id", s.getCoin)
	v1.GET("/ws/coin", s.coinSocket)

	wl := v1.Group("/watchlist")
	wl.GET("", s.getWatchlist)
	wl.DELETE("", s.clearWatchlist)
	wl.POST("/:id/toggle", s.toggleWatchlist)
	wl.PUT("/:id", s.addWatchlist)
	wl.DELETE("/:id", s.removeWatchlist)
}

func (s *Server) health(c *gin.Context) {
	snapshot, at := s.storage.GetSnapshot()
	res := gin.H{
		"status":  "ok",
		"entries": len(snapshot),
	}
	if !at.IsZero() {
		res["snapshot_age"] = s.now().Sub(at).Round(time.Second).String()
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) snapshot() common.Snapshot {
	snapshot, _ := s.storage.GetSnapshot()
	return snapshot
}
