package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kv-base-hack/market-dashboard-api/common"
	"github.com/kv-base-hack/market-dashboard-api/detail"
	"github.com/kv-base-hack/market-dashboard-api/lib/coingecko"
	"github.com/kv-base-hack/market-dashboard-api/util"
	"go.uber.org/zap"
)

const wsWriteTimeout = 10 * time.Second

// writeProxyFailure answers 500 for any failure of the coin proxies; the
// upstream status is logged but not passed through.
func writeProxyFailure(c *gin.Context, log *zap.SugaredLogger, err error, fetchErr error) {
	var upstreamErr *coingecko.UpstreamError
	if errors.As(err, &upstreamErr) {
		log.Errorw("upstream returned error status", "status", upstreamErr.Status, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fetchErr.Error()})
		return
	}
	log.Errorw("error when call upstream", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrServer.Error()})
}

func (s *Server) proxyCoin(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	id := c.Param("id")
	body, err := s.upstream.CoinRaw(c.Request.Context(), id)
	if err != nil {
		writeProxyFailure(c, log.With("id", id), err, ErrFetchCoin)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) proxyMarketChart(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	id := c.Param("id")
	body, err := s.upstream.MarketChartRaw(c.Request.Context(), id, coingecko.ChartCurrency, coingecko.ChartDays)
	if err != nil {
		writeProxyFailure(c, log.With("id", id), err, ErrFetchChart)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// CoinResponse is a possibly partial detail page. MetaError and ChartError
// report which half failed without exposing the cause.
type CoinResponse struct {
	ID          string              `json:"id"`
	Coin        *common.CoinDetail  `json:"coin"`
	Chart       []common.ChartPoint `json:"chart"`
	InWatchlist bool                `json:"in_watchlist"`
	MetaError   bool                `json:"meta_error"`
	ChartError  bool                `json:"chart_error"`
}

func (s *Server) newCoinResponse(d detail.Detail) CoinResponse {
	return CoinResponse{
		ID:          d.ID,
		Coin:        d.Coin,
		Chart:       d.Chart,
		InWatchlist: s.watchlist.Load().Contains(d.ID),
		MetaError:   d.MetaErr != nil,
		ChartError:  d.ChartErr != nil,
	}
}

func (s *Server) getCoin(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	now := time.Now()
	defer func() {
		log.Debugw("Execution time", "getCoin", time.Since(now))
	}()

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidCoinID.Error()})
		return
	}
	d := s.assembler.Assemble(c.Request.Context(), id)
	c.JSON(http.StatusOK, s.newCoinResponse(d))
}

type coinSocketRequest struct {
	ID string `json:"id"`
}

// coinSocket is a live detail view. Each {"id": ...} message switches the
// coin; only the result for the latest id is written back.
func (s *Server) coinSocket(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorw("error when upgrade coin socket", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writeMu sync.Mutex
	write := func(v interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(v); err != nil {
			log.Errorw("error when write coin socket", "err", err)
		}
	}

	v := detail.NewView(log, s.assembler, func(d detail.Detail) {
		write(s.newCoinResponse(d))
	})
	defer v.Close()

	log.Debugw("coin socket opened")
	for {
		var req coinSocketRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debugw("coin socket read ended", "err", err)
			}
			break
		}
		id := strings.TrimSpace(req.ID)
		if id == "" {
			write(gin.H{"error": ErrInvalidCoinID.Error()})
			continue
		}
		v.Show(ctx, id)
	}
	log.Debugw("coin socket closed")
}
