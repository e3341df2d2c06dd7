package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kv-base-hack/market-dashboard-api/common"
	"github.com/kv-base-hack/market-dashboard-api/lib/coingecko"
	"github.com/kv-base-hack/market-dashboard-api/stats"
	"github.com/kv-base-hack/market-dashboard-api/tween"
	"github.com/kv-base-hack/market-dashboard-api/util"
	"github.com/kv-base-hack/market-dashboard-api/view"
	"go.uber.org/zap"
)

// writeUpstreamError maps a failed markets call to the proxy response. An
// upstream status is passed through; anything else is a 500.
func writeUpstreamError(c *gin.Context, log *zap.SugaredLogger, err error, fetchErr error) {
	var upstreamErr *coingecko.UpstreamError
	if errors.As(err, &upstreamErr) {
		log.Errorw("upstream returned error status", "status", upstreamErr.Status, "err", err)
		c.JSON(upstreamErr.Status, gin.H{"error": fetchErr.Error()})
		return
	}
	log.Errorw("error when call upstream", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrServer.Error()})
}

func (s *Server) proxyMarkets(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	now := time.Now()
	defer func() {
		log.Debugw("Execution time", "proxyMarkets", time.Since(now))
	}()

	c.Header("Cache-Control", "public, max-age="+formatSeconds(s.marketsRevalidate))
	if body, ok := s.storage.GetMarketsBody(s.now(), s.marketsRevalidate); ok {
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	body, err := s.upstream.MarketsRaw(c.Request.Context())
	if err != nil {
		writeUpstreamError(c, log, err, ErrFetchMarkets)
		return
	}
	s.storage.SetMarketsBody(body, s.now())
	c.Data(http.StatusOK, "application/json", body)
}

type ListMarketsRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Step     string `form:"step" binding:"omitempty,oneof=next prev"`
}

type MarketRow struct {
	common.MarketEntry
	Favorite bool `json:"favorite"`
}

func (s *Server) listMarkets(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	now := time.Now()
	defer func() {
		log.Debugw("Execution time", "listMarkets", time.Since(now))
	}()

	var request ListMarketsRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		log.Errorw("invalid request when list markets", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidListMarkets.Error()})
		return
	}
	category, err := common.CategoryString(request.Category)
	if err != nil {
		log.Errorw("invalid category when list markets", "category", request.Category, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidCategory.Error()})
		return
	}

	// Requests carry the full filter state, so the client resets the page when
	// it changes search or category; the requested page then wins here and
	// the view only clamps and steps it.
	lv := view.NewListView()
	lv.SetSnapshot(s.snapshot())
	lv.SetCategory(category)
	lv.SetSearch(request.Search)
	page := lv.SetPage(request.Page)
	switch request.Step {
	case "next":
		page = lv.Next()
	case "prev":
		page = lv.Prev()
	}

	favorites := s.watchlist.Load()
	rows := make([]MarketRow, 0, len(page.Items))
	for _, e := range page.Items {
		rows = append(rows, MarketRow{MarketEntry: e, Favorite: favorites.Contains(e.ID)})
	}

	state := lv.State()
	c.JSON(http.StatusOK, gin.H{
		"items":          rows,
		"current_page":   page.CurrentPage,
		"total_pages":    page.TotalPages,
		"total":          page.TotalItems,
		"search":         state.SearchText,
		"category":       state.Category,
		"category_label": state.Category.Label(),
	})
}

type StatsResponse struct {
	Stats              stats.Stats `json:"stats"`
	TotalMarketCapText string      `json:"total_market_cap_text"`
	Gainer             string      `json:"gainer"`
	GainerPercentText  string      `json:"gainer_percent_text"`
	Loser              string      `json:"loser"`
	LoserPercentText   string      `json:"loser_percent_text"`
}

func newStatsResponse(st stats.Stats) StatsResponse {
	res := StatsResponse{
		Stats:              st,
		TotalMarketCapText: stats.FormatLargeNumber(st.TotalMarketCap),
		Gainer:             stats.MoverLabel(st.TopGainer),
		Loser:              stats.MoverLabel(st.TopLoser),
	}
	if st.TopGainer != nil {
		res.GainerPercentText = stats.FormatPercent(st.TopGainer.PriceChangePercent24h)
	}
	if st.TopLoser != nil {
		res.LoserPercentText = stats.FormatPercent(st.TopLoser.PriceChangePercent24h)
	}
	return res
}

func (s *Server) getStats(c *gin.Context) {
	snapshot, at := s.storage.GetSnapshot()
	if at.IsZero() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrNoSnapshot.Error()})
		return
	}
	c.JSON(http.StatusOK, newStatsResponse(stats.Compute(snapshot)))
}

// streamStats pushes animated stat frames over SSE. Frames are sent at the
// driver rate only while a value is moving; between snapshots it is idle.
func (s *Server) streamStats(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	if _, ok := c.Writer.(http.Flusher); !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrStreamUnsupported.Error()})
		return
	}

	updates, unsubscribe := s.storage.Subscribe()
	defer unsubscribe()

	board := stats.NewBoard()
	driver := tween.NewDriver(tween.FrameInterval)
	defer driver.Stop()

	ctx := c.Request.Context()
	if snapshot, at := s.storage.GetSnapshot(); !at.IsZero() {
		board.Update(stats.Compute(snapshot), time.Now())
		driver.Start()
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("stats", board.Display(time.Now()))
	c.Writer.Flush()

	log.Debugw("stats stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snapshot := <-updates:
			board.Update(stats.Compute(snapshot), time.Now())
			driver.Start()
			return true
		case now := <-driver.C():
			c.SSEvent("stats", board.Display(now))
			if !board.Animating(now) {
				driver.Stop()
			}
			return true
		}
	})
	log.Debugw("stats stream closed")
}

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(d / time.Second))
}
