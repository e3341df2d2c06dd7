package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kv-base-hack/market-dashboard-api/common"
	"github.com/kv-base-hack/market-dashboard-api/lib/coingecko"
	"github.com/kv-base-hack/market-dashboard-api/storage"
	"github.com/kv-base-hack/market-dashboard-api/storage/db"
	"github.com/kv-base-hack/market-dashboard-api/watchlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUpstream struct {
	marketsCalls atomic.Int32
	marketsErr   error
	coinErr      error
	chartErr     error
}

func (f *fakeUpstream) MarketsRaw(context.Context) ([]byte, error) {
	f.marketsCalls.Add(1)
	if f.marketsErr != nil {
		return nil, f.marketsErr
	}
	return []byte(`[{"id":"bitcoin"}]`), nil
}

func (f *fakeUpstream) CoinRaw(_ context.Context, id string) ([]byte, error) {
	if f.coinErr != nil {
		return nil, f.coinErr
	}
	return []byte(`{"id":"` + id + `"}`), nil
}

func (f *fakeUpstream) MarketChartRaw(_ context.Context, id, currency string, days int) ([]byte, error) {
	if f.chartErr != nil {
		return nil, f.chartErr
	}
	return []byte(`{"prices":[[1700000000000,1]]}`), nil
}

func (f *fakeUpstream) FetchCoin(_ context.Context, id string) (coingecko.Coin, error) {
	if f.coinErr != nil {
		return coingecko.Coin{}, f.coinErr
	}
	return coingecko.Coin{ID: id, Name: strings.ToUpper(id)}, nil
}

func (f *fakeUpstream) FetchMarketChart(context.Context, string, string, int) (coingecko.MarketChart, error) {
	return coingecko.MarketChart{Prices: [][]float64{{1700000000000, 1}}}, nil
}

func testSnapshot(n int) common.Snapshot {
	snap := make(common.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		id := "coin" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		snap = append(snap, common.MarketEntry{
			ID:                    id,
			Name:                  "Coin " + id,
			Symbol:                id,
			MarketCap:             float64(n-i) * 1e9,
			PriceChangePercent24h: float64(i) - 5,
		})
	}
	return snap
}

type testEnv struct {
	server   *Server
	storage  *storage.Storage
	store    *watchlist.Store
	upstream *fakeUpstream
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop().Sugar()
	st := storage.NewStorage(log)
	store := watchlist.NewStore(log, db.NewMemory())
	up := &fakeUpstream{}
	return &testEnv{
		server:   NewServer(":0", log, st, up, store, time.Minute),
		storage:  st,
		store:    store,
		upstream: up,
	}
}

func (e *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestProxyMarketsCaches(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/markets")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":"bitcoin"}]`, w.Body.String())
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	w = env.do(t, http.MethodGet, "/api/markets")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), env.upstream.marketsCalls.Load())
}

func TestProxyMarketsErrors(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.marketsErr = &coingecko.UpstreamError{Status: http.StatusTooManyRequests}

	w := env.do(t, http.MethodGet, "/api/markets")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch markets"}`, w.Body.String())

	env.upstream.marketsErr = &coingecko.NetworkError{Err: errors.New("dial")}
	w = env.do(t, http.MethodGet, "/api/markets")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
}

func TestProxyCoin(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/coin/bitcoin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"bitcoin"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/coin/bitcoin/market_chart")
	require.Equal(t, http.StatusOK, w.Code)

	env.upstream.coinErr = &coingecko.UpstreamError{Status: http.StatusNotFound}
	w = env.do(t, http.MethodGet, "/api/coin/nope")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch coin"}`, w.Body.String())

	env.upstream.coinErr = &coingecko.NetworkError{Err: errors.New("dial")}
	w = env.do(t, http.MethodGet, "/api/coin/nope")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())

	env.upstream.chartErr = &coingecko.UpstreamError{Status: http.StatusTooManyRequests}
	w = env.do(t, http.MethodGet, "/api/coin/bitcoin/market_chart")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch chart"}`, w.Body.String())
}

func TestListMarkets(t *testing.T) {
	env := newTestEnv(t)
	env.storage.SetSnapshot(testSnapshot(45), time.Now())
	_, _, err := env.store.Toggle("coinab")
	require.NoError(t, err)

	var res struct {
		Items       []MarketRow `json:"items"`
		CurrentPage int         `json:"current_page"`
		TotalPages  int         `json:"total_pages"`
		Total       int         `json:"total"`
		Category    string      `json:"category"`
	}

	w := env.do(t, http.MethodGet, "/v1/markets?page=2")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, 2, res.CurrentPage)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 45, res.Total)
	require.Len(t, res.Items, 20)
	assert.Equal(t, "coinab", res.Items[6].ID)
	assert.True(t, res.Items[6].Favorite)
	assert.False(t, res.Items[0].Favorite)
	assert.Equal(t, "all", res.Category)

	w = env.do(t, http.MethodGet, "/v1/markets?page=99")
	decode(t, w, &res)
	assert.Equal(t, 3, res.CurrentPage)
	assert.Len(t, res.Items, 5)

	w = env.do(t, http.MethodGet, "/v1/markets?page=3&step=next")
	decode(t, w, &res)
	assert.Equal(t, 3, res.CurrentPage)

	w = env.do(t, http.MethodGet, "/v1/markets?page=2&step=prev")
	decode(t, w, &res)
	assert.Equal(t, 1, res.CurrentPage)

	w = env.do(t, http.MethodGet, "/v1/markets?category=Top%20Gainers")
	decode(t, w, &res)
	assert.Equal(t, "top_gainers", res.Category)
	for _, item := range res.Items {
		assert.Greater(t, item.PriceChangePercent24h, 0.0)
	}

	w = env.do(t, http.MethodGet, "/v1/markets?category=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodGet, "/v1/markets?page=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/v1/markets/stats")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env.storage.SetSnapshot(common.Snapshot{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", MarketCap: 1.2e12, PriceChangePercent24h: 2},
		{ID: "ethereum", Name: "Ethereum", Symbol: "eth", MarketCap: 3e11, PriceChangePercent24h: -4},
	}, time.Now())

	var res StatsResponse
	w = env.do(t, http.MethodGet, "/v1/markets/stats")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, 1.5e12, res.Stats.TotalMarketCap)
	assert.Equal(t, "1.50T", res.TotalMarketCapText)
	assert.Equal(t, "Bitcoin (BTC)", res.Gainer)
	assert.Equal(t, "2.00%", res.GainerPercentText)
	assert.Equal(t, "Ethereum (ETH)", res.Loser)
	assert.Equal(t, "-4.00%", res.LoserPercentText)
}

func TestGetCoin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.Add("bitcoin")
	require.NoError(t, err)

	var res CoinResponse
	w := env.do(t, http.MethodGet, "/v1/coin/bitcoin")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	require.NotNil(t, res.Coin)
	assert.Equal(t, "BITCOIN", res.Coin.Name)
	assert.True(t, res.InWatchlist)
	assert.Len(t, res.Chart, 1)

	env.upstream.coinErr = errors.New("boom")
	res = CoinResponse{}
	w = env.do(t, http.MethodGet, "/v1/coin/bitcoin")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Nil(t, res.Coin)
	assert.True(t, res.MetaError)
	assert.False(t, res.ChartError)
	assert.Len(t, res.Chart, 1)
}

func TestWatchlistRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.storage.SetSnapshot(testSnapshot(3), time.Now())

	var toggle struct {
		InWatchlist bool     `json:"in_watchlist"`
		IDs         []string `json:"ids"`
		Persisted   bool     `json:"persisted"`
	}
	w := env.do(t, http.MethodPost, "/v1/watchlist/coinca/toggle")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &toggle)
	assert.True(t, toggle.InWatchlist)
	assert.True(t, toggle.Persisted)

	env.do(t, http.MethodPut, "/v1/watchlist/coinaa")
	env.do(t, http.MethodPut, "/v1/watchlist/delisted")

	var list struct {
		Items []common.MarketEntry `json:"items"`
		IDs   []string             `json:"ids"`
	}
	w = env.do(t, http.MethodGet, "/v1/watchlist")
	decode(t, w, &list)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "coinaa", list.Items[0].ID)
	assert.Equal(t, "coinca", list.Items[1].ID)
	assert.Equal(t, []string{"coinca", "coinaa", "delisted"}, list.IDs)

	w = env.do(t, http.MethodDelete, "/v1/watchlist/coinaa")
	decode(t, w, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "coinca", list.Items[0].ID)

	w = env.do(t, http.MethodDelete, "/v1/watchlist")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, env.store.Load().Len())
}

type unreadableKV struct {
	*db.Memory
	failGet bool
}

func (u *unreadableKV) Get(key string) ([]byte, error) {
	if u.failGet {
		return nil, errors.New("connection reset")
	}
	return u.Memory.Get(key)
}

func TestWatchlistUnavailable(t *testing.T) {
	env := newTestEnv(t)
	kv := &unreadableKV{Memory: db.NewMemory()}
	env.store = watchlist.NewStore(zap.NewNop().Sugar(), kv)
	env.server.watchlist = env.store
	require.NoError(t, env.store.Save(watchlist.NewSet("bitcoin", "ethereum")))

	kv.failGet = true
	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/v1/watchlist/solana/toggle"},
		{http.MethodPut, "/v1/watchlist/solana"},
		{http.MethodDelete, "/v1/watchlist/bitcoin"},
	} {
		w := env.do(t, r.method, r.path)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, r.path)
		assert.JSONEq(t, `{"error":"watchlist unavailable"}`, w.Body.String())
	}

	kv.failGet = false
	assert.Equal(t, []string{"bitcoin", "ethereum"}, env.store.Load().IDs())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.storage.SetSnapshot(testSnapshot(2), time.Now())
	w := env.do(t, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"entries":2`)
	assert.Contains(t, w.Body.String(), "snapshot_age")
}

func TestStreamStats(t *testing.T) {
	env := newTestEnv(t)
	env.storage.SetSnapshot(common.Snapshot{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", MarketCap: 1e12, PriceChangePercent24h: 1},
	}, time.Now())

	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream/stats", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Read frames until the animation settles on the target.
	scanner := bufio.NewScanner(resp.Body)
	settled := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		if strings.Contains(line, `"total_market_cap_text":"1.00T"`) {
			settled = true
			break
		}
	}
	assert.True(t, settled)
}

func TestCoinSocket(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/coin"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"id": ""}))
	var errRes map[string]string
	require.NoError(t, conn.ReadJSON(&errRes))
	assert.Equal(t, ErrInvalidCoinID.Error(), errRes["error"])

	require.NoError(t, conn.WriteJSON(map[string]string{"id": "ethereum"}))
	var res CoinResponse
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, "ethereum", res.ID)
	require.NotNil(t, res.Coin)
	assert.Equal(t, "ETHEREUM", res.Coin.Name)
}
