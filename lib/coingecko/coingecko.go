package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kv-base-hack/market-dashboard-api/common"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTimeout = time.Second * 10

	userAgent = "market-dashboard-api"

	marketsEndpoint     = "/coins/markets"
	coinEndpoint        = "/coins/%s"
	marketChartEndpoint = "/coins/%s/market_chart"

	// ChartCurrency and ChartDays are the fixed parameters of the detail chart.
	ChartCurrency = "usd"
	ChartDays     = 7

	marketsPerPage = 100
	maxLoggedBody  = 512
)

// CoinGecko is a thin client of the public CoinGecko v3 API. It never retries;
// failures are returned as *NetworkError or *UpstreamError.
type CoinGecko struct {
	log     *zap.SugaredLogger
	client  *http.Client
	baseURL string
}

// NewCoinGecko creates a new CoinGecko instance. An empty baseURL or a zero
// timeout selects the defaults.
func NewCoinGecko(log *zap.SugaredLogger, baseURL string, timeout time.Duration) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CoinGecko{
		log:     log.With("client", "coingecko"),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func marketsQuery() url.Values {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(marketsPerPage))
	q.Set("page", "1")
	q.Set("sparkline", "true")
	return q
}

// MarketsRaw returns the coins/markets body exactly as upstream sent it.
func (cg *CoinGecko) MarketsRaw(ctx context.Context) ([]byte, error) {
	return cg.get(ctx, marketsEndpoint, marketsQuery())
}

// FetchSnapshot returns the top markets by market cap, normalized.
func (cg *CoinGecko) FetchSnapshot(ctx context.Context) (common.Snapshot, error) {
	body, err := cg.MarketsRaw(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(body)
}

// DecodeSnapshot parses a coins/markets body into a snapshot.
func DecodeSnapshot(body []byte) (common.Snapshot, error) {
	var coins []MarketCoin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}
	snapshot := make(common.Snapshot, 0, len(coins))
	for _, c := range coins {
		snapshot = append(snapshot, c.Convert())
	}
	return snapshot, nil
}

// CoinRaw returns the coins/{id} body exactly as upstream sent it.
func (cg *CoinGecko) CoinRaw(ctx context.Context, id string) ([]byte, error) {
	return cg.get(ctx, fmt.Sprintf(coinEndpoint, url.PathEscape(id)), nil)
}

func (cg *CoinGecko) FetchCoin(ctx context.Context, id string) (Coin, error) {
	body, err := cg.CoinRaw(ctx, id)
	if err != nil {
		return Coin{}, err
	}
	var coin Coin
	if err := json.Unmarshal(body, &coin); err != nil {
		return Coin{}, fmt.Errorf("decode coin %s: %w", id, err)
	}
	return coin, nil
}

// MarketChartRaw returns the coins/{id}/market_chart body as upstream sent it.
func (cg *CoinGecko) MarketChartRaw(ctx context.Context, id, currency string, days int) ([]byte, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("days", strconv.Itoa(days))
	return cg.get(ctx, fmt.Sprintf(marketChartEndpoint, url.PathEscape(id)), q)
}

func (cg *CoinGecko) FetchMarketChart(ctx context.Context, id, currency string, days int) (MarketChart, error) {
	body, err := cg.MarketChartRaw(ctx, id, currency, days)
	if err != nil {
		return MarketChart{}, err
	}
	var chart MarketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return MarketChart{}, fmt.Errorf("decode market chart %s: %w", id, err)
	}
	return chart, nil
}

func (cg *CoinGecko) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := cg.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Add("User-Agent", userAgent)

	rsp, err := cg.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer rsp.Body.Close()

	respBody, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		if len(respBody) > maxLoggedBody {
			respBody = respBody[:maxLoggedBody]
		}
		cg.log.Errorw("fetch failed", "url", u, "status", rsp.StatusCode, "body", string(respBody))
		return nil, &UpstreamError{URL: u, Status: rsp.StatusCode}
	}
	return respBody, nil
}
