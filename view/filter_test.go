package view

import (
	"fmt"
	"testing"

	"github.com/kv-base-hack/market-dashboard-api/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSnapshot(n int) common.Snapshot {
	s := make(common.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		s = append(s, common.MarketEntry{
			ID:     fmt.Sprintf("coin-%d", i),
			Name:   fmt.Sprintf("Coin %d", i),
			Symbol: fmt.Sprintf("c%d", i),
		})
	}
	return s
}

func ids(entries []common.MarketEntry) []string {
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		res = append(res, e.ID)
	}
	return res
}

func TestCategoryFilter(t *testing.T) {
	s := common.Snapshot{
		{ID: "a", PriceChangePercent24h: 5},
		{ID: "b", PriceChangePercent24h: -3},
		{ID: "c", PriceChangePercent24h: 0},
	}
	assert.Equal(t, []string{"a"}, ids(Filter(s, "", common.CategoryTopGainers)))
	assert.Equal(t, []string{"b"}, ids(Filter(s, "", common.CategoryTopLosers)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Filter(s, "", common.CategoryAll)))
}

func TestMarketCapFilter(t *testing.T) {
	s := common.Snapshot{
		{ID: "big", MarketCap: 2e9},
		{ID: "edge", MarketCap: 1e9},
		{ID: "small", MarketCap: 5e6},
	}
	assert.Equal(t, []string{"big"}, ids(Filter(s, "", common.CategoryMarketCap)))
}

func TestSearchMatchesNameAndSymbolCaseInsensitive(t *testing.T) {
	s := common.Snapshot{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc"},
		{ID: "ethereum", Name: "Ethereum", Symbol: "eth"},
		{ID: "wbtc", Name: "Wrapped Bitcoin", Symbol: "wbtc"},
	}
	assert.Equal(t, []string{"bitcoin", "wbtc"}, ids(Filter(s, "BTC", common.CategoryAll)))
	assert.Equal(t, []string{"ethereum"}, ids(Filter(s, "ether", common.CategoryAll)))
	assert.Len(t, Filter(s, "", common.CategoryAll), 3)
	assert.Empty(t, Filter(s, "doge", common.CategoryAll))
	assert.Empty(t, Filter(s, "bitcoin ", common.CategoryAll))
	assert.Equal(t, []string{"wbtc"}, ids(Filter(s, "d bit", common.CategoryAll)))
}

func TestPaginationBounds(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 40, 41, 100} {
		s := makeSnapshot(n)
		for _, page := range []int{-3, 0, 1, 2, 3, 6, 99} {
			p := Apply(s, common.FilterState{Category: common.CategoryAll, Page: page})
			wantPages := (n + PageSize - 1) / PageSize
			if wantPages < 1 {
				wantPages = 1
			}
			require.Equal(t, wantPages, p.TotalPages, "n=%d", n)
			require.GreaterOrEqual(t, p.CurrentPage, 1)
			require.LessOrEqual(t, p.CurrentPage, p.TotalPages)
			require.LessOrEqual(t, len(p.Items), PageSize)
			require.Equal(t, n, p.TotalItems)
		}
	}
}

func TestApplyPageContents(t *testing.T) {
	s := makeSnapshot(45)
	p := Apply(s, common.FilterState{Page: 3})
	assert.Equal(t, 3, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	require.Len(t, p.Items, 5)
	assert.Equal(t, "coin-40", p.Items[0].ID)
}

func TestApplyIsPure(t *testing.T) {
	s := makeSnapshot(30)
	state := common.FilterState{SearchText: "coin 1", Category: common.CategoryAll, Page: 1}
	first := Apply(s, state)
	second := Apply(s, state)
	assert.Equal(t, first, second)
	assert.Len(t, s, 30)
}

func TestListViewResetsAndClampsPage(t *testing.T) {
	v := NewListView()
	assert.Equal(t, 1, v.Current().TotalPages)

	v.SetSnapshot(makeSnapshot(60))
	p := v.SetPage(3)
	assert.Equal(t, 3, p.CurrentPage)

	p = v.SetSearch("coin 5")
	assert.Equal(t, 1, p.CurrentPage)

	v.SetSearch("")
	v.SetPage(3)
	p = v.SetCategory(common.CategoryTopGainers)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.TotalPages)

	v.SetCategory(common.CategoryAll)
	v.SetPage(3)
	p = v.SetSnapshot(makeSnapshot(25))
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 2, v.State().Page)
}

func TestListViewNextPrev(t *testing.T) {
	v := NewListView()
	v.SetSnapshot(makeSnapshot(50))
	assert.Equal(t, 1, v.Prev().CurrentPage)
	assert.Equal(t, 2, v.Next().CurrentPage)
	assert.Equal(t, 3, v.Next().CurrentPage)
	assert.Equal(t, 3, v.Next().CurrentPage)
	assert.Equal(t, 2, v.Prev().CurrentPage)
}
