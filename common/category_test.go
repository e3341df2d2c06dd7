package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryString(t *testing.T) {
	cases := map[string]Category{
		"":            CategoryAll,
		"all":         CategoryAll,
		"top_gainers": CategoryTopGainers,
		"Top Gainers": CategoryTopGainers,
		"TOP_LOSERS":  CategoryTopLosers,
		"Market Cap":  CategoryMarketCap,
	}
	for in, want := range cases {
		got, err := CategoryString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := CategoryString("moon")
	assert.Error(t, err)
}

func TestCategoryJSON(t *testing.T) {
	var f FilterState
	require.NoError(t, json.Unmarshal([]byte(`{"search":"btc","category":"Top Losers","page":2}`), &f))
	assert.Equal(t, CategoryTopLosers, f.Category)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"search":"btc","category":"top_losers","page":2}`, string(out))
}
