package server

import "errors"

// Proxy errors keep the wording clients of the markets proxy already match on.
var (
	ErrFetchMarkets = errors.New("Failed to fetch markets")
	ErrFetchCoin    = errors.New("Failed to fetch coin")
	ErrFetchChart   = errors.New("Failed to fetch chart")
	ErrServer       = errors.New("Server error")
)

var (
	ErrInvalidListMarkets = errors.New("invalid list markets request")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidCoinID      = errors.New("invalid coin id")
	ErrNoSnapshot         = errors.New("market data not loaded yet")
	ErrStreamUnsupported  = errors.New("streaming unsupported")

	ErrWatchlistUnavailable = errors.New("watchlist unavailable")
)
