package collector

import (
	"context"
	"time"

	"TrendScope/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
// start is inclusive, end is exclusive.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
