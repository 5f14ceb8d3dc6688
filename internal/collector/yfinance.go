package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"TrendScope/internal/model"
)

// YFinanceFetcher implements Fetcher using the go-yfinance client.
type YFinanceFetcher struct {
	log zerolog.Logger
}

// NewYFinanceFetcher creates a go-yfinance backed fetcher.
func NewYFinanceFetcher(log zerolog.Logger) *YFinanceFetcher {
	return &YFinanceFetcher{log: log.With().Str("fetcher", "yfinance").Logger()}
}

func (f *YFinanceFetcher) Name() string { return "yfinance" }

func (f *YFinanceFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("yfinance ticker %s: %w", symbol, err)
	}
	defer t.Close()

	// sessions east of UTC open on the previous UTC day
	from := start.AddDate(0, 0, -1)
	history, err := t.History(models.HistoryParams{
		Start:      &from,
		End:        &end,
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("yfinance history %s: %w", symbol, err)
	}

	var gmtOffset int
	if meta := t.GetHistoryMetadata(); meta != nil {
		gmtOffset = meta.GMTOffset
	}
	f.log.Debug().Str("symbol", symbol).Int("gmtoffset", gmtOffset).Int("bars", len(history)).Msg("history fetched")
	return fromHistory(history, gmtOffset, start, end), nil
}

// fromHistory converts library bars, which carry UTC timestamps, to bars
// dated by exchange-local session day within [start, end).
func fromHistory(history []models.Bar, gmtOffset int, start, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, 0, len(history))
	for _, b := range history {
		day := model.SessionDay(b.Date, gmtOffset)
		if day.Before(model.TradingDay(start)) || !day.Before(end) {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:     day,
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.AdjClose,
			Volume:   float64(b.Volume),
		})
	}
	return bars
}
