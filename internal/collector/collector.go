package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"TrendScope/internal/model"
)

var (
	// ErrNoData is returned when a provider has no rows for a ticker in the requested range.
	ErrNoData = errors.New("no data was downloaded, you may be rate-limited")
	// ErrNoTickers is returned when no usable ticker symbol was given.
	ErrNoTickers = errors.New("no ticker symbols given")
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		var out []model.OHLCV
		for _, b := range m.Bars[symbol] {
			if !b.Time.Before(start) && b.Time.Before(end) {
				out = append(out, b)
			}
		}
		return out, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := model.TradingDay(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.OHLCV{
			Time:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
		i++
	}
	return bars
}

// ParseTickers splits a comma-separated list into trimmed, uppercased,
// de-duplicated symbols, keeping the input order.
func ParseTickers(input string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range strings.Split(input, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Normalize converts provider bars into a price series. The adjusted close
// is used when the bar carries one, the close otherwise. Invalid prices are
// dropped, bars are sorted by date and duplicate dates keep the last bar.
func Normalize(ticker string, bars []model.OHLCV) (*model.PriceSeries, error) {
	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		price := b.Close
		if model.IsValidPrice(b.AdjClose) {
			price = b.AdjClose
		}
		if !model.IsValidPrice(price) {
			continue
		}
		points = append(points, model.PricePoint{Date: model.TradingDay(b.Time), Price: price})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	return &model.PriceSeries{Ticker: ticker, Points: out}, nil
}

// Collector loads adjusted close series through a Fetcher.
type Collector struct {
	Fetcher Fetcher
	log     zerolog.Logger
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		log:     log.With().Str("component", "collector").Logger(),
		now:     time.Now,
	}
}

// LoadSeries fetches one ticker over [start, end). A zero end means now.
// An empty result is a hard failure wrapping ErrNoData.
func (c *Collector) LoadSeries(ctx context.Context, ticker string, start, end time.Time) (*model.PriceSeries, error) {
	if end.IsZero() {
		end = c.now()
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("load %s: start %s is not before end %s",
			ticker, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	bars, err := c.Fetcher.FetchDailyBars(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("load %s from %s: %w", ticker, c.Fetcher.Name(), err)
	}
	series, err := Normalize(ticker, bars)
	if err != nil {
		c.log.Warn().Str("ticker", ticker).Str("source", c.Fetcher.Name()).Msg("no rows returned")
		return nil, err
	}
	c.log.Info().
		Str("ticker", ticker).
		Str("source", c.Fetcher.Name()).
		Int("rows", series.Len()).
		Time("first", series.Points[0].Date).
		Time("last", series.Points[series.Len()-1].Date).
		Msg("prices loaded")
	return series, nil
}

// LoadTable fetches every ticker sequentially and aligns them on their dates.
// The returned series keep the order of tickers.
func (c *Collector) LoadTable(ctx context.Context, tickers []string, start, end time.Time) (*model.PriceTable, []*model.PriceSeries, error) {
	if len(tickers) == 0 {
		return nil, nil, ErrNoTickers
	}
	series := make([]*model.PriceSeries, 0, len(tickers))
	for _, t := range tickers {
		s, err := c.LoadSeries(ctx, t, start, end)
		if err != nil {
			return nil, nil, err
		}
		series = append(series, s)
	}
	return model.NewPriceTable(series), series, nil
}
