package analyzer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScope/internal/calculator"
	"TrendScope/internal/model"
)

func series(ticker string, prices ...float64) *model.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.PriceSeries{Ticker: ticker}
	for i, p := range prices {
		s.Points = append(s.Points, model.PricePoint{Date: start.AddDate(0, 0, i), Price: p})
	}
	return s
}

// zigzag alternates between two returns so the series has a known volatility.
func zigzag(ticker string, n int, base, up, down float64) *model.PriceSeries {
	prices := []float64{base}
	for i := 1; i < n; i++ {
		r := up
		if i%2 == 0 {
			r = down
		}
		prices = append(prices, prices[i-1]*(1+r))
	}
	return series(ticker, prices...)
}

func TestMetrics(t *testing.T) {
	a := New(zerolog.Nop())
	low := zigzag("LOW", 30, 100, 0.01, -0.01)
	high := zigzag("HIGH", 30, 50, 0.02, -0.02)
	table := model.NewPriceTable([]*model.PriceSeries{low, high})

	m, err := a.Metrics(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"LOW", "HIGH"}, m.Tickers)
	require.Len(t, m.Dates, 29)
	require.Len(t, m.Returns[0], 29)
	assert.InDelta(t, 0.01, m.Returns[0][0], 1e-12)

	assert.InDelta(t, 2*m.Volatility[0].Value, m.Volatility[1].Value, 1e-9)
	assert.InDelta(t, 1, m.Correlation[0][1], 1e-9)

	recent := m.Recent(5)
	require.Len(t, recent, 5)
	assert.Equal(t, m.Dates[len(m.Dates)-1], recent[4].Date)
}

func TestMetrics_AlignsOnCommonDates(t *testing.T) {
	a := New(zerolog.Nop())
	full := series("A", 10, 11, 12, 13, 14)
	gappy := &model.PriceSeries{Ticker: "B", Points: []model.PricePoint{
		full.Points[0], full.Points[1], full.Points[3], full.Points[4],
	}}
	m, err := a.Metrics(model.NewPriceTable([]*model.PriceSeries{full, gappy}))
	require.NoError(t, err)
	assert.Len(t, m.Dates, 3)
	assert.InDelta(t, 13.0/11.0-1, m.Returns[0][1], 1e-12)
}

func TestMetrics_TooFewRows(t *testing.T) {
	a := New(zerolog.Nop())
	_, err := a.Metrics(model.NewPriceTable([]*model.PriceSeries{series("A", 1, 2)}))
	assert.ErrorIs(t, err, calculator.ErrTooFewPoints)
}

func TestAllocate_InverseVolatility(t *testing.T) {
	a := New(zerolog.Nop())
	low := zigzag("LOW", 30, 100, 0.01, -0.01)
	high := zigzag("HIGH", 30, 50, 0.02, -0.02)
	m, err := a.Metrics(model.NewPriceTable([]*model.PriceSeries{low, high}))
	require.NoError(t, err)

	allocs, err := a.Allocate(m, 9000)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	// sorted by ticker: HIGH then LOW
	assert.Equal(t, "HIGH", allocs[0].Ticker)
	assert.InDelta(t, 3000, allocs[0].Amount, 1e-6)
	assert.InDelta(t, 6000, allocs[1].Amount, 1e-6)
}

func TestAllocate_ZeroVolatilityRejected(t *testing.T) {
	a := New(zerolog.Nop())
	flat := series("FLAT", 10, 10, 10, 10)
	m, err := a.Metrics(model.NewPriceTable([]*model.PriceSeries{flat}))
	require.NoError(t, err)

	_, err = a.Allocate(m, 1000)
	assert.ErrorIs(t, err, calculator.ErrInvalidVolatility)
}

func TestAnalyze(t *testing.T) {
	a := New(zerolog.Nop())
	lin := series("LIN", 100, 102, 104, 106)
	table := model.NewPriceTable([]*model.PriceSeries{lin})

	r, err := a.Analyze([]*model.PriceSeries{lin}, table, Options{
		HorizonDays:    2,
		PortfolioValue: 10000,
		Position:       1000,
		RecentRows:     5,
	})
	require.NoError(t, err)
	require.Len(t, r.Forecasts, 1)
	assert.InDelta(t, 112, r.Forecasts[0].Price, 1e-9)
	require.Len(t, r.Allocations, 1)
	assert.InDelta(t, 10000, r.Allocations[0].Amount, 1e-9)
	require.Len(t, r.VaR, 1)
	assert.Equal(t, calculator.DefaultVaRConfidence, r.VaR[0].Confidence)
	assert.Len(t, r.RecentReturns, 3)
	assert.InDelta(t, 1.06, r.Cumulative["LIN"], 1e-12)
	assert.Equal(t, lin.Points[0].Date, r.From)
	assert.Equal(t, lin.Points[3].Date, r.To)
}
