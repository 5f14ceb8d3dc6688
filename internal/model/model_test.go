package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestPriceSeries(t *testing.T) {
	s := &PriceSeries{Ticker: "A", Points: []PricePoint{{d(2), 10}, {d(3), 11}, {d(6), 12}}}

	assert.Equal(t, []float64{10, 11, 12}, s.Prices())
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 12.0, last.Price)

	assert.Equal(t, 2, s.Tail(2).Len())
	assert.Same(t, s, s.Tail(10))

	assert.Equal(t, 2, s.Until(d(5)).Len())
	assert.Equal(t, 3, s.Until(d(6)).Len())
	assert.Equal(t, 0, s.Until(d(1)).Len())

	_, ok = (&PriceSeries{}).Last()
	assert.False(t, ok)
}

func TestTradingDay(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	assert.Equal(t, d(3), TradingDay(time.Date(2025, 1, 2, 21, 30, 0, 0, ny)))
	assert.Equal(t, d(2), TradingDay(d(2).Add(14*time.Hour)))
}

func TestSessionDay(t *testing.T) {
	// ASX opens at 23:00 UTC on the previous calendar day.
	asx := time.Date(2025, 1, 5, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, d(5), TradingDay(asx))
	assert.Equal(t, d(6), SessionDay(asx, 11*3600))

	nyse := time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, d(6), SessionDay(nyse, -5*3600))
	assert.Equal(t, d(6), SessionDay(nyse, 0))
}

func TestIsValidPrice(t *testing.T) {
	assert.True(t, IsValidPrice(0.01))
	for _, p := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.False(t, IsValidPrice(p))
	}
}

func TestNewPriceTable(t *testing.T) {
	a := &PriceSeries{Ticker: "A", Points: []PricePoint{{d(2), 1}, {d(3), 2}, {d(6), 3}}}
	b := &PriceSeries{Ticker: "B", Points: []PricePoint{{d(3), 20}, {d(6), 30}, {d(7), 40}}}

	table := NewPriceTable([]*PriceSeries{a, b})
	assert.Equal(t, []string{"A", "B"}, table.Tickers)
	assert.Equal(t, []time.Time{d(2), d(3), d(6), d(7)}, table.Dates)
	assert.True(t, math.IsNaN(table.Values[0][1]))
	assert.True(t, math.IsNaN(table.Values[3][0]))
	assert.Equal(t, []float64{2, 20}, table.Values[1])

	complete := table.Complete()
	assert.Equal(t, []time.Time{d(3), d(6)}, complete.Dates)
	assert.Equal(t, [][]float64{{2, 20}, {3, 30}}, complete.Values)

	assert.False(t, table.Empty())
	assert.True(t, NewPriceTable(nil).Empty())
}
