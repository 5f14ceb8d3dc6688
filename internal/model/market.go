package model

import (
	"math"
	"time"
)

// OHLCV represents a single daily bar as returned by a data provider.
// AdjClose is zero when the provider does not report an adjusted close.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PricePoint is one adjusted close observation.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries holds the adjusted closes of one ticker, strictly increasing by date.
type PriceSeries struct {
	Ticker string
	Points []PricePoint
}

// Len returns the number of observations.
func (s *PriceSeries) Len() int { return len(s.Points) }

// Prices returns the price column.
func (s *PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.Price
	}
	return prices
}

// Last returns the most recent observation. ok is false for an empty series.
func (s *PriceSeries) Last() (p PricePoint, ok bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Tail returns a series holding at most the n most recent observations.
func (s *PriceSeries) Tail(n int) *PriceSeries {
	if n < 0 || n >= len(s.Points) {
		return s
	}
	return &PriceSeries{Ticker: s.Ticker, Points: s.Points[len(s.Points)-n:]}
}

// Until returns the observations dated on or before t.
func (s *PriceSeries) Until(t time.Time) *PriceSeries {
	i := len(s.Points)
	for i > 0 && s.Points[i-1].Date.After(t) {
		i--
	}
	return &PriceSeries{Ticker: s.Ticker, Points: s.Points[:i]}
}

// TradingDay truncates t to UTC midnight of its calendar day.
func TradingDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SessionDay returns the exchange-local calendar day of t as UTC midnight.
// gmtOffset is the exchange offset from UTC in seconds.
func SessionDay(t time.Time, gmtOffset int) time.Time {
	return TradingDay(t.UTC().Add(time.Duration(gmtOffset) * time.Second))
}

// IsValidPrice reports whether p can be used as an observation.
func IsValidPrice(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}
