package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"TrendScope/internal/model"
)

// ErrInvalidVolatility is returned when a volatility cannot be inverted.
var ErrInvalidVolatility = errors.New("volatility must be positive and finite")

// InverseVolatilityWeights computes weight[t] = (1/vol[t]) / sum(1/vol).
// Weights are returned sorted by ticker and sum to 1.
func InverseVolatilityWeights(vol map[string]float64) ([]model.Allocation, error) {
	if len(vol) == 0 {
		return nil, fmt.Errorf("weights: %w: no volatilities", ErrTooFewPoints)
	}
	tickers := make([]string, 0, len(vol))
	for t, v := range vol {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("weights: %s: %w (got %v)", t, ErrInvalidVolatility, v)
		}
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var total float64
	for _, t := range tickers {
		total += 1 / vol[t]
	}
	out := make([]model.Allocation, len(tickers))
	for i, t := range tickers {
		out[i] = model.Allocation{Ticker: t, Weight: (1 / vol[t]) / total}
	}
	return out, nil
}

// Allocate fills Amount = Weight * portfolioValue.
func Allocate(weights []model.Allocation, portfolioValue float64) ([]model.Allocation, error) {
	if !(portfolioValue > 0) || math.IsInf(portfolioValue, 0) {
		return nil, fmt.Errorf("allocate: portfolio value must be positive, got %v", portfolioValue)
	}
	out := make([]model.Allocation, len(weights))
	for i, w := range weights {
		out[i] = model.Allocation{Ticker: w.Ticker, Weight: w.Weight, Amount: w.Weight * portfolioValue}
	}
	return out, nil
}
