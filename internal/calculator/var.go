package calculator

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"TrendScope/internal/model"
)

// MinVaRObservations is the sample size below which a 95th percentile is unstable.
// It is not enforced; callers decide what to do with smaller samples.
const MinVaRObservations = 20

// DefaultVaRConfidence is the one-day VaR confidence level.
const DefaultVaRConfidence = 0.95

// Percentile returns the p-th quantile (0 <= p <= 1) of values using linear
// interpolation between the two closest ranks, rank = p*(n-1).
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("percentile: %w: empty input", ErrTooFewPoints)
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile: p=%v out of [0,1]", p)
	}
	if floats.HasNaN(values) {
		return 0, fmt.Errorf("percentile: %w", ErrNonFinite)
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
}

// HistoricalVaR estimates one-day VaR from daily returns: the confidence
// percentile of the loss distribution (loss = -return) scaled to position.
func HistoricalVaR(ticker string, returns []float64, confidence, position float64) (model.ValueAtRisk, error) {
	if !(confidence > 0 && confidence < 1) {
		return model.ValueAtRisk{}, fmt.Errorf("var %s: confidence must be in (0,1), got %v", ticker, confidence)
	}
	if !(position > 0) || math.IsInf(position, 0) {
		return model.ValueAtRisk{}, fmt.Errorf("var %s: position must be positive, got %v", ticker, position)
	}
	losses := make([]float64, len(returns))
	for i, r := range returns {
		losses[i] = -r
	}
	q, err := Percentile(losses, confidence)
	if err != nil {
		return model.ValueAtRisk{}, fmt.Errorf("var %s: %w", ticker, err)
	}
	return model.ValueAtRisk{
		Ticker:       ticker,
		Confidence:   confidence,
		Ratio:        q,
		Amount:       q * position,
		Position:     position,
		Observations: len(returns),
	}, nil
}
