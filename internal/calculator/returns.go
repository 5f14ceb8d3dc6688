package calculator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily statistics.
const TradingDaysPerYear = 252

var (
	// ErrTooFewPoints is returned when a computation needs more observations than given.
	ErrTooFewPoints = errors.New("not enough data points")
	// ErrNonFinite is returned when an input contains NaN or infinite values.
	ErrNonFinite = errors.New("input contains non-finite values")
)

// DailyReturns computes the pointwise percentage change (p[i]-p[i-1])/p[i-1].
// The result has len(prices)-1 elements; the undefined leading value is dropped.
func DailyReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("daily returns: %w: got %d prices", ErrTooFewPoints, len(prices))
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			return nil, fmt.Errorf("daily returns: zero price at index %d", i-1)
		}
		returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return returns, nil
}

// CumulativeReturns returns the running product of (1 + r).
func CumulativeReturns(returns []float64) []float64 {
	cum := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		cum[i] = acc
	}
	return cum
}

// AnnualizedVolatility is the sample standard deviation of daily returns scaled by sqrt(252).
func AnnualizedVolatility(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("volatility: %w: got %d returns", ErrTooFewPoints, len(returns))
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear), nil
}

// CorrelationMatrix computes the pairwise Pearson correlation of date-aligned
// return columns. All columns must share the same length. Cells involving a
// zero-variance column come out as NaN and are left as such.
func CorrelationMatrix(columns [][]float64) ([][]float64, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("correlation: %w: no columns", ErrTooFewPoints)
	}
	rows := len(columns[0])
	for j, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("correlation: column %d has %d rows, want %d", j, len(col), rows)
		}
	}
	if rows < 2 {
		return nil, fmt.Errorf("correlation: %w: got %d rows", ErrTooFewPoints, rows)
	}

	data := mat.NewDense(rows, len(columns), nil)
	for j, col := range columns {
		data.SetCol(j, col)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, data, nil)

	n := len(columns)
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = corr.At(i, j)
		}
	}
	return out, nil
}
