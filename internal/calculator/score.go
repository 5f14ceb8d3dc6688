package calculator

import (
	"fmt"
	"math"
)

// ForecastError holds the error metrics of one prediction.
type ForecastError struct {
	Error    float64 // predicted - actual
	AbsError float64
	PctError float64 // AbsError / actual * 100
}

// ScoreForecast compares a predicted price with the realized one.
func ScoreForecast(predicted, actual float64) (ForecastError, error) {
	if actual == 0 {
		return ForecastError{}, fmt.Errorf("score: actual price is zero")
	}
	e := predicted - actual
	abs := math.Abs(e)
	return ForecastError{Error: e, AbsError: abs, PctError: abs / actual * 100}, nil
}
