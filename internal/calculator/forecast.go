package calculator

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"TrendScope/internal/model"
)

// Line is a fitted price = Slope*t + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at offset x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// FitLine fits an ordinary least-squares line to prices over the equally
// spaced index t = 0..N-1. Calendar gaps are ignored.
func FitLine(prices []float64) (Line, error) {
	if len(prices) < 2 {
		return Line{}, fmt.Errorf("fit line: %w: got %d prices", ErrTooFewPoints, len(prices))
	}
	if floats.HasNaN(prices) {
		return Line{}, fmt.Errorf("fit line: %w", ErrNonFinite)
	}
	for _, p := range prices {
		if math.IsInf(p, 0) {
			return Line{}, fmt.Errorf("fit line: %w", ErrNonFinite)
		}
	}
	t := make([]float64, len(prices))
	floats.Span(t, 0, float64(len(prices)-1))
	intercept, slope := stat.LinearRegression(t, prices, nil, false)
	return Line{Slope: slope, Intercept: intercept}, nil
}

// TradingDayHorizon projects days trading days past the last observation.
func TradingDayHorizon(days int) model.Horizon {
	return model.Horizon{Kind: model.HorizonTradingDays, Days: days}
}

// CalendarHorizon projects to the calendar date target.
func CalendarHorizon(target time.Time) model.Horizon {
	return model.Horizon{Kind: model.HorizonCalendarDate, Target: model.TradingDay(target)}
}

// TargetOffset maps a horizon to the integer index X at which the line is evaluated,
// for a series of n observations ending on lastDate.
//
//	trading days:  X = n + days
//	calendar date: X = n + whole days between lastDate and target
func TargetOffset(h model.Horizon, n int, lastDate time.Time) (int, error) {
	switch h.Kind {
	case model.HorizonTradingDays:
		if h.Days < 0 {
			return 0, fmt.Errorf("horizon: negative trading days %d", h.Days)
		}
		return n + h.Days, nil
	case model.HorizonCalendarDate:
		if h.Target.IsZero() {
			return 0, fmt.Errorf("horizon: calendar target date not set")
		}
		delta := model.TradingDay(h.Target).Sub(model.TradingDay(lastDate))
		return n + int(math.Floor(delta.Hours()/24)), nil
	default:
		return 0, fmt.Errorf("horizon: unknown kind %d", h.Kind)
	}
}

// Forecast fits the series and extrapolates it to the horizon.
func Forecast(series *model.PriceSeries, h model.Horizon) (model.ForecastPoint, error) {
	last, ok := series.Last()
	if !ok {
		return model.ForecastPoint{}, fmt.Errorf("forecast %s: %w: empty series", series.Ticker, ErrTooFewPoints)
	}
	line, err := FitLine(series.Prices())
	if err != nil {
		return model.ForecastPoint{}, fmt.Errorf("forecast %s: %w", series.Ticker, err)
	}
	x, err := TargetOffset(h, series.Len(), last.Date)
	if err != nil {
		return model.ForecastPoint{}, fmt.Errorf("forecast %s: %w", series.Ticker, err)
	}
	return model.ForecastPoint{
		Ticker:    series.Ticker,
		Horizon:   h,
		LastDate:  last.Date,
		LastPrice: last.Price,
		Offset:    x,
		Slope:     line.Slope,
		Intercept: line.Intercept,
		Price:     line.At(float64(x)),
	}, nil
}
