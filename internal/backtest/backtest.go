package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"TrendScope/internal/calculator"
	"TrendScope/internal/collector"
	"TrendScope/internal/model"
)

// ErrNoActual is returned when no observation exists on or before the target date.
var ErrNoActual = errors.New("no realized price on or before target date")

// Window is a training interval and the date the forecast is scored at.
type Window struct {
	TrainStart time.Time
	TrainEnd   time.Time // exclusive
	Target     time.Time
}

// DefaultWindow trains on Q1 2025 and scores at mid April.
func DefaultWindow() Window {
	return Window{
		TrainStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TrainEnd:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Target:     time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	}
}

// Validate checks the ordering TrainStart < TrainEnd <= Target.
func (w Window) Validate() error {
	if !w.TrainStart.Before(w.TrainEnd) {
		return fmt.Errorf("window: train start %s must be before train end %s",
			w.TrainStart.Format(time.DateOnly), w.TrainEnd.Format(time.DateOnly))
	}
	if w.Target.Before(w.TrainEnd) {
		return fmt.Errorf("window: target %s is before train end %s",
			w.Target.Format(time.DateOnly), w.TrainEnd.Format(time.DateOnly))
	}
	return nil
}

// Harness fits the trend on a training window and scores it against the
// realized price at the target date.
type Harness struct {
	collector *collector.Collector
	log       zerolog.Logger
}

// NewHarness creates a Harness reading prices through c.
func NewHarness(c *collector.Collector, log zerolog.Logger) *Harness {
	return &Harness{collector: c, log: log.With().Str("component", "backtest").Logger()}
}

// Run backtests one ticker over w.
func (h *Harness) Run(ctx context.Context, ticker string, w Window) (*model.BacktestResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	train, err := h.collector.LoadSeries(ctx, ticker, w.TrainStart, w.TrainEnd)
	if err != nil {
		return nil, err
	}
	fp, err := calculator.Forecast(train, calculator.CalendarHorizon(w.Target))
	if err != nil {
		return nil, err
	}

	full, err := h.collector.LoadSeries(ctx, ticker, w.TrainStart, model.TradingDay(w.Target).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	actual, err := ResolveActual(full, w.Target)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", ticker, err)
	}

	res, err := Evaluate(ticker, w, fp.Price, actual)
	if err != nil {
		return nil, err
	}
	h.log.Info().
		Str("ticker", ticker).
		Int("offset", fp.Offset).
		Float64("predicted", res.Predicted).
		Float64("actual", res.Actual).
		Time("actual_date", res.ActualDate).
		Float64("pct_error", res.PctError).
		Msg("backtest scored")
	return res, nil
}

// ResolveActual returns the observation on target, or the last one strictly before it.
func ResolveActual(series *model.PriceSeries, target time.Time) (model.PricePoint, error) {
	day := model.TradingDay(target)
	p, ok := series.Until(day).Last()
	if !ok {
		return model.PricePoint{}, fmt.Errorf("%w: %s", ErrNoActual, day.Format(time.DateOnly))
	}
	return p, nil
}

// Evaluate scores a predicted price against the realized observation.
func Evaluate(ticker string, w Window, predicted float64, actual model.PricePoint) (*model.BacktestResult, error) {
	score, err := calculator.ScoreForecast(predicted, actual.Price)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", ticker, err)
	}
	return &model.BacktestResult{
		Ticker:     ticker,
		TrainStart: w.TrainStart,
		TrainEnd:   w.TrainEnd,
		Target:     model.TradingDay(w.Target),
		ActualDate: actual.Date,
		Predicted:  predicted,
		Actual:     actual.Price,
		Error:      score.Error,
		AbsError:   score.AbsError,
		PctError:   score.PctError,
	}, nil
}
