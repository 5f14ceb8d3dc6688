package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScope/internal/model"
)

func seriesOf(ticker string, start time.Time, prices ...float64) *model.PriceSeries {
	s := &model.PriceSeries{Ticker: ticker}
	for i, p := range prices {
		s.Points = append(s.Points, model.PricePoint{Date: start.AddDate(0, 0, i), Price: p})
	}
	return s
}

func TestFitLine_PerfectlyLinear(t *testing.T) {
	line, err := FitLine([]float64{100, 102, 104, 106})
	require.NoError(t, err)
	assert.InDelta(t, 2, line.Slope, 1e-9)
	assert.InDelta(t, 100, line.Intercept, 1e-9)
	assert.InDelta(t, 112, line.At(6), 1e-9)
}

func TestFitLine_Rejects(t *testing.T) {
	_, err := FitLine(nil)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = FitLine([]float64{100})
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestTargetOffset(t *testing.T) {
	last := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		horizon model.Horizon
		want    int
	}{
		{"trading days", TradingDayHorizon(2), 6},
		{"zero trading days", TradingDayHorizon(0), 4},
		{"calendar two weeks", CalendarHorizon(time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)), 18},
		{"calendar intraday target", CalendarHorizon(time.Date(2025, 4, 2, 16, 30, 0, 0, time.UTC)), 5},
		{"calendar in the past", CalendarHorizon(time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetOffset(tt.horizon, 4, last)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetOffset_Invalid(t *testing.T) {
	_, err := TargetOffset(TradingDayHorizon(-1), 4, time.Now())
	assert.Error(t, err)

	_, err = TargetOffset(model.Horizon{Kind: model.HorizonCalendarDate}, 4, time.Now())
	assert.Error(t, err)

	_, err = TargetOffset(model.Horizon{Kind: model.HorizonKind(9)}, 4, time.Now())
	assert.Error(t, err)
}

func TestForecast_TradingDays(t *testing.T) {
	s := seriesOf("AAPL", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 100, 102, 104, 106)

	fp, err := Forecast(s, TradingDayHorizon(2))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", fp.Ticker)
	assert.Equal(t, 6, fp.Offset)
	assert.InDelta(t, 112, fp.Price, 1e-9)
	assert.Equal(t, 106.0, fp.LastPrice)
}

func TestForecast_CalendarDate(t *testing.T) {
	s := seriesOf("MSFT", time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC), 100, 102, 104, 106)

	// last date 2025-04-01, 14 days to target
	fp, err := Forecast(s, CalendarHorizon(time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 18, fp.Offset)
	assert.InDelta(t, 136, fp.Price, 1e-9)
}

func TestForecast_Idempotent(t *testing.T) {
	s := seriesOf("GOOG", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 140.2, 141.9, 139.5, 143.3, 145.0, 144.1)
	first, err := Forecast(s, TradingDayHorizon(30))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Forecast(s, TradingDayHorizon(30))
		require.NoError(t, err)
		assert.Equal(t, first.Price, again.Price)
	}
}

func TestForecast_EmptySeries(t *testing.T) {
	_, err := Forecast(&model.PriceSeries{Ticker: "X"}, TradingDayHorizon(1))
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Forecast(seriesOf("X", time.Now(), 10), TradingDayHorizon(1))
	assert.ErrorIs(t, err, ErrTooFewPoints)
}
