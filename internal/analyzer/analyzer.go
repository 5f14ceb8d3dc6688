package analyzer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"TrendScope/internal/calculator"
	"TrendScope/internal/model"
)

// Options are the user inputs of a full analysis run.
type Options struct {
	HorizonDays    int
	PortfolioValue float64
	Position       float64
	Confidence     float64
	RecentRows     int
}

// Metrics holds the return statistics of a date-aligned price table.
type Metrics struct {
	Tickers     []string
	Dates       []time.Time // one per return row
	Returns     [][]float64 // Returns[col] is the daily return column of Tickers[col]
	Cumulative  [][]float64
	Volatility  []model.Volatility
	Correlation [][]float64
}

// VolatilityMap returns ticker -> annualized volatility.
func (m *Metrics) VolatilityMap() map[string]float64 {
	out := make(map[string]float64, len(m.Volatility))
	for _, v := range m.Volatility {
		out[v.Ticker] = v.Value
	}
	return out
}

// Recent returns the last n return rows, oldest first.
func (m *Metrics) Recent(n int) []model.ReturnRow {
	start := len(m.Dates) - n
	if n <= 0 || start < 0 {
		start = 0
	}
	rows := make([]model.ReturnRow, 0, len(m.Dates)-start)
	for i := start; i < len(m.Dates); i++ {
		row := model.ReturnRow{Date: m.Dates[i], Returns: make([]float64, len(m.Tickers))}
		for j := range m.Tickers {
			row.Returns[j] = m.Returns[j][i]
		}
		rows = append(rows, row)
	}
	return rows
}

// Analyzer derives metrics, forecasts, allocations and VaR from loaded prices.
type Analyzer struct {
	log zerolog.Logger
}

// New creates an Analyzer.
func New(log zerolog.Logger) *Analyzer {
	return &Analyzer{log: log.With().Str("component", "analyzer").Logger()}
}

// Metrics computes daily and cumulative returns, annualized volatility and the
// correlation matrix on the rows where every ticker has a price.
func (a *Analyzer) Metrics(table *model.PriceTable) (*Metrics, error) {
	complete := table.Complete()
	if len(complete.Dates) < len(table.Dates) {
		a.log.Warn().
			Int("rows", len(table.Dates)).
			Int("aligned", len(complete.Dates)).
			Msg("dropping rows where some tickers have no price")
	}
	if len(complete.Dates) < 3 {
		return nil, fmt.Errorf("metrics: %w: %d aligned rows", calculator.ErrTooFewPoints, len(complete.Dates))
	}

	m := &Metrics{
		Tickers: complete.Tickers,
		Dates:   complete.Dates[1:],
	}
	for j, ticker := range complete.Tickers {
		prices := make([]float64, len(complete.Dates))
		for i := range complete.Dates {
			prices[i] = complete.Values[i][j]
		}
		returns, err := calculator.DailyReturns(prices)
		if err != nil {
			return nil, fmt.Errorf("metrics %s: %w", ticker, err)
		}
		vol, err := calculator.AnnualizedVolatility(returns)
		if err != nil {
			return nil, fmt.Errorf("metrics %s: %w", ticker, err)
		}
		m.Returns = append(m.Returns, returns)
		m.Cumulative = append(m.Cumulative, calculator.CumulativeReturns(returns))
		m.Volatility = append(m.Volatility, model.Volatility{Ticker: ticker, Value: vol})
	}

	corr, err := calculator.CorrelationMatrix(m.Returns)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	m.Correlation = corr
	return m, nil
}

// Forecasts extrapolates each series to the horizon.
func (a *Analyzer) Forecasts(series []*model.PriceSeries, h model.Horizon) ([]model.ForecastPoint, error) {
	out := make([]model.ForecastPoint, 0, len(series))
	for _, s := range series {
		fp, err := calculator.Forecast(s, h)
		if err != nil {
			return nil, err
		}
		a.log.Debug().
			Str("ticker", s.Ticker).
			Float64("slope", fp.Slope).
			Float64("intercept", fp.Intercept).
			Int("offset", fp.Offset).
			Float64("forecast", fp.Price).
			Msg("trend fitted")
		out = append(out, fp)
	}
	return out, nil
}

// Allocate recommends an inverse-volatility allocation of portfolioValue.
func (a *Analyzer) Allocate(m *Metrics, portfolioValue float64) ([]model.Allocation, error) {
	weights, err := calculator.InverseVolatilityWeights(m.VolatilityMap())
	if err != nil {
		return nil, err
	}
	return calculator.Allocate(weights, portfolioValue)
}

// ValueAtRisk estimates one-day historical VaR per ticker for a position size.
func (a *Analyzer) ValueAtRisk(m *Metrics, position, confidence float64) ([]model.ValueAtRisk, error) {
	out := make([]model.ValueAtRisk, 0, len(m.Tickers))
	for j, ticker := range m.Tickers {
		if n := len(m.Returns[j]); n < calculator.MinVaRObservations {
			a.log.Warn().
				Str("ticker", ticker).
				Int("observations", n).
				Int("recommended", calculator.MinVaRObservations).
				Msg("small sample, VaR percentile is unstable")
		}
		v, err := calculator.HistoricalVaR(ticker, m.Returns[j], confidence, position)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Analyze runs every step without interaction and assembles the report.
func (a *Analyzer) Analyze(series []*model.PriceSeries, table *model.PriceTable, opts Options) (*model.Report, error) {
	if opts.Confidence == 0 {
		opts.Confidence = calculator.DefaultVaRConfidence
	}
	m, err := a.Metrics(table)
	if err != nil {
		return nil, err
	}
	r := NewReport(table, m, opts.RecentRows)

	if r.Forecasts, err = a.Forecasts(series, calculator.TradingDayHorizon(opts.HorizonDays)); err != nil {
		return nil, err
	}
	r.PortfolioValue = opts.PortfolioValue
	if r.Allocations, err = a.Allocate(m, opts.PortfolioValue); err != nil {
		return nil, err
	}
	if r.VaR, err = a.ValueAtRisk(m, opts.Position, opts.Confidence); err != nil {
		return nil, err
	}
	return r, nil
}

// NewReport starts a report with the metrics section filled in.
func NewReport(table *model.PriceTable, m *Metrics, recentRows int) *model.Report {
	r := &model.Report{
		Tickers:       m.Tickers,
		RecentReturns: m.Recent(recentRows),
		Volatility:    m.Volatility,
		Correlation:   m.Correlation,
		Cumulative:    make(map[string]float64, len(m.Tickers)),
		GeneratedAt:   time.Now(),
	}
	if !table.Empty() {
		r.From = table.Dates[0]
		r.To = table.Dates[len(table.Dates)-1]
	}
	for j, ticker := range m.Tickers {
		if c := m.Cumulative[j]; len(c) > 0 {
			r.Cumulative[ticker] = c[len(c)-1]
		}
	}
	return r
}
