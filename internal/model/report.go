package model

import "time"

// HorizonKind tags how a forecast target offset is derived.
type HorizonKind int

const (
	// HorizonTradingDays projects a fixed number of trading days past the last observation.
	HorizonTradingDays HorizonKind = iota
	// HorizonCalendarDate projects to a calendar date, counted in elapsed days.
	HorizonCalendarDate
)

func (k HorizonKind) String() string {
	switch k {
	case HorizonTradingDays:
		return "trading-days"
	case HorizonCalendarDate:
		return "calendar-date"
	default:
		return "unknown"
	}
}

// Horizon is the tagged forecast horizon. Days is used by HorizonTradingDays,
// Target by HorizonCalendarDate.
type Horizon struct {
	Kind   HorizonKind
	Days   int
	Target time.Time
}

// ForecastPoint is a projected price at an integer offset past the series start.
type ForecastPoint struct {
	Ticker    string
	Horizon   Horizon
	LastDate  time.Time
	LastPrice float64
	Offset    int
	Slope     float64
	Intercept float64
	Price     float64
}

// Volatility is the annualized volatility of one ticker.
type Volatility struct {
	Ticker string
	Value  float64
}

// Allocation is the inverse-volatility recommendation for one ticker.
type Allocation struct {
	Ticker string
	Weight float64
	Amount float64
}

// ValueAtRisk is a one-day historical VaR estimate for one ticker.
type ValueAtRisk struct {
	Ticker       string
	Confidence   float64
	Ratio        float64 // loss percentile, fraction of the position
	Amount       float64
	Position     float64
	Observations int
}

// ReturnRow is one date of aligned daily returns.
type ReturnRow struct {
	Date    time.Time
	Returns []float64
}

// Report holds everything produced by one analysis run.
type Report struct {
	Tickers        []string
	From, To       time.Time
	RecentReturns  []ReturnRow
	Cumulative     map[string]float64 // final cumulative growth factor per ticker
	Volatility     []Volatility
	Correlation    [][]float64
	Forecasts      []ForecastPoint
	PortfolioValue float64
	Allocations    []Allocation
	VaR            []ValueAtRisk
	GeneratedAt    time.Time
}

// BacktestResult scores one forecast against the realized price.
type BacktestResult struct {
	Ticker     string
	TrainStart time.Time
	TrainEnd   time.Time
	Target     time.Time
	ActualDate time.Time
	Predicted  float64
	Actual     float64
	Error      float64
	AbsError   float64
	PctError   float64
}
