package report

import (
	"fmt"
	"strings"
	"time"

	"TrendScope/internal/model"
)

// DefaultRecentRows is how many daily return rows the metrics section shows.
const DefaultRecentRows = 5

// FormatMetrics formats the header, recent daily returns, annualized
// volatility and the correlation matrix.
func FormatMetrics(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# TrendScope | %s\n\n", strings.Join(r.Tickers, ", ")))
	if !r.From.IsZero() {
		b.WriteString(fmt.Sprintf("Data: %s to %s\n\n", r.From.Format(time.DateOnly), r.To.Format(time.DateOnly)))
	}

	b.WriteString("## Daily Returns\n\n")
	b.WriteString(tableHeader("Date", r.Tickers))
	for _, row := range r.RecentReturns {
		cells := make([]string, len(row.Returns))
		for i, v := range row.Returns {
			cells[i] = Percent(v, 2)
		}
		b.WriteString(tableRow(row.Date.Format(time.DateOnly), cells))
	}

	b.WriteString("\n## Annualized Volatility\n\n")
	b.WriteString("| Ticker | Volatility | Cumulative Return |\n|---|---|---|\n")
	for _, v := range r.Volatility {
		cum := "n/a"
		if c, ok := r.Cumulative[v.Ticker]; ok {
			cum = Percent(c-1, 2)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", v.Ticker, Percent(v.Value, 2), cum))
	}

	b.WriteString("\n## Correlation Matrix\n\n")
	b.WriteString(tableHeader("", r.Tickers))
	for i, row := range r.Correlation {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = Fixed(v, 4)
		}
		b.WriteString(tableRow(r.Tickers[i], cells))
	}
	return b.String()
}

// FormatForecasts formats one forecast line per ticker.
func FormatForecasts(forecasts []model.ForecastPoint) string {
	var b strings.Builder
	b.WriteString("## Trend Forecast\n\n")
	b.WriteString("| Ticker | Last Close | Horizon | Forecast | Change |\n|---|---|---|---|---|\n")
	for _, fp := range forecasts {
		change := "n/a"
		if fp.LastPrice != 0 {
			change = Percent(fp.Price/fp.LastPrice-1, 2)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			fp.Ticker, Fixed(fp.LastPrice, 2), horizonLabel(fp.Horizon), Fixed(fp.Price, 2), change))
	}
	return b.String()
}

// FormatAllocations formats the inverse-volatility allocation of a portfolio.
func FormatAllocations(value float64, allocs []model.Allocation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## Allocation of %s\n\n", Money(value)))
	b.WriteString("| Ticker | Weight | Amount |\n|---|---|---|\n")
	for _, a := range allocs {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", a.Ticker, Percent(a.Weight, 2), Money(a.Amount)))
	}
	return b.String()
}

// FormatVaR formats one-day historical Value-at-Risk per ticker.
func FormatVaR(vars []model.ValueAtRisk) string {
	var b strings.Builder
	if len(vars) == 0 {
		return ""
	}
	b.WriteString(fmt.Sprintf("## 1-Day Value at Risk (%s, position %s)\n\n",
		Percent(vars[0].Confidence, 0), Money(vars[0].Position)))
	b.WriteString("| Ticker | Loss | VaR |\n|---|---|---|\n")
	for _, v := range vars {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", v.Ticker, Percent(v.Ratio, 2), Money(v.Amount)))
	}
	return b.String()
}

// FormatAnalysis formats every section of a report present so far.
func FormatAnalysis(r *model.Report) string {
	parts := []string{FormatMetrics(r)}
	if len(r.Forecasts) > 0 {
		parts = append(parts, FormatForecasts(r.Forecasts))
	}
	if len(r.Allocations) > 0 {
		parts = append(parts, FormatAllocations(r.PortfolioValue, r.Allocations))
	}
	if len(r.VaR) > 0 {
		parts = append(parts, FormatVaR(r.VaR))
	}
	return strings.Join(parts, "\n")
}

// FormatBacktest formats the outcome of a backtest.
func FormatBacktest(res *model.BacktestResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Backtest | %s\n\n", res.Ticker))
	b.WriteString(fmt.Sprintf("- Trained on: %s to %s\n",
		res.TrainStart.Format(time.DateOnly), res.TrainEnd.Format(time.DateOnly)))
	b.WriteString(fmt.Sprintf("- Forecast date: %s\n", res.Target.Format(time.DateOnly)))
	if !res.ActualDate.Equal(res.Target) {
		b.WriteString(fmt.Sprintf("- Actual taken from: %s\n", res.ActualDate.Format(time.DateOnly)))
	}
	b.WriteString(fmt.Sprintf("- Predicted: %s\n", Money(res.Predicted)))
	b.WriteString(fmt.Sprintf("- Actual: %s\n", Money(res.Actual)))
	b.WriteString(fmt.Sprintf("- Absolute error: %s\n", Money(res.AbsError)))
	b.WriteString(fmt.Sprintf("- Percentage error: %s%%\n", Fixed(res.PctError, 2)))
	return b.String()
}

func horizonLabel(h model.Horizon) string {
	if h.Kind == model.HorizonCalendarDate {
		return h.Target.Format(time.DateOnly)
	}
	return fmt.Sprintf("+%d days", h.Days)
}

func tableHeader(first string, cols []string) string {
	var b strings.Builder
	b.WriteString("| " + first)
	for _, c := range cols {
		b.WriteString(" | " + c)
	}
	b.WriteString(" |\n|---")
	for range cols {
		b.WriteString("|---")
	}
	b.WriteString("|\n")
	return b.String()
}

func tableRow(first string, cells []string) string {
	return "| " + first + " | " + strings.Join(cells, " | ") + " |\n"
}
