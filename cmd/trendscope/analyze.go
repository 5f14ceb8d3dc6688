package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"TrendScope/internal/analyzer"
	"TrendScope/internal/calculator"
	"TrendScope/internal/chart"
	"TrendScope/internal/collector"
	"TrendScope/internal/model"
	"TrendScope/internal/prompt"
	"TrendScope/internal/recorder"
	"TrendScope/internal/report"
	"TrendScope/internal/scheduler"
)

// analyzeCmd implements the "analyze" command.
type analyzeCmd struct {
	tickers  string
	horizon  int
	value    float64
	position float64
	start    string
	end      string
	snapshot string
	charts   string
	plain    bool
	every    string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "computes returns, risk, trend forecasts and an allocation for a set of tickers" }
func (*analyzeCmd) Usage() string {
	return `analyze [-tickers AAPL,MSFT] [-horizon 30] [-value 10000] [-position 1000] [-every "<cron>"]:

	Downloads daily adjusted closes, writes them to a CSV snapshot and prints
	daily returns, annualized volatility, the correlation matrix, a linear
	trend forecast per ticker, an inverse-volatility allocation and the
	1-day historical Value-at-Risk.

	Values not given by flag or config are asked for on the console.
	With -every the analysis re-runs on a six-field cron schedule
	(seconds first) until interrupted; every value must then be set.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "comma-separated ticker symbols")
	f.IntVar(&c.horizon, "horizon", 0, "forecast horizon in trading days")
	f.Float64Var(&c.value, "value", 0, "total portfolio value in USD to allocate")
	f.Float64Var(&c.position, "position", 0, "position size in USD for the 1-day VaR")
	f.StringVar(&c.start, "start", "", "first date to download, YYYY-MM-DD")
	f.StringVar(&c.end, "end", "", "exclusive last date to download, YYYY-MM-DD (default today)")
	f.StringVar(&c.snapshot, "snapshot", "", `CSV snapshot path, "-" to disable`)
	f.StringVar(&c.charts, "charts", "", "directory for forecast charts, disabled when empty")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown instead of styled output")
	f.StringVar(&c.every, "every", "", `re-run on a cron schedule, e.g. "0 0 18 * * 1-5"`)
}

// analysisRun holds the resolved inputs of one analysis.
type analysisRun struct {
	tickers    []string
	horizon    int
	value      float64
	position   float64
	confidence float64
	recentRows int
	start      time.Time
	end        time.Time
	snapshot   string
	charts     string
	plain      bool
}

// complete reports whether the run can proceed without prompting.
func (r *analysisRun) complete() bool {
	return len(r.tickers) > 0 && r.horizon > 0 && r.value > 0 && r.position > 0
}

// resolve merges flags over configuration.
func (c *analyzeCmd) resolve(a *app) (*analysisRun, error) {
	cfg := a.cfg
	r := &analysisRun{
		tickers:    collector.ParseTickers(c.tickers),
		horizon:    c.horizon,
		value:      c.value,
		position:   c.position,
		confidence: cfg.Analysis.Confidence,
		recentRows: cfg.Analysis.RecentRows,
		snapshot:   c.snapshot,
		charts:     c.charts,
		plain:      c.plain,
	}
	if len(r.tickers) == 0 && len(cfg.Analysis.Tickers) > 0 {
		r.tickers = collector.ParseTickers(strings.Join(cfg.Analysis.Tickers, ","))
	}
	if r.horizon == 0 {
		r.horizon = cfg.Analysis.HorizonDays
	}
	if r.value == 0 {
		r.value = cfg.Analysis.PortfolioValue
	}
	if r.position == 0 {
		r.position = cfg.Analysis.Position
	}
	switch r.snapshot {
	case "":
		r.snapshot = cfg.Output.SnapshotPath
	case "-":
		r.snapshot = ""
	}
	if r.charts == "" {
		r.charts = cfg.Output.ChartDir
	}
	if r.horizon < 0 || r.value < 0 || r.position < 0 {
		return nil, fmt.Errorf("%w: horizon, value and position must be positive", prompt.ErrInvalidInput)
	}

	var err error
	if r.start, err = dateFlag(c.start, cfg.Data.Start); err != nil {
		return nil, err
	}
	if r.end, err = dateFlag(c.end, cfg.Data.End); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *analyzeCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if a == nil {
		fmt.Fprintln(os.Stderr, "Error: analyze started without configuration")
		return subcommands.ExitFailure
	}
	if err := a.load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	run, err := c.resolve(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	every := c.every
	if every == "" {
		every = a.cfg.Schedule.Cron
	}
	if every != "" {
		if !run.complete() {
			fmt.Fprintln(os.Stderr, "Error: scheduled runs need -tickers, -horizon, -value and -position (or their config values)")
			return subcommands.ExitUsageError
		}
		sched, err := scheduler.NewScheduler(every, a.log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := sched.Run(ctx, func(ctx context.Context) error { return a.analyzeAll(ctx, run) }, true); err != nil {
			a.log.Error().Err(err).Msg("scheduler failed")
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if run.complete() {
		err = a.analyzeAll(ctx, run)
	} else {
		err = a.analyze(ctx, run, a.prompter())
	}
	if err != nil {
		a.log.Error().Err(err).Msg("analysis failed")
		if errors.Is(err, collector.ErrNoData) {
			fmt.Fprintln(os.Stderr, "No data was downloaded. You may be rate-limited.")
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errNoPrompt = errors.New("value missing and prompting is disabled")

// analyze performs one analysis. Missing values are asked for through p at
// the point they are needed; with a nil p they are an error.
func (a *app) analyze(ctx context.Context, run *analysisRun, p *prompt.Prompter) error {
	var err error
	tickers := run.tickers
	if len(tickers) == 0 {
		if p == nil {
			return fmt.Errorf("tickers: %w", errNoPrompt)
		}
		if tickers, err = p.Tickers(); err != nil {
			return err
		}
	}

	table, series, err := a.loadPrices(ctx, run, tickers)
	if err != nil {
		return err
	}

	an := analyzer.New(a.log)
	m, err := an.Metrics(table)
	if err != nil {
		return err
	}
	r := analyzer.NewReport(table, m, run.recentRows)
	out := a.printer(run.plain)
	if err := out.Print(report.FormatMetrics(r)); err != nil {
		return err
	}

	horizon := run.horizon
	if horizon == 0 {
		if p == nil {
			return fmt.Errorf("horizon: %w", errNoPrompt)
		}
		if horizon, err = p.Horizon(); err != nil {
			return err
		}
	}
	if r.Forecasts, err = an.Forecasts(series, calculator.TradingDayHorizon(horizon)); err != nil {
		return err
	}
	if err := a.drawCharts(run, series, r.Forecasts, horizon); err != nil {
		return err
	}
	if err := out.Print(report.FormatForecasts(r.Forecasts)); err != nil {
		return err
	}

	value := run.value
	if value == 0 {
		if p == nil {
			return fmt.Errorf("portfolio value: %w", errNoPrompt)
		}
		if value, err = p.PortfolioValue(); err != nil {
			return err
		}
	}
	r.PortfolioValue = value
	if r.Allocations, err = an.Allocate(m, value); err != nil {
		return err
	}
	if err := out.Print(report.FormatAllocations(value, r.Allocations)); err != nil {
		return err
	}

	position := run.position
	if position == 0 {
		if p == nil {
			return fmt.Errorf("VaR position: %w", errNoPrompt)
		}
		if position, err = p.Position(); err != nil {
			return err
		}
	}
	if r.VaR, err = an.ValueAtRisk(m, position, run.confidence); err != nil {
		return err
	}
	return out.Print(report.FormatVaR(r.VaR))
}

// analyzeAll runs a fully specified analysis in one pass and prints the
// whole report at once.
func (a *app) analyzeAll(ctx context.Context, run *analysisRun) error {
	if !run.complete() {
		return errNoPrompt
	}
	table, series, err := a.loadPrices(ctx, run, run.tickers)
	if err != nil {
		return err
	}
	r, err := analyzer.New(a.log).Analyze(series, table, analyzer.Options{
		HorizonDays:    run.horizon,
		PortfolioValue: run.value,
		Position:       run.position,
		Confidence:     run.confidence,
		RecentRows:     run.recentRows,
	})
	if err != nil {
		return err
	}
	if err := a.drawCharts(run, series, r.Forecasts, run.horizon); err != nil {
		return err
	}
	return a.printer(run.plain).Print(report.FormatAnalysis(r))
}

// loadPrices downloads the tickers and writes the snapshot.
func (a *app) loadPrices(ctx context.Context, run *analysisRun, tickers []string) (*model.PriceTable, []*model.PriceSeries, error) {
	col, err := a.newCollector()
	if err != nil {
		return nil, nil, err
	}
	table, series, err := col.LoadTable(ctx, tickers, run.start, run.end)
	if err != nil {
		return nil, nil, err
	}

	rec := recorder.New(run.snapshot)
	defer rec.Close()
	if err := rec.WriteSnapshot(table); err != nil {
		return nil, nil, err
	}
	if run.snapshot != "" {
		a.log.Info().Str("path", run.snapshot).Int("rows", len(table.Dates)).Msg("snapshot written")
	}
	return table, series, nil
}

func (a *app) drawCharts(run *analysisRun, series []*model.PriceSeries, forecasts []model.ForecastPoint, horizon int) error {
	paths, err := chart.NewPlotter(run.charts, a.log).DrawAll(series, forecasts, horizon)
	if err != nil {
		return err
	}
	for _, path := range paths {
		a.log.Info().Str("path", path).Msg("chart written")
	}
	return nil
}
