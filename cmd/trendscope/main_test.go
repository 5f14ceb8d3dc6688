package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScope/internal/backtest"
	"TrendScope/internal/collector"
	"TrendScope/internal/config"
	"TrendScope/internal/model"
)

func testApp(t *testing.T, stdin string, f collector.Fetcher) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Data.Source = "mock"
	cfg.Analysis.Confidence = 0.95
	cfg.Analysis.RecentRows = 5
	cfg.Output.Plain = true
	var out bytes.Buffer
	return &app{
		cfg:     cfg,
		log:     zerolog.Nop(),
		stdin:   strings.NewReader(stdin),
		stdout:  &out,
		fetcher: f,
	}, &out
}

func testRun(t *testing.T) *analysisRun {
	return &analysisRun{
		confidence: 0.95,
		recentRows: 5,
		start:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		end:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		snapshot:   filepath.Join(t.TempDir(), "data", "adj_close.csv"),
		charts:     filepath.Join(t.TempDir(), "charts"),
		plain:      true,
	}
}

func TestAnalyze_Interactive(t *testing.T) {
	a, out := testApp(t, "aapl, msft\n5\n10000\n1000\n", &collector.MockFetcher{Price: 100})
	run := testRun(t)

	require.NoError(t, a.analyze(context.Background(), run, a.prompter()))

	text := out.String()
	assert.Contains(t, text, "# TrendScope | AAPL, MSFT")
	assert.Contains(t, text, "## Daily Returns")
	assert.Contains(t, text, "## Trend Forecast")
	assert.Contains(t, text, "## Allocation of $10,000.00")
	assert.Contains(t, text, "| AAPL | 50.00% | $5,000.00 |")
	assert.Contains(t, text, "## 1-Day Value at Risk (95%, position $1,000.00)")
	assert.Less(t, strings.Index(text, "Daily Returns"), strings.Index(text, "forecast horizon"))

	snap, err := os.ReadFile(run.snapshot)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(snap), "Date,AAPL,MSFT\n2025-01-01,100,100\n"))

	_, err = os.Stat(filepath.Join(run.charts, "AAPL_forecast.png"))
	assert.NoError(t, err)
}

func TestAnalyzeAll_Complete(t *testing.T) {
	a, out := testApp(t, "", &collector.MockFetcher{Price: 50})
	run := testRun(t)
	run.tickers = []string{"SPY", "QQQ"}
	run.horizon, run.value, run.position = 10, 2000, 500

	require.True(t, run.complete())
	require.NoError(t, a.analyzeAll(context.Background(), run))

	text := out.String()
	assert.Contains(t, text, "# TrendScope | SPY, QQQ")
	assert.Contains(t, text, "## Trend Forecast")
	assert.Contains(t, text, "| SPY | 50.00% | $1,000.00 |")
	assert.Contains(t, text, "## 1-Day Value at Risk (95%, position $500.00)")
	assert.NotContains(t, text, "Enter")

	_, err := os.Stat(run.snapshot)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(run.charts, "QQQ_forecast.png"))
	assert.NoError(t, err)
}

func TestAnalyzeAll_Incomplete(t *testing.T) {
	a, _ := testApp(t, "", &collector.MockFetcher{Price: 50})
	run := testRun(t)
	run.tickers = []string{"SPY"}

	assert.ErrorIs(t, a.analyzeAll(context.Background(), run), errNoPrompt)
}

func TestAnalyze_MissingValueWithoutPrompt(t *testing.T) {
	a, _ := testApp(t, "", &collector.MockFetcher{Price: 50})
	run := testRun(t)
	run.tickers = []string{"SPY"}

	err := a.analyze(context.Background(), run, nil)
	assert.ErrorIs(t, err, errNoPrompt)
}

func TestAnalyze_NoDataAborts(t *testing.T) {
	a, out := testApp(t, "ZZZZ\n", &collector.MockFetcher{Bars: map[string][]model.OHLCV{}})
	run := testRun(t)

	err := a.analyze(context.Background(), run, a.prompter())
	assert.ErrorIs(t, err, collector.ErrNoData)
	assert.NotContains(t, out.String(), "# TrendScope")
	_, statErr := os.Stat(run.snapshot)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAnalyzeCmd_Resolve(t *testing.T) {
	a, _ := testApp(t, "", nil)
	a.cfg.Analysis.Tickers = []string{"aapl", "MSFT"}
	a.cfg.Analysis.HorizonDays = 30
	a.cfg.Output.SnapshotPath = "data/adj_close.csv"
	a.cfg.Data.Start = "2020-01-01"

	c := &analyzeCmd{horizon: 5, snapshot: "-", start: "2024-06-03"}
	run, err := c.resolve(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, run.tickers)
	assert.Equal(t, 5, run.horizon)
	assert.Equal(t, "", run.snapshot)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), run.start)
	assert.True(t, run.end.IsZero())
	assert.False(t, run.complete())

	_, err = (&analyzeCmd{start: "June"}).resolve(a)
	assert.Error(t, err)
}

func TestBacktest_PromptsForTicker(t *testing.T) {
	a, out := testApp(t, "spy\n", &collector.MockFetcher{Price: 400})

	require.NoError(t, a.backtest(context.Background(), "", backtest.DefaultWindow(), true))
	text := out.String()
	assert.Contains(t, text, "# Backtest | SPY")
	assert.Contains(t, text, "- Trained on: 2025-01-01 to 2025-04-01")
	assert.Contains(t, text, "- Forecast date: 2025-04-15")
}

func TestBacktestCmd_Window(t *testing.T) {
	a, _ := testApp(t, "", nil)
	a.cfg.Backtest.TrainStart = "2025-01-01"
	a.cfg.Backtest.TrainEnd = "2025-04-01"
	a.cfg.Backtest.Target = "2025-04-15"

	w, err := (&backtestCmd{target: "2025-05-01"}).window(a)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), w.Target)

	_, err = (&backtestCmd{target: "2025-03-01"}).window(a)
	assert.Error(t, err)
}

func TestApp_LoadRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("data: [unclosed\n"), 0o644))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("data:\n  source: carrier-pigeon\n"), 0o644))

	err := (&app{configPath: broken}).load()
	assert.ErrorContains(t, err, "load config")

	err = (&app{configPath: invalid}).load()
	assert.ErrorContains(t, err, "config validation")
}

func TestApp_LoadKeepsPresetConfig(t *testing.T) {
	a, _ := testApp(t, "", nil)
	cfg := a.cfg
	a.configPath = filepath.Join(t.TempDir(), "missing.yaml")

	require.NoError(t, a.load())
	assert.Same(t, cfg, a.cfg)
}

func TestCommander_BadConfigOnlyFailsCommandsThatNeedIt(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("data: [unclosed\n"), 0o644))

	run := func(args ...string) subcommands.ExitStatus {
		fs := flag.NewFlagSet("trendscope", flag.ContinueOnError)
		cdr := newCommander(fs, "trendscope")
		cdr.Output, cdr.Error = io.Discard, io.Discard
		require.NoError(t, fs.Parse(args))
		a := &app{configPath: broken, log: zerolog.Nop(), stdout: io.Discard}
		return cdr.Execute(context.Background(), a)
	}

	assert.Equal(t, subcommands.ExitSuccess, run("help"))
	assert.Equal(t, subcommands.ExitSuccess, run("help", "analyze"))
	assert.Equal(t, subcommands.ExitSuccess, run("flags"))
	assert.Equal(t, subcommands.ExitFailure, run("analyze"))
	assert.Equal(t, subcommands.ExitFailure, run("backtest"))
}
