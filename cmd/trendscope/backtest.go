package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"TrendScope/internal/backtest"
	"TrendScope/internal/report"
)

// backtestCmd implements the "backtest" command.
type backtestCmd struct {
	ticker     string
	trainStart string
	trainEnd   string
	target     string
	plain      bool
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "scores the linear trend forecast against a realized price" }
func (*backtestCmd) Usage() string {
	return `backtest [-ticker AAPL] [-train-start 2025-01-01] [-train-end 2025-04-01] [-target 2025-04-15]:

	Fits the trend line on the training window, projects it to the target
	date and compares it with the close on that date, or on the last
	trading day before it.
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "ticker symbol to backtest")
	f.StringVar(&c.trainStart, "train-start", "", "first training date, YYYY-MM-DD")
	f.StringVar(&c.trainEnd, "train-end", "", "exclusive end of the training window, YYYY-MM-DD")
	f.StringVar(&c.target, "target", "", "date the forecast is scored at, YYYY-MM-DD")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown instead of styled output")
}

// window merges flags over configuration.
func (c *backtestCmd) window(a *app) (backtest.Window, error) {
	var (
		w   backtest.Window
		err error
	)
	bt := a.cfg.Backtest
	if w.TrainStart, err = dateFlag(c.trainStart, bt.TrainStart); err != nil {
		return w, err
	}
	if w.TrainEnd, err = dateFlag(c.trainEnd, bt.TrainEnd); err != nil {
		return w, err
	}
	if w.Target, err = dateFlag(c.target, bt.Target); err != nil {
		return w, err
	}
	return w, w.Validate()
}

func (c *backtestCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if a == nil {
		fmt.Fprintln(os.Stderr, "Error: backtest started without configuration")
		return subcommands.ExitFailure
	}
	if err := a.load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	w, err := c.window(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := a.backtest(ctx, c.ticker, w, c.plain); err != nil {
		a.log.Error().Err(err).Msg("backtest failed")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (a *app) backtest(ctx context.Context, ticker string, w backtest.Window, plain bool) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		ticker = strings.ToUpper(strings.TrimSpace(a.cfg.Backtest.Ticker))
	}
	if ticker == "" {
		var err error
		if ticker, err = a.prompter().Ticker(); err != nil {
			return err
		}
	}

	col, err := a.newCollector()
	if err != nil {
		return err
	}
	res, err := backtest.NewHarness(col, a.log).Run(ctx, ticker, w)
	if err != nil {
		return err
	}
	return a.printer(plain).Print(report.FormatBacktest(res))
}
