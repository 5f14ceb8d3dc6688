package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"TrendScope/internal/collector"
	"TrendScope/internal/config"
	"TrendScope/internal/logger"
	"TrendScope/internal/prompt"
	"TrendScope/internal/report"
)

// app is the state shared by every command, passed through Execute.
// Configuration is loaded by the commands that need it, so help and flags
// work with a broken config file.
type app struct {
	configPath string
	cfg        *config.Config
	log        zerolog.Logger
	stdin      io.Reader
	stdout     io.Writer

	// fetcher overrides the configured data source when set.
	fetcher collector.Fetcher
}

func appFrom(args []interface{}) *app {
	if len(args) == 0 {
		return nil
	}
	a, _ := args[0].(*app)
	return a
}

// load reads and validates the configuration and sets up logging. It is a
// no-op once a configuration is present.
func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}
	path := a.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(a.log)
	return nil
}

// newFetcher builds the configured price source.
func (a *app) newFetcher() (collector.Fetcher, error) {
	if a.fetcher != nil {
		return a.fetcher, nil
	}
	d := a.cfg.Data
	switch d.Source {
	case "yahoo":
		return collector.NewYahooFetcher(a.cfg.Proxy, d.Timeout), nil
	case "yfinance":
		return collector.NewYFinanceFetcher(a.log), nil
	case "rest":
		return collector.NewRESTFetcher(d.BaseURL, d.APIKey, a.cfg.Proxy, d.Timeout), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", d.Source)
	}
}

func (a *app) newCollector() (*collector.Collector, error) {
	f, err := a.newFetcher()
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("source", f.Name()).Msg("data source selected")
	return collector.NewCollector(f, a.log), nil
}

func (a *app) printer(plain bool) *report.Printer {
	return report.NewPrinter(a.stdout, plain || a.cfg.Output.Plain)
}

func (a *app) prompter() *prompt.Prompter {
	return prompt.New(a.stdin, a.stdout)
}

// dateFlag returns the flag value when set, otherwise the configured one.
func dateFlag(flagValue, configured string) (time.Time, error) {
	if flagValue != "" {
		return config.ParseDate(flagValue)
	}
	return config.ParseDate(configured)
}
