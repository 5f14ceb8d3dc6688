package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"TrendScope/internal/config"
)

var configPath = flag.String("config", "", "path to the YAML config file (default $CONFIG_PATH or "+config.DefaultPath+")")

func newCommander(fs *flag.FlagSet, name string) *subcommands.Commander {
	commander := subcommands.NewCommander(fs, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&analyzeCmd{}, "")
	commander.Register(&backtestCmd{}, "")
	return commander
}

func main() {
	commander := newCommander(flag.CommandLine, path.Base(os.Args[0]))
	flag.Parse()

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		configPath: *configPath,
		log:        zerolog.Nop(),
		stdin:      os.Stdin,
		stdout:     os.Stdout,
	}
	status := commander.Execute(ctx, a)
	stop()
	os.Exit(int(status))
}
