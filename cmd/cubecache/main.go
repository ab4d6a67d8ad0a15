package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oscarhermoso/cubecache/config"
	"github.com/oscarhermoso/cubecache/internal/cli"
	"github.com/oscarhermoso/cubecache/internal/logging"
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), cli.Usage)
		flag.PrintDefaults()
	}
	opts, err := cli.ParseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		exitf("Error: %v\n\n%s", err, cli.Usage)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		exitf("Error: %v", err)
	}

	level, _ := logging.ParseLogLevel(cfg.Log.Level)
	logger := logging.NewLogger(logging.LogConfig{Level: level, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Command == "ensure-bucket" {
		if err := cli.EnsureBucket(ctx, cfg); err != nil {
			exitf("Error: %v", err)
		}
		return
	}

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		exitf("Error: %v", err)
	}
	defer app.Close()

	if err := cli.Run(ctx, app, opts.Command, opts.Args, os.Stdin, os.Stdout); err != nil {
		_ = app.Close()
		exitf("Error: %v", err)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
