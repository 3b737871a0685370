package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func run(envFile string) error {
	config, err := LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	SetLogLevel(StringEnv("LOG_LEVEL", "INFO"))

	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	var store ResultsStore
	if config.ResultsDbUrl != "" {
		storage, err := OpenStorage(config.ResultsDbUrl)
		if err != nil {
			return fmt.Errorf("failed to open results db: %w", err)
		}
		defer storage.Close()
		err = storage.Init(context.Background(), info.Parameters())
		if err != nil {
			return fmt.Errorf("failed to initialize results db: %w", err)
		}
		store = storage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	invoker := &Invoker{ClearCaches: config.ClearCaches, Timeout: config.RunTimeout}
	harness := NewHarness(config, DefaultStrategies(config), invoker, NewMetrics(), store, info)
	if err := harness.Run(ctx); err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}
	return nil
}

func main() {
	err := run(".env")
	Logger.Sync()
	if err != nil {
		Logger.Fatal(err)
	}
}
