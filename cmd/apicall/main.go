package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/efrevillelm/RPHTTPServiceClient/internal/app"
	"github.com/efrevillelm/RPHTTPServiceClient/internal/config"
	"github.com/efrevillelm/RPHTTPServiceClient/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "apicall failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: apicall <endpoint-id>")
	}
	endpointID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	caller, err := app.NewCaller(cfg, logger.Zap{})
	if err != nil {
		logger.ErrorObj("failed to initialize caller", "error", err)
		return err
	}

	body, err := caller.Call(ctx, endpointID)
	if err != nil {
		return err
	}

	fmt.Println(string(body))
	return nil
}
