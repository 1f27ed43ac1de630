package main

import (
	"context"
	"fmt"

	"github.com/msgtobala/user-story-generator/config"
	"github.com/msgtobala/user-story-generator/internal/bootstrap"
	"github.com/msgtobala/user-story-generator/internal/logging"
)

// openApp loads the configuration and opens the backends for one command.
func openApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logging.SetBase(logger)

	return bootstrap.New(ctx, cfg, logger)
}
