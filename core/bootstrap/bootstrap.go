package bootstrap

import (
	"context"
	"fmt"

	coreconfig "github.com/m3rciful/courtbot/core/config"
	"github.com/m3rciful/courtbot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	// Warmups run after the logger is ready, typically to prefetch
	// reference data. A warmup failure aborts startup.
	Warmups []func(context.Context) error
}

// Run initializes the logger and executes configured warmups.
func Run(ctx context.Context, opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	for _, warmup := range opts.Warmups {
		if warmup == nil {
			continue
		}
		if err := warmup(ctx); err != nil {
			return fmt.Errorf("bootstrap: warmup failed: %w", err)
		}
	}

	return nil
}
