package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const ShutdownTimeout = 30 * time.Second

// Bootstrap loads the configuration, builds the composition root and acquires
// its resources. The returned release func stops them again and must be
// called once the process is done with the root.
func Bootstrap() (*CompositionRoot, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	root, err := NewCompositionRoot(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build composition root: %w", err)
	}

	seq := root.Lifecycle()
	if err = seq.Start(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("start resources: %w", err)
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := seq.Stop(ctx); err != nil {
			logger.Error("Failed to release resources", "error", err)
		}
	}
	return root, release, nil
}

// ShutdownContext is cancelled on SIGINT or SIGTERM.
func ShutdownContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// WaitForShutdown blocks until SIGINT or SIGTERM.
func WaitForShutdown() os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)
	return <-sig
}

func (c *CompositionRoot) Config() Config {
	return c.cfg
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}
