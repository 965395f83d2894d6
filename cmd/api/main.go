package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/GregTMJ/Orders-API/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("api: %v", err)
	}
}

func run() error {
	root, release, err := cmd.Bootstrap()
	if err != nil {
		return err
	}
	defer release()

	logger := root.Logger()

	if err = root.Migrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	e, err := root.CreateHTTPRouter()
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(root.Config().HTTPAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	logger.Info("HTTP server started", "addr", root.Config().HTTPAddr())

	shutdown, stop := cmd.ShutdownContext()
	defer stop()

	select {
	case err = <-serverErr:
		return fmt.Errorf("serve HTTP: %w", err)
	case <-shutdown.Done():
	}
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancel()
	if err = e.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	return nil
}
