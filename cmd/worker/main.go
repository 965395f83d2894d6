package main

import (
	"fmt"

	"github.com/GregTMJ/Orders-API/cmd"
	"github.com/GregTMJ/Orders-API/internal/jobs"

	"github.com/labstack/gommon/log"
)

// The worker runs process_order jobs from the task queue.
func main() {
	if err := run(); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func run() error {
	root, release, err := cmd.Bootstrap()
	if err != nil {
		return err
	}
	defer release()

	logger := root.Logger()

	if root.Config().WorkerDedupe {
		if err = root.Migrate(); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	jm := jobs.NewJobManager(root.CreateWorkerJobs()...)
	if err = jm.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jm.StopAll()
	logger.Info("Worker started", "concurrency", root.Config().WorkerConcurrency, "dedupe", root.Config().WorkerDedupe)

	sig := cmd.WaitForShutdown()
	logger.Info("Shutting down", "signal", sig.String())
	return nil
}
