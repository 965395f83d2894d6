package main

import (
	"fmt"

	"github.com/GregTMJ/Orders-API/cmd"
	"github.com/GregTMJ/Orders-API/internal/jobs"

	"github.com/labstack/gommon/log"
)

// The consumer relays OrderCreated events to the task queue. Unless
// WORKER_DEDICATED is set it also runs the task worker.
func main() {
	if err := run(); err != nil {
		log.Fatalf("consumer: %v", err)
	}
}

func run() error {
	root, release, err := cmd.Bootstrap()
	if err != nil {
		return err
	}
	defer release()

	logger := root.Logger()

	consumerJobs := []jobs.Job{root.CreateEventRelayJob()}
	if !root.Config().WorkerDedicated {
		if root.Config().WorkerDedupe {
			if err = root.Migrate(); err != nil {
				return fmt.Errorf("migrate schema: %w", err)
			}
		}
		consumerJobs = append(consumerJobs, root.CreateWorkerJobs()...)
	}

	jm := jobs.NewJobManager(consumerJobs...)
	if err = jm.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jm.StopAll()
	logger.Info("Consumer started", "colocated_worker", !root.Config().WorkerDedicated)

	sig := cmd.WaitForShutdown()
	logger.Info("Shutting down", "signal", sig.String())
	return nil
}
