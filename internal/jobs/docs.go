// Package jobs provides the background tasks of the order pipeline.
//
// # Available Jobs
//
// 1. OrderProcessingWorker - consumes process_order jobs from the task queue
// and runs them through ProcessOrderCommandHandler
// 2. EventRelayJob - consumes OrderCreated events and hands them to the relay
// 3. ProcessedJobsCleanupJob - cron job (github.com/robfig/cron/v3) purging
// the processed job log used for worker dedupe
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(relayJob, worker, cleanupJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - Malformed and failed jobs are rejected without requeue
//   - Jobs interrupted by shutdown are requeued
//   - Cleanup failures are logged and retried on the next tick
//   - Failed job starts will stop any already running jobs
package jobs
