package jobs

import (
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/adapters/out/rabbitmq"
)

// EventRelayJob consumes OrderCreated events and hands each one to the relay.
type EventRelayJob struct {
	loop   *consumerLoop
	handle rabbitmq.DeliveryHandler
}

// NewEventRelayJob creates the job. handle is usually (*relay.Relay).HandleDelivery.
func NewEventRelayJob(
	source DeliverySource,
	handle rabbitmq.DeliveryHandler,
	drainTimeout time.Duration,
	logger *slog.Logger,
) *EventRelayJob {
	return &EventRelayJob{
		loop:   newConsumerLoop(source, drainTimeout, logger.With("component", "event_relay_job")),
		handle: handle,
	}
}

func (j *EventRelayJob) Start() error {
	return j.loop.start(j.handle)
}

func (j *EventRelayJob) Stop() {
	j.loop.stop()
}
