package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	HeaderTaskName    = "task_name"
	HeaderContentType = "content-type"
)

// declareRoute declares a durable direct exchange and a durable queue bound to
// it with the queue name as routing key. An empty exchange only declares the
// queue, which the default exchange already routes to by name.
func declareRoute(ch Channel, exchange, queue string) error {
	if exchange != "" {
		if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if exchange != "" {
		if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", queue, exchange, err)
		}
	}
	return nil
}

// TaskName reads the task_name header of a delivery. It is empty when the
// header is absent or not a string.
func TaskName(d amqp.Delivery) string {
	name, _ := d.Headers[HeaderTaskName].(string)
	return name
}
