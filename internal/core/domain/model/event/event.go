// Package event defines the notifications exchanged between the HTTP write
// path, the broker relay and the task worker.
package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
)

const (
	// TaskNewOrder is the task_name header carried by OrderCreated messages.
	TaskNewOrder = "new_order"

	// TaskProcessOrder is the task_name header of jobs on the task queue.
	TaskProcessOrder = "process_order"

	// ContentTypeJSON is the content type of every broker message body.
	ContentTypeJSON = "application/json"
)

// OrderCreated is published once an order has been committed to the store.
// task_name travels as a header, so the body only carries the order id.
type OrderCreated struct {
	OrderID string `json:"order_id"`
}

func NewOrderCreated(id kernel.UUID) OrderCreated {
	return OrderCreated{OrderID: id.String()}
}

// Encode renders the body as UTF-8 JSON, e.g. {"order_id":"<id>"}.
func (e OrderCreated) Encode() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode order created: %w", err)
	}
	return body, nil
}

// DecodeOrderCreated parses a message body. order_id may be a JSON string or
// a number; a number is forwarded in its literal form. A body without a
// non-empty order_id is a ValueIsRequiredError.
func DecodeOrderCreated(body []byte) (OrderCreated, error) {
	var raw struct {
		OrderID any `json:"order_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return OrderCreated{}, errs.NewValueIsInvalidErrorWithCause("order created body", err)
	}

	var orderID string
	switch v := raw.OrderID.(type) {
	case nil:
	case string:
		orderID = strings.TrimSpace(v)
	case json.Number:
		orderID = v.String()
	default:
		return OrderCreated{}, errs.NewValueIsInvalidErrorWithCause(
			"order_id", fmt.Errorf("unsupported JSON type %T", v))
	}

	if orderID == "" {
		return OrderCreated{}, errs.NewValueIsRequiredError("order_id")
	}
	return OrderCreated{OrderID: orderID}, nil
}
