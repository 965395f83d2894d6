package api

import (
	"encoding/json"
	"errors"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// OrderStatus defines model for OrderStatus.
type OrderStatus string

const (
	OrderStatusPENDING  OrderStatus = "PENDING"
	OrderStatusPAID     OrderStatus = "PAID"
	OrderStatusSHIPPED  OrderStatus = "SHIPPED"
	OrderStatusCANCELED OrderStatus = "CANCELED"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	Items      json.RawMessage `json:"items"`
	TotalPrice PriceInput      `json:"total_price"`
	Status     *OrderStatus    `json:"status,omitempty"`
}

// PriceInput is a decimal amount sent either as a JSON number or as a JSON
// string. It holds the literal text of the amount.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil || n == "" {
		return errors.New("total_price must be a number or a decimal string")
	}
	*p = PriceInput(n)
	return nil
}

// Order defines model for Order.
type Order struct {
	Id         openapi_types.UUID `json:"id"`
	Items      json.RawMessage    `json:"items"`
	TotalPrice string             `json:"total_price"`
	Status     OrderStatus        `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

// OrderStatusUpdate defines model for OrderStatusUpdate.
type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// UpdateOrderStatusJSONRequestBody defines body for UpdateOrderStatus for application/json ContentType.
type UpdateOrderStatusJSONRequestBody = OrderStatusUpdate
