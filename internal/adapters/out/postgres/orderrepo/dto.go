// Package orderrepo maps the Order aggregate onto the orders table.
package orderrepo

import (
	"encoding/json"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row layout of the orders table.
// total_price is numeric(12,2), so amounts of 10^10 and above cannot be stored.
type OrderDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID    string          `gorm:"type:varchar(64);not null;index"`
	Items      []byte          `gorm:"type:jsonb;not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_orders_total_price,total_price > 0"`
	Status     string          `gorm:"type:varchar(16);not null;default:PENDING"`
	CreatedAt  time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		OwnerID:    aggregate.OwnerID(),
		Items:      aggregate.Items(),
		TotalPrice: aggregate.TotalPrice().Decimal(),
		Status:     string(aggregate.Status()),
		CreatedAt:  aggregate.CreatedAt(),
	}
}

// toDomain rebuilds the aggregate with RestoreOrder, so a row that violates
// a domain invariant surfaces as an error instead of a half-valid order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewPrice(dto.TotalPrice)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.OwnerID,
		json.RawMessage(dto.Items),
		price,
		order.Status(dto.Status),
		dto.CreatedAt.UTC(),
	)
}
