package queries

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads order snapshots straight from the store.
// Orders come back oldest first, ties broken by id.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns an empty, non-nil slice when nothing matches.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Select("id, items, total_price, status, created_at").
		Order("created_at, id")
	if query.OwnerID() != "" {
		tx = tx.Where("owner_id = ?", query.OwnerID())
	}

	rows, err := tx.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]order.Snapshot, 0)
	for rows.Next() {
		var (
			id        uuid.UUID
			items     []byte
			price     decimal.Decimal
			status    string
			createdAt time.Time
		)

		if err = rows.Scan(&id, &items, &price, &status, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		// jsonb renders with spaces after separators
		var compact bytes.Buffer
		if err = json.Compact(&compact, items); err != nil {
			return nil, err
		}

		totalPrice, priceErr := kernel.NewPrice(price)
		if priceErr != nil {
			return nil, priceErr
		}

		snapshots = append(snapshots, order.Snapshot{
			ID:         orderID,
			Items:      json.RawMessage(compact.Bytes()),
			TotalPrice: totalPrice,
			Status:     order.Status(status),
			CreatedAt:  createdAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
