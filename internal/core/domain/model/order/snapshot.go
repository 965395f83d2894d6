package order

import (
	"encoding/json"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
)

// Snapshot is the serialized form of an order shared by the cache and the HTTP
// surface. It deliberately leaves out the owner.
type Snapshot struct {
	ID         kernel.UUID     `json:"id"`
	Items      json.RawMessage `json:"items"`
	TotalPrice kernel.Price    `json:"total_price"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Equal compares snapshots field by field. Items are compared byte for byte.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.ID.IsEqual(other.ID) &&
		string(s.Items) == string(other.Items) &&
		s.TotalPrice.IsEqual(other.TotalPrice) &&
		s.Status == other.Status &&
		s.CreatedAt.Equal(other.CreatedAt)
}
