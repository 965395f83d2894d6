package processedjobrepo

import (
	"context"
	"time"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resource = "postgres"

// GormProcessedJobRepository implements ports.ProcessedJobRepository using GORM.
type GormProcessedJobRepository struct {
	db *gorm.DB
}

func NewGormProcessedJobRepository(db *gorm.DB) *GormProcessedJobRepository {
	return &GormProcessedJobRepository{db: db}
}

func (r *GormProcessedJobRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ProcessedJobDTO{}).
		Where("order_id = ?", orderID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, errs.NewInfrastructureError(resource, err)
	}
	return count > 0, nil
}

// Record inserts orderID. A concurrent worker recording the same id first is not an error.
func (r *GormProcessedJobRepository) Record(ctx context.Context, orderID string, processedAt time.Time) error {
	dto := ProcessedJobDTO{OrderID: orderID, ProcessedAt: processedAt}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
	if err != nil {
		return errs.NewInfrastructureError(resource, err)
	}
	return nil
}

func (r *GormProcessedJobRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("processed_at < ?", cutoff).
		Delete(&ProcessedJobDTO{})
	if result.Error != nil {
		return 0, errs.NewInfrastructureError(resource, result.Error)
	}
	return result.RowsAffected, nil
}
