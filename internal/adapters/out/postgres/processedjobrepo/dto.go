// Package processedjobrepo stores the order ids already handled by the task
// worker, used to drop redelivered jobs.
package processedjobrepo

import "time"

// ProcessedJobDTO is one row of the processed_jobs table.
type ProcessedJobDTO struct {
	OrderID     string    `gorm:"type:varchar(64);primaryKey"`
	ProcessedAt time.Time `gorm:"type:timestamptz;not null;index"`
}

func (ProcessedJobDTO) TableName() string {
	return "processed_jobs"
}
