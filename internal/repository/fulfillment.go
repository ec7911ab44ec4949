package repository

import (
	"context"
	"errors"
	"time"

	"securebase-billing/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FulfillmentRepository interface {
	UpsertStatus(ctx context.Context, email string, status model.Status, plan model.Plan) error
	Get(ctx context.Context, email string) (*model.FulfillmentRecord, error)
}

type fulfillmentRepoImpl struct {
	db *gorm.DB
}

func NewFulfillmentRepository(db *gorm.DB) FulfillmentRepository {
	return &fulfillmentRepoImpl{
		db: db,
	}
}

// UpsertStatus creates the record on first payment and otherwise moves it to
// status, never below the status it already has.
func (r *fulfillmentRepoImpl) UpsertStatus(ctx context.Context, email string, status model.Status, plan model.Plan) error {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.FulfillmentRecord{
			Email:          email,
			Status:         status,
			PlanIdentifier: plan,
			LastUpdatedAt:  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	return r.db.WithContext(ctx).Model(&model.FulfillmentRecord{}).
		Where(`
			email = ?
			AND status IN ?
		`,
			email,
			statusesAtOrBelow(status),
		).
		Updates(map[string]interface{}{
			"status":          status,
			"plan_identifier": plan,
			"last_updated_at": now,
		}).Error
}

func (r *fulfillmentRepoImpl) Get(ctx context.Context, email string) (*model.FulfillmentRecord, error) {
	var record model.FulfillmentRecord
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &record, nil
}
