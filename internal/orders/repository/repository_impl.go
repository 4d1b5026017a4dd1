package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/telco360/internal/orders/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Order("order_id").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("order_id = ?", id).
		Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Upsert relies on the database's INSERT ... ON CONFLICT (order_id) DO UPDATE.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns(domain.UpdatableColumns),
		}).
		Create(order).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).
		Where("order_id = ?", id).
		Delete(&domain.Order{})
	return res.RowsAffected, res.Error
}
