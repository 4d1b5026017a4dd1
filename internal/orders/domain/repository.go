package domain

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks
type Repository interface {
	List(ctx context.Context, db *gorm.DB, limit int) ([]Order, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	Upsert(ctx context.Context, db *gorm.DB, order *Order) error
	// Delete returns the number of rows removed; zero is not an error.
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}

// EventPublisher delivers order change events after the write commits.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
