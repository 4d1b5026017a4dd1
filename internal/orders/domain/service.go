package domain

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

const (
	ChannelForm = "form"
	ChannelAPI  = "api"
)

type FetchRequest struct {
	// OrderID is the raw search box value. When set, Limit is ignored.
	OrderID string
	Limit   int
}

type FetchResponse struct {
	Orders []Order `json:"orders"`
	Limit  int     `json:"limit"`
}

type UpsertRequest struct {
	OrderID     int64
	CustomerID  string
	MfgPlantID  string
	OrderDate   string
	OrderStatus string
	ProductID   string
	Quantity    int64
	TotalPrice  float64
	UnitPrice   float64
	Channel     string
}

type DeleteRequest struct {
	OrderID int64
	Channel string
}

type DeleteResponse struct {
	OrderID int64 `json:"order_id"`
	Deleted bool  `json:"deleted"`
}

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks
type Service interface {
	Fetch(context.Context, FetchRequest) (FetchResponse, error)
	Get(ctx context.Context, id int64) (Order, error)
	Upsert(context.Context, UpsertRequest) (Order, error)
	Delete(context.Context, DeleteRequest) (DeleteResponse, error)
}

var (
	ErrInvalidOrderID    = errors.New("invalid_order_id")
	ErrInvalidOrderDate  = errors.New("invalid_order_date")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidTotalPrice = errors.New("invalid_total_price")
	ErrInvalidUnitPrice  = errors.New("invalid_unit_price")
	ErrInvalidLimit      = errors.New("invalid_limit")
	ErrNotFound          = errors.New("not_found")
)

// OrderDateLayout is the form's date format.
const OrderDateLayout = "2006-01-02 15:04:05"

// DefaultOrderDate pre-fills the upsert form.
var DefaultOrderDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Message returns the user facing text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidOrderID):
		return "Order ID must be an integer."
	case errors.Is(err, ErrInvalidOrderDate):
		return "Order date must look like 2026-01-01 00:00:00."
	case errors.Is(err, ErrInvalidQuantity):
		return "Quantity must be a whole number of at least 0."
	case errors.Is(err, ErrInvalidTotalPrice):
		return "Total price must be a number of at least 0."
	case errors.Is(err, ErrInvalidUnitPrice):
		return "Unit price must be a number of at least 0."
	case errors.Is(err, ErrInvalidLimit):
		return "Rows must be between 1 and 100."
	case errors.Is(err, ErrNotFound):
		return "No records found."
	default:
		return ""
	}
}
