package domain

import (
	"context"
	"errors"
	"sort"
	"time"
)

var (
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrDatasetMissing   = errors.New("dataset_missing")
	ErrInvalidCustomers = errors.New("invalid_customers")
	ErrInvalidMonths    = errors.New("invalid_months")
)

// Dataset is the customer table together with its usage history. It is
// read-only once built.
type Dataset struct {
	RunID       string
	GeneratedAt time.Time
	Customers   []Customer
	Usage       []UsageRecord

	byID    map[string]int
	usageBy map[string][]UsageRecord
}

// NewDataset indexes customers and usage by customer id. Usage rows for each
// customer are kept in ascending month order.
func NewDataset(customers []Customer, usage []UsageRecord) *Dataset {
	ds := &Dataset{
		Customers: customers,
		Usage:     usage,
		byID:      make(map[string]int, len(customers)),
		usageBy:   make(map[string][]UsageRecord, len(customers)),
	}
	for i, c := range customers {
		ds.byID[c.ID] = i
	}
	for _, u := range usage {
		ds.usageBy[u.CustomerID] = append(ds.usageBy[u.CustomerID], u)
	}
	for id := range ds.usageBy {
		rows := ds.usageBy[id]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	}
	return ds
}

func (d *Dataset) Customer(id string) (Customer, error) {
	if d == nil {
		return Customer{}, ErrCustomerNotFound
	}
	i, ok := d.byID[id]
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}
	return d.Customers[i], nil
}

func (d *Dataset) UsageFor(id string) []UsageRecord {
	if d == nil {
		return nil
	}
	return d.usageBy[id]
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Customers)
}

//go:generate mockgen -source=dataset.go -destination=../mocks/mock_store.go -package=mocks
type Store interface {
	// Name identifies the backend in logs and metrics ("csv" or "db").
	Name() string
	Exists(ctx context.Context) (bool, error)
	Load(ctx context.Context) (*Dataset, error)
	// Save replaces whatever dataset the backend held.
	Save(ctx context.Context, ds *Dataset) error
}
