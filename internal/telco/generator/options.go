package generator

import (
	"time"

	"github.com/smallbiznis/telco360/internal/telco/domain"
)

const (
	DefaultCustomers = 1000
	DefaultMonths    = 6
	DefaultSeed      = 42
)

// Options controls one generation run. The same Options always produce the
// same dataset.
type Options struct {
	Customers int
	Months    int
	Seed      uint64
	// AsOf anchors every relative date. Only the calendar date is used.
	AsOf time.Time
}

func DefaultOptions(asOf time.Time) Options {
	return Options{
		Customers: DefaultCustomers,
		Months:    DefaultMonths,
		Seed:      DefaultSeed,
		AsOf:      asOf,
	}
}

func (o Options) Validate() error {
	if o.Customers < 1 {
		return domain.ErrInvalidCustomers
	}
	if o.Months < 1 {
		return domain.ErrInvalidMonths
	}
	return nil
}

func (o Options) asOfDate() time.Time {
	t := o.AsOf.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
