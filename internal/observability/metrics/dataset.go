package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	OutcomeOK          = "ok"
	OutcomeRegenerated = "regenerated"
	OutcomeError       = "error"
)

const (
	ReasonDeadlineExceeded = "deadline_exceeded"
	ReasonMissingTable     = "missing_table"
	ReasonConnection       = "connection"
	ReasonUniqueViolation  = "unique_violation"
	ReasonLockHeld         = "lock_held"
	ReasonUnknown          = "unknown"
)

// ErrLockHeld is returned by regeneration locks that could not be acquired.
var ErrLockHeld = errors.New("lock_held")

// DatasetMetrics tracks dashboard dataset loads and on-demand regeneration.
type DatasetMetrics struct {
	loads         *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	loadErrors    *prometheus.CounterVec
	lockWait      prometheus.Observer
	customers     prometheus.Gauge
	usageRecords  prometheus.Gauge
	lastLoadEpoch prometheus.Gauge
}

func NewDatasetMetrics(cfg Config, registerer prometheus.Registerer) (*DatasetMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	ns := namespace(cfg)
	labels := constLabels(cfg)

	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Name:        "dataset_loads_total",
		Help:        "Dataset loads by source and outcome.",
		ConstLabels: labels,
	}, []string{"source", "outcome"})
	loadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   ns,
		Name:        "dataset_load_duration_seconds",
		Help:        "Time to read (and when needed regenerate) the dataset.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: labels,
	}, []string{"source"})
	loadErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   ns,
		Name:        "dataset_load_errors_total",
		Help:        "Dataset load failures by low-cardinality reason.",
		ConstLabels: labels,
	}, []string{"source", "reason"})
	lockWait := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   ns,
		Name:        "dataset_regeneration_lock_wait_seconds",
		Help:        "Time spent waiting for the regeneration lock.",
		Buckets:     []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		ConstLabels: labels,
	})
	customers := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   ns,
		Name:        "dataset_customers",
		Help:        "Customers in the cached dataset.",
		ConstLabels: labels,
	})
	usageRecords := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   ns,
		Name:        "dataset_usage_records",
		Help:        "Usage history rows in the cached dataset.",
		ConstLabels: labels,
	})
	lastLoad := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   ns,
		Name:        "dataset_last_load_timestamp_seconds",
		Help:        "Unix time of the last successful dataset load.",
		ConstLabels: labels,
	})

	m := &DatasetMetrics{}
	var err error
	if m.loads, err = registerOrExisting(registerer, loads); err != nil {
		return nil, err
	}
	if m.loadDuration, err = registerOrExisting(registerer, loadDuration); err != nil {
		return nil, err
	}
	if m.loadErrors, err = registerOrExisting(registerer, loadErrors); err != nil {
		return nil, err
	}
	if m.lockWait, err = registerOrExisting[prometheus.Histogram](registerer, lockWait); err != nil {
		return nil, err
	}
	if m.customers, err = registerOrExisting(registerer, customers); err != nil {
		return nil, err
	}
	if m.usageRecords, err = registerOrExisting(registerer, usageRecords); err != nil {
		return nil, err
	}
	if m.lastLoadEpoch, err = registerOrExisting(registerer, lastLoad); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveLoad records a successful load of the given size.
func (m *DatasetMetrics) ObserveLoad(source, outcome string, elapsed time.Duration, customers, usageRecords int) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(source, outcome).Inc()
	m.loadDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	m.customers.Set(float64(customers))
	m.usageRecords.Set(float64(usageRecords))
	m.lastLoadEpoch.SetToCurrentTime()
}

func (m *DatasetMetrics) ObserveLoadError(source string, err error) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(source, OutcomeError).Inc()
	m.loadErrors.WithLabelValues(source, ClassifyLoadError(err)).Inc()
}

func (m *DatasetMetrics) ObserveLockWait(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(elapsed.Seconds())
}

// ClassifyLoadError maps store errors to a bounded set of reasons.
func ClassifyLoadError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonDeadlineExceeded
	}
	if errors.Is(err, ErrLockHeld) {
		return ReasonLockHeld
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ReasonUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01":
			return ReasonMissingTable
		case "23505":
			return ReasonUniqueViolation
		case "08000", "08001", "08003", "08006", "57P01":
			return ReasonConnection
		}
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return ReasonConnection
	}
	return ReasonUnknown
}
