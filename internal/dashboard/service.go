package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/telco360/internal/clock"
	"github.com/smallbiznis/telco360/internal/observability/metrics"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultSuggestions is how many customers the lookup offers before the user
// types anything.
const DefaultSuggestions = 50

// DatasetSource hands out the loaded dataset. *store.Loader implements it.
type DatasetSource interface {
	Dataset(ctx context.Context) (*domain.Dataset, error)
	Reload(ctx context.Context) (*domain.Dataset, error)
	Source() string
}

type Params struct {
	fx.In

	Data    DatasetSource
	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	data    DatasetSource
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(p Params) *Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		data:    p.Data,
		clock:   clk,
		log:     log.Named("dashboard.service"),
		metrics: p.Metrics,
	}
}

// Match is one customer offered by the lookup.
type Match struct {
	ID    string `json:"customer_id"`
	Label string `json:"label"`
}

// Summary describes the dataset currently served.
type Summary struct {
	Source       string    `json:"source"`
	RunID        string    `json:"run_id,omitempty"`
	GeneratedAt  time.Time `json:"generated_at,omitempty"`
	Customers    int       `json:"customers"`
	UsageRecords int       `json:"usage_records"`
}

func (s *Service) Pages() []Page {
	return Pages
}

// Search matches query case-insensitively against customer id, first name
// and last name. An empty query offers the first DefaultSuggestions customers.
func (s *Service) Search(ctx context.Context, query string) ([]Match, error) {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		n := min(DefaultSuggestions, len(ds.Customers))
		out := make([]Match, 0, n)
		for _, c := range ds.Customers[:n] {
			out = append(out, matchOf(c))
		}
		return out, nil
	}

	out := make([]Match, 0)
	for _, c := range ds.Customers {
		if strings.Contains(strings.ToLower(c.ID), query) ||
			strings.Contains(strings.ToLower(c.FirstName), query) ||
			strings.Contains(strings.ToLower(c.LastName), query) {
			out = append(out, matchOf(c))
		}
	}
	return out, nil
}

func matchOf(c domain.Customer) Match {
	return Match{ID: c.ID, Label: c.ID + " - " + c.FullName()}
}

// Render computes a page. An empty customerID renders the aggregate view.
func (s *Service) Render(ctx context.Context, pageKey, customerID string) (*View, error) {
	page, err := PageByKey(pageKey)
	if err != nil {
		return nil, err
	}
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		s.metrics.RecordPageView(ctx, page.Key, ViewAggregate)
		return aggregateView(page, ds), nil
	}

	c, err := ds.Customer(customerID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordPageView(ctx, page.Key, ViewCustomer)
	return customerView(page, ds, c, clock.Today(s.clock)), nil
}

func aggregateView(page Page, ds *domain.Dataset) *View {
	switch page.Key {
	case PageUsage.Key:
		return usageAggregate(ds)
	case PageBilling.Key:
		return billingAggregate(ds)
	case PageRisk.Key:
		return riskAggregate(ds)
	default:
		return overviewAggregate(ds)
	}
}

func customerView(page Page, ds *domain.Dataset, c domain.Customer, asOf time.Time) *View {
	history := ds.UsageFor(c.ID)
	switch page.Key {
	case PageUsage.Key:
		return usageCustomer(ds, c, history)
	case PageBilling.Key:
		return billingCustomer(c, history, asOf)
	case PageRisk.Key:
		return riskCustomer(c, asOf)
	default:
		return overviewCustomer(c, history)
	}
}

// Customer returns one customer with their usage history in month order.
func (s *Service) Customer(ctx context.Context, id string) (domain.Customer, []domain.UsageRecord, error) {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return domain.Customer{}, nil, err
	}
	c, err := ds.Customer(strings.TrimSpace(id))
	if err != nil {
		return domain.Customer{}, nil, err
	}
	return c, ds.UsageFor(c.ID), nil
}

// Summary reports what is loaded, loading it if needed.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return Summary{}, err
	}
	return s.summarize(ds), nil
}

// Reload drops the cached dataset and reads it again from the configured
// source.
func (s *Service) Reload(ctx context.Context) (Summary, error) {
	ds, err := s.data.Reload(ctx)
	if err != nil {
		s.log.Error("dataset reload failed", zap.String("source", s.data.Source()), zap.Error(err))
		return Summary{}, err
	}
	summary := s.summarize(ds)
	s.log.Info("dataset reloaded",
		zap.String("source", summary.Source),
		zap.String("run_id", summary.RunID),
		zap.Int("customers", summary.Customers),
	)
	return summary, nil
}

func (s *Service) summarize(ds *domain.Dataset) Summary {
	return Summary{
		Source:       s.data.Source(),
		RunID:        ds.RunID,
		GeneratedAt:  ds.GeneratedAt,
		Customers:    ds.Len(),
		UsageRecords: len(ds.Usage),
	}
}

// AsOf is the date "days since" figures are measured against.
func (s *Service) AsOf() time.Time {
	return clock.Today(s.clock)
}
