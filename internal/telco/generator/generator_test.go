package generator

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/clock"
	obscontext "github.com/smallbiznis/telco360/internal/observability/context"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var asOf = time.Date(2026, time.May, 15, 13, 45, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	return New(Params{
		Rules: churn.Static(churn.DefaultRules()),
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(asOf),
	})
}

func generate(t *testing.T, opts Options) *domain.Dataset {
	t.Helper()
	ds, err := newTestGenerator().Generate(context.Background(), opts)
	require.NoError(t, err)
	return ds
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := Options{Customers: 200, Months: 6, Seed: 7, AsOf: asOf}

	first := generate(t, opts)
	second := generate(t, opts)

	assert.Equal(t, first.Customers, second.Customers)
	assert.Equal(t, first.Usage, second.Usage)

	other := generate(t, Options{Customers: 200, Months: 6, Seed: 8, AsOf: asOf})
	assert.NotEqual(t, first.Customers, other.Customers)
}

func TestGenerateShape(t *testing.T) {
	ds := generate(t, Options{Customers: 500, Months: 4, Seed: DefaultSeed, AsOf: asOf})

	require.Len(t, ds.Customers, 500)
	require.Len(t, ds.Usage, 2000)
	assert.Equal(t, "CUST_000001", ds.Customers[0].ID)
	assert.Equal(t, "CUST_000500", ds.Customers[499].ID)

	today := time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)
	emailPattern := regexp.MustCompile(`^[^@\s]+\.[^@\s]+@(gmail|yahoo|hotmail)\.com$`)

	for _, c := range ds.Customers {
		assert.GreaterOrEqual(t, c.Age, 18)
		assert.Less(t, c.Age, 80)
		assert.GreaterOrEqual(t, c.TenureMonths, 1)
		assert.Less(t, c.TenureMonths, 120)
		assert.GreaterOrEqual(t, c.NPSScore, -10)
		assert.LessOrEqual(t, c.NPSScore, 10)
		assert.GreaterOrEqual(t, c.MonthlyRevenue, 20.0)
		assert.GreaterOrEqual(t, c.SatisfactionScore, 0.0)
		assert.LessOrEqual(t, c.SatisfactionScore, 5.0)
		assert.GreaterOrEqual(t, c.VoiceMinutes30d, 0.0)
		assert.GreaterOrEqual(t, c.DataGB30d, 0.0)
		assert.Regexp(t, emailPattern, c.Email)
		assert.Contains(t, domain.Plans, c.PlanType)

		days := c.DaysSincePayment(today)
		assert.GreaterOrEqual(t, days, 0)
		assert.LessOrEqual(t, days, 90)

		if c.SupportTickets6m == 0 {
			assert.Nil(t, c.LastSupportDate, c.ID)
		} else {
			require.NotNil(t, c.LastSupportDate, c.ID)
			d, _ := c.DaysSinceSupport(today)
			assert.LessOrEqual(t, d, 180)
		}
		if c.OverdueAmount != 0 {
			assert.GreaterOrEqual(t, c.OverdueAmount, 20.0)
			assert.LessOrEqual(t, c.OverdueAmount, 200.0)
		}

		assert.Equal(t, churn.Categorize(c.ChurnInputs(today)), c.ChurnRisk, c.ID)
	}
}

func TestProductsAndRecommendationGates(t *testing.T) {
	ds := generate(t, Options{Customers: 1000, Months: 1, Seed: DefaultSeed, AsOf: asOf})

	for _, c := range ds.Customers {
		require.NotEmpty(t, c.ProductsOwned)
		assert.Equal(t, ProductMobile, c.ProductsOwned[0])
		assert.LessOrEqual(t, len(c.RecommendedProducts), maxRecommendations, c.ID)

		if c.PlanType == domain.PlanBasic {
			assert.False(t, c.Owns(ProductInternet), c.ID)
		}
		if c.PlanType != domain.PlanEnterprise {
			assert.False(t, c.Owns(ProductBusiness), c.ID)
		}
		if c.PlanType == domain.PlanBasic || c.PlanType == domain.PlanStandard {
			assert.False(t, c.Owns(ProductTV), c.ID)
			assert.NotContains(t, c.RecommendedProducts, RecommendHomeSecurity, c.ID)
		}
		if c.Owns(ProductInternet) {
			assert.NotContains(t, c.RecommendedProducts, RecommendHomeInternet, c.ID)
		}
		if c.Owns(ProductRoaming) {
			assert.NotContains(t, c.RecommendedProducts, RecommendInternational, c.ID)
		}
		if c.DataGB30d > highDataUsageGB {
			require.NotEmpty(t, c.RecommendedProducts, c.ID)
			assert.Equal(t, RecommendUnlimitedData, c.RecommendedProducts[0], c.ID)
		}
	}
}

func TestUsageHistoryFollowsSnapshot(t *testing.T) {
	ds := generate(t, Options{Customers: 50, Months: 6, Seed: 3, AsOf: asOf})

	for _, c := range ds.Customers {
		rows := ds.UsageFor(c.ID)
		require.Len(t, rows, 6, c.ID)
		assert.Equal(t, "2026-05", rows[len(rows)-1].Month)
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.VoiceMinutes, 0.0)
			assert.GreaterOrEqual(t, r.DataGB, 0.0)
			assert.GreaterOrEqual(t, r.SMSCount, 0)
			assert.Greater(t, r.Revenue, 0.0)
		}
	}
}

func TestGenerateRejectsInvalidOptions(t *testing.T) {
	g := newTestGenerator()

	_, err := g.Generate(context.Background(), Options{Customers: 0, Months: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomers)

	_, err = g.Generate(context.Background(), Options{Customers: 10, Months: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidMonths)
}

func TestGenerateHonoursCancellationAndRunID(t *testing.T) {
	g := newTestGenerator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Generate(ctx, DefaultOptions(asOf))
	assert.ErrorIs(t, err, context.Canceled)

	ds, err := g.Generate(obscontext.WithRunID(context.Background(), "run-1"), Options{Customers: 1, Months: 1, AsOf: asOf})
	require.NoError(t, err)
	assert.Equal(t, "run-1", ds.RunID)
	assert.Equal(t, asOf, ds.GeneratedAt)
}
