package store

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/clock"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"github.com/smallbiznis/telco360/internal/telco/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var asOf = time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)

func generateDataset(t *testing.T, customers int) *domain.Dataset {
	t.Helper()
	g := generator.New(generator.Params{
		Rules: churn.Static(churn.DefaultRules()),
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(asOf),
	})
	ds, err := g.Generate(context.Background(), generator.Options{Customers: customers, Months: 6, Seed: 42, AsOf: asOf})
	require.NoError(t, err)
	return ds
}

func TestCSVOutputIsByteIdenticalForSameSeed(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, EncodeCustomers(&first, generateDataset(t, 100).Customers))
	require.NoError(t, EncodeCustomers(&second, generateDataset(t, 100).Customers))
	assert.Equal(t, first.Bytes(), second.Bytes())

	first.Reset()
	second.Reset()
	require.NoError(t, EncodeUsage(&first, generateDataset(t, 100).Usage))
	require.NoError(t, EncodeUsage(&second, generateDataset(t, 100).Usage))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestCSVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewCSVStore(t.TempDir(), zap.NewNop())

	ok, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrDatasetMissing)

	ds := generateDataset(t, 60)
	require.NoError(t, s.Save(ctx, ds))

	ok, err = s.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Customers, loaded.Customers)
	assert.Equal(t, ds.Usage, loaded.Usage)
}

func TestCSVStoreNeedsBothFiles(t *testing.T) {
	ctx := context.Background()
	s := NewCSVStore(t.TempDir(), zap.NewNop())
	require.NoError(t, s.Save(ctx, generateDataset(t, 5)))
	require.NoError(t, os.Remove(s.UsagePath()))

	ok, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCustomerCSVColumns(t *testing.T) {
	support := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)
	customers := []domain.Customer{
		{
			ID:                  "CUST_000001",
			FirstName:           "Ada",
			LastName:            "Lovelace",
			MonthlyRevenue:      1234567.5,
			VoiceMinutes30d:     300,
			DataGB30d:           0.05,
			LastPaymentDate:     time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
			ChurnRisk:           churn.CategoryLow,
			ProductsOwned:       []string{"Mobile Service", "Internet"},
			RecommendedProducts: []string{},
		},
		{
			ID:              "CUST_000002",
			LastPaymentDate: time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC),
			LastSupportDate: &support,
			ChurnRisk:       churn.CategoryHigh,
			ProductsOwned:   []string{"Mobile Service"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeCustomers(&buf, customers))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "customer_id,first_name,last_name,email,phone,age,gender,city,state,tenure_months,"+
		"account_status,plan_type,monthly_revenue,voice_minutes_30d,data_gb_30d,sms_count_30d,"+
		"last_payment_date,payment_method,overdue_amount,satisfaction_score,nps_score,support_tickets_6m,"+
		"last_support_date,churn_risk,products_owned,recommended_products", lines[0])
	assert.Contains(t, lines[1], ",1234567.5,300,0.05,")
	assert.Contains(t, lines[1], ",2026-05-01,")
	assert.True(t, strings.HasSuffix(lines[1], `,,Low,"Mobile Service, Internet",`), lines[1])
	assert.Contains(t, lines[2], ",2026-04-02,High,Mobile Service")

	decoded, err := DecodeCustomers(buf.Bytes())
	require.NoError(t, err)
	assert.Nil(t, decoded[0].LastSupportDate)
	assert.Equal(t, support, *decoded[1].LastSupportDate)
	assert.Equal(t, []string{"Mobile Service", "Internet"}, decoded[0].ProductsOwned)
	assert.Empty(t, decoded[0].RecommendedProducts)
}

func TestDecodeCustomersRejectsUnknownRisk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCustomers(&buf, []domain.Customer{{ID: "CUST_000001", ChurnRisk: "Critical"}}))

	_, err := DecodeCustomers(buf.Bytes())
	assert.ErrorContains(t, err, "row 2")
}
