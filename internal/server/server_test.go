package server

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

var testToday = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := loadTemplates()
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.SetHTMLTemplate(tmpl)
	return router
}

type fakeDatasetSource struct {
	ds      *domain.Dataset
	err     error
	reloads int
}

func (f *fakeDatasetSource) Dataset(context.Context) (*domain.Dataset, error) {
	return f.ds, f.err
}

func (f *fakeDatasetSource) Reload(context.Context) (*domain.Dataset, error) {
	f.reloads++
	return f.ds, f.err
}

func (f *fakeDatasetSource) Source() string { return "csv" }

func testDataset() *domain.Dataset {
	support := testToday.AddDate(0, 0, -12)
	customers := []domain.Customer{
		{
			ID: "CUST_000001", FirstName: "Ada", LastName: "Jones",
			Email: "ada.jones@example.com", City: "Austin", State: "TX",
			PlanType: domain.PlanStandard, AccountStatus: domain.StatusActive,
			TenureMonths: 48, MonthlyRevenue: 75,
			VoiceMinutes30d: 250, DataGB30d: 18, SMSCount30d: 40,
			LastPaymentDate: testToday.AddDate(0, 0, -5), PaymentMethod: domain.PaymentCreditCard,
			SatisfactionScore: 4.2, NPSScore: 7,
			ChurnRisk:     churn.CategoryLow,
			ProductsOwned: []string{"Mobile", "Internet"},
		},
		{
			ID: "CUST_000002", FirstName: "Bob", LastName: "Jones",
			Email: "bob.jones@example.com", City: "Denver", State: "CO",
			PlanType: domain.PlanBasic, AccountStatus: domain.StatusSuspended,
			TenureMonths: 3, MonthlyRevenue: 42,
			VoiceMinutes30d: 120, DataGB30d: 4, SMSCount30d: 90,
			LastPaymentDate: testToday.AddDate(0, 0, -60), PaymentMethod: domain.PaymentCash,
			OverdueAmount: 80, SatisfactionScore: 1.5, NPSScore: -6, SupportTickets6m: 5,
			LastSupportDate:     &support,
			ChurnRisk:           churn.CategoryHigh,
			ProductsOwned:       []string{"Mobile"},
			RecommendedProducts: []string{"Internet"},
		},
		{
			ID: "CUST_000003", FirstName: "Cleo", LastName: "Park",
			Email: "cleo.park@example.com", City: "Boston", State: "MA",
			PlanType: domain.PlanPremium, AccountStatus: domain.StatusActive,
			TenureMonths: 14, MonthlyRevenue: 121,
			VoiceMinutes30d: 400, DataGB30d: 30, SMSCount30d: 20,
			LastPaymentDate: testToday.AddDate(0, 0, -20), PaymentMethod: domain.PaymentDebitCard,
			SatisfactionScore: 3.1, NPSScore: 1, SupportTickets6m: 2,
			ChurnRisk:     churn.CategoryMedium,
			ProductsOwned: []string{"Mobile", "TV"},
		},
	}
	usage := []domain.UsageRecord{
		{CustomerID: "CUST_000002", Month: "2026-09", VoiceMinutes: 130, DataGB: 4.5, SMSCount: 95, Revenue: 41},
		{CustomerID: "CUST_000002", Month: "2026-10", VoiceMinutes: 118, DataGB: 3.9, SMSCount: 88, Revenue: 43},
	}
	return domain.NewDataset(customers, usage)
}
