package domain

import (
	"time"

	"github.com/smallbiznis/telco360/internal/churn"
)

const (
	PlanBasic      = "Basic"
	PlanStandard   = "Standard"
	PlanPremium    = "Premium"
	PlanEnterprise = "Enterprise"
)

// Plans lists plan types in display order.
var Plans = []string{PlanBasic, PlanStandard, PlanPremium, PlanEnterprise}

const (
	StatusActive    = "Active"
	StatusSuspended = "Suspended"
	StatusInactive  = "Inactive"
)

const (
	PaymentCreditCard   = "Credit Card"
	PaymentDebitCard    = "Debit Card"
	PaymentBankTransfer = "Bank Transfer"
	PaymentCash         = "Cash"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// DateLayout is how calendar dates appear in the dataset.
const DateLayout = "2006-01-02"

// MonthLayout keys usage history rows.
const MonthLayout = "2006-01"

// Customer is one synthetic subscriber with a 30 day usage snapshot.
type Customer struct {
	ID                  string         `json:"customer_id"`
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	Email               string         `json:"email"`
	Phone               string         `json:"phone"`
	Age                 int            `json:"age"`
	Gender              string         `json:"gender"`
	City                string         `json:"city"`
	State               string         `json:"state"`
	TenureMonths        int            `json:"tenure_months"`
	AccountStatus       string         `json:"account_status"`
	PlanType            string         `json:"plan_type"`
	MonthlyRevenue      float64        `json:"monthly_revenue"`
	VoiceMinutes30d     float64        `json:"voice_minutes_30d"`
	DataGB30d           float64        `json:"data_gb_30d"`
	SMSCount30d         int            `json:"sms_count_30d"`
	LastPaymentDate     time.Time      `json:"last_payment_date"`
	PaymentMethod       string         `json:"payment_method"`
	OverdueAmount       float64        `json:"overdue_amount"`
	SatisfactionScore   float64        `json:"satisfaction_score"`
	NPSScore            int            `json:"nps_score"`
	SupportTickets6m    int            `json:"support_tickets_6m"`
	LastSupportDate     *time.Time     `json:"last_support_date"`
	ChurnRisk           churn.Category `json:"churn_risk"`
	ProductsOwned       []string       `json:"products_owned"`
	RecommendedProducts []string       `json:"recommended_products"`
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DaysSincePayment counts whole days between the last payment and asOf.
func (c Customer) DaysSincePayment(asOf time.Time) int {
	return daysBetween(c.LastPaymentDate, asOf)
}

// DaysSinceSupport reports false when the customer never contacted support.
func (c Customer) DaysSinceSupport(asOf time.Time) (int, bool) {
	if c.LastSupportDate == nil {
		return 0, false
	}
	return daysBetween(*c.LastSupportDate, asOf), true
}

func (c Customer) ChurnInputs(asOf time.Time) churn.Inputs {
	return churn.Inputs{
		TenureMonths:     c.TenureMonths,
		Satisfaction:     c.SatisfactionScore,
		SupportTickets:   c.SupportTickets6m,
		DaysSincePayment: c.DaysSincePayment(asOf),
		OverdueAmount:    c.OverdueAmount,
	}
}

func (c Customer) RiskProfile() churn.Profile {
	return churn.Profile{
		TenureMonths:   c.TenureMonths,
		Satisfaction:   c.SatisfactionScore,
		SupportTickets: c.SupportTickets6m,
		OverdueAmount:  c.OverdueAmount,
		NPS:            c.NPSScore,
	}
}

// Owns reports whether product is in the owned list.
func (c Customer) Owns(product string) bool {
	for _, p := range c.ProductsOwned {
		if p == product {
			return true
		}
	}
	return false
}

// UsageRecord is one month of a customer's usage history.
type UsageRecord struct {
	CustomerID   string  `json:"customer_id"`
	Month        string  `json:"month"`
	VoiceMinutes float64 `json:"voice_minutes"`
	DataGB       float64 `json:"data_gb"`
	SMSCount     int     `json:"sms_count"`
	Revenue      float64 `json:"revenue"`
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
