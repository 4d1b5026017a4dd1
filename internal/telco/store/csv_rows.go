package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

// decimal writes floats in plain notation with the shortest exact digits.
type decimal float64

func (d decimal) MarshalText() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(d), 'f', -1, 64), nil
}

func (d *decimal) UnmarshalText(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" {
		*d = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*d = decimal(v)
	return nil
}

// calendarDate is a YYYY-MM-DD column; the zero value is an empty cell.
type calendarDate struct {
	t time.Time
}

func (d calendarDate) MarshalText() ([]byte, error) {
	if d.t.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.t.Format(domain.DateLayout)), nil
}

func (d *calendarDate) UnmarshalText(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" {
		d.t = time.Time{}
		return nil
	}
	t, err := time.ParseInLocation(domain.DateLayout, raw, time.UTC)
	if err != nil {
		return err
	}
	d.t = t
	return nil
}

func (d calendarDate) ptr() *time.Time {
	if d.t.IsZero() {
		return nil
	}
	t := d.t
	return &t
}

func dateOf(t *time.Time) calendarDate {
	if t == nil {
		return calendarDate{}
	}
	return calendarDate{t: *t}
}

const listSeparator = ", "

// productList is a comma+space joined cell.
type productList []string

func (l productList) MarshalText() ([]byte, error) {
	return []byte(strings.Join(l, listSeparator)), nil
}

func (l *productList) UnmarshalText(b []byte) error {
	*l = splitList(string(b))
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type customerRow struct {
	CustomerID          string       `csv:"customer_id"`
	FirstName           string       `csv:"first_name"`
	LastName            string       `csv:"last_name"`
	Email               string       `csv:"email"`
	Phone               string       `csv:"phone"`
	Age                 int          `csv:"age"`
	Gender              string       `csv:"gender"`
	City                string       `csv:"city"`
	State               string       `csv:"state"`
	TenureMonths        int          `csv:"tenure_months"`
	AccountStatus       string       `csv:"account_status"`
	PlanType            string       `csv:"plan_type"`
	MonthlyRevenue      decimal      `csv:"monthly_revenue"`
	VoiceMinutes30d     decimal      `csv:"voice_minutes_30d"`
	DataGB30d           decimal      `csv:"data_gb_30d"`
	SMSCount30d         int          `csv:"sms_count_30d"`
	LastPaymentDate     calendarDate `csv:"last_payment_date"`
	PaymentMethod       string       `csv:"payment_method"`
	OverdueAmount       decimal      `csv:"overdue_amount"`
	SatisfactionScore   decimal      `csv:"satisfaction_score"`
	NPSScore            int          `csv:"nps_score"`
	SupportTickets6m    int          `csv:"support_tickets_6m"`
	LastSupportDate     calendarDate `csv:"last_support_date"`
	ChurnRisk           string       `csv:"churn_risk"`
	ProductsOwned       productList  `csv:"products_owned"`
	RecommendedProducts productList  `csv:"recommended_products"`
}

func toCustomerRow(c domain.Customer) customerRow {
	return customerRow{
		CustomerID:          c.ID,
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Email:               c.Email,
		Phone:               c.Phone,
		Age:                 c.Age,
		Gender:              c.Gender,
		City:                c.City,
		State:               c.State,
		TenureMonths:        c.TenureMonths,
		AccountStatus:       c.AccountStatus,
		PlanType:            c.PlanType,
		MonthlyRevenue:      decimal(c.MonthlyRevenue),
		VoiceMinutes30d:     decimal(c.VoiceMinutes30d),
		DataGB30d:           decimal(c.DataGB30d),
		SMSCount30d:         c.SMSCount30d,
		LastPaymentDate:     calendarDate{t: c.LastPaymentDate},
		PaymentMethod:       c.PaymentMethod,
		OverdueAmount:       decimal(c.OverdueAmount),
		SatisfactionScore:   decimal(c.SatisfactionScore),
		NPSScore:            c.NPSScore,
		SupportTickets6m:    c.SupportTickets6m,
		LastSupportDate:     dateOf(c.LastSupportDate),
		ChurnRisk:           string(c.ChurnRisk),
		ProductsOwned:       productList(c.ProductsOwned),
		RecommendedProducts: productList(c.RecommendedProducts),
	}
}

func (r customerRow) toDomain() (domain.Customer, error) {
	risk, err := churn.ParseCategory(strings.TrimSpace(r.ChurnRisk))
	if err != nil {
		return domain.Customer{}, err
	}
	return domain.Customer{
		ID:                  r.CustomerID,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		Email:               r.Email,
		Phone:               r.Phone,
		Age:                 r.Age,
		Gender:              r.Gender,
		City:                r.City,
		State:               r.State,
		TenureMonths:        r.TenureMonths,
		AccountStatus:       r.AccountStatus,
		PlanType:            r.PlanType,
		MonthlyRevenue:      float64(r.MonthlyRevenue),
		VoiceMinutes30d:     float64(r.VoiceMinutes30d),
		DataGB30d:           float64(r.DataGB30d),
		SMSCount30d:         r.SMSCount30d,
		LastPaymentDate:     r.LastPaymentDate.t,
		PaymentMethod:       r.PaymentMethod,
		OverdueAmount:       float64(r.OverdueAmount),
		SatisfactionScore:   float64(r.SatisfactionScore),
		NPSScore:            r.NPSScore,
		SupportTickets6m:    r.SupportTickets6m,
		LastSupportDate:     r.LastSupportDate.ptr(),
		ChurnRisk:           risk,
		ProductsOwned:       []string(r.ProductsOwned),
		RecommendedProducts: []string(r.RecommendedProducts),
	}, nil
}

type usageRow struct {
	CustomerID   string  `csv:"customer_id"`
	Month        string  `csv:"month"`
	VoiceMinutes decimal `csv:"voice_minutes"`
	DataGB       decimal `csv:"data_gb"`
	SMSCount     int     `csv:"sms_count"`
	Revenue      decimal `csv:"revenue"`
}

func toUsageRow(u domain.UsageRecord) usageRow {
	return usageRow{
		CustomerID:   u.CustomerID,
		Month:        u.Month,
		VoiceMinutes: decimal(u.VoiceMinutes),
		DataGB:       decimal(u.DataGB),
		SMSCount:     u.SMSCount,
		Revenue:      decimal(u.Revenue),
	}
}

func (r usageRow) toDomain() domain.UsageRecord {
	return domain.UsageRecord{
		CustomerID:   r.CustomerID,
		Month:        r.Month,
		VoiceMinutes: float64(r.VoiceMinutes),
		DataGB:       float64(r.DataGB),
		SMSCount:     r.SMSCount,
		Revenue:      float64(r.Revenue),
	}
}
