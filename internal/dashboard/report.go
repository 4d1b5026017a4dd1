package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/providers/pdf"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

// Report gathers one customer's profile for the printable PDF.
func (s *Service) Report(ctx context.Context, id string) (pdf.CustomerReport, error) {
	c, history, err := s.Customer(ctx, id)
	if err != nil {
		return pdf.CustomerReport{}, err
	}
	asOf := s.AsOf()
	plan := churn.RetentionPlan(c.ChurnRisk)

	report := pdf.CustomerReport{
		CustomerID:  c.ID,
		Name:        c.FullName(),
		Email:       c.Email,
		Phone:       c.Phone,
		Location:    c.City + ", " + c.State,
		Plan:        c.PlanType,
		Status:      c.AccountStatus,
		Tenure:      fmt.Sprintf("%d months", c.TenureMonths),
		ChurnRisk:   string(c.ChurnRisk),
		GeneratedOn: asOf.Format(domain.DateLayout),
		Metrics: []pdf.Metric{
			{Label: "Monthly Revenue", Value: money(c.MonthlyRevenue)},
			{Label: "Satisfaction Score", Value: score(c.SatisfactionScore)},
			{Label: "NPS Score", Value: strconv.Itoa(c.NPSScore)},
			{Label: "Support Tickets (6M)", Value: strconv.Itoa(c.SupportTickets6m)},
			{Label: "Overdue Amount", Value: money(c.OverdueAmount)},
			{Label: "Days Since Payment", Value: strconv.Itoa(c.DaysSincePayment(asOf))},
		},
		Products:          c.ProductsOwned,
		Recommendations:   c.RecommendedProducts,
		RiskFactors:       churn.RiskFactors(c.RiskProfile()),
		RetentionHeadline: plan.Headline,
		RetentionActions:  plan.Actions,
	}
	for _, u := range history {
		report.History = append(report.History, pdf.UsageRow{
			Month:   u.Month,
			Voice:   strconv.FormatFloat(u.VoiceMinutes, 'f', 1, 64),
			Data:    strconv.FormatFloat(u.DataGB, 'f', 2, 64),
			SMS:     strconv.Itoa(u.SMSCount),
			Revenue: money(u.Revenue),
		})
	}
	return report, nil
}
