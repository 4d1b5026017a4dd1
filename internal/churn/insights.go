package churn

import "fmt"

// Profile carries the customer signals the risk-factor checklist looks at.
type Profile struct {
	TenureMonths   int
	Satisfaction   float64
	SupportTickets int
	OverdueAmount  float64
	NPS            int
}

// RiskFactors lists the warning signs present in p, in display order.
func RiskFactors(p Profile) []string {
	factors := make([]string, 0, 5)
	if p.TenureMonths < 12 {
		factors = append(factors, fmt.Sprintf("New customer (tenure: %d months)", p.TenureMonths))
	}
	if p.Satisfaction < 3 {
		factors = append(factors, fmt.Sprintf("Low satisfaction (%.1f/5.0)", p.Satisfaction))
	}
	if p.SupportTickets > 2 {
		factors = append(factors, fmt.Sprintf("High support activity (%d tickets)", p.SupportTickets))
	}
	if p.OverdueAmount > 0 {
		factors = append(factors, fmt.Sprintf("Overdue payments ($%.2f)", p.OverdueAmount))
	}
	if p.NPS < 0 {
		factors = append(factors, fmt.Sprintf("Negative NPS score (%d)", p.NPS))
	}
	return factors
}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Plan struct {
	Severity Severity `json:"severity"`
	Headline string   `json:"headline"`
	Actions  []string `json:"actions"`
}

// RetentionPlan returns the playbook for a category.
func RetentionPlan(c Category) Plan {
	switch c {
	case CategoryHigh:
		return Plan{
			Severity: SeverityError,
			Headline: "Immediate Action Required",
			Actions: []string{
				"Schedule immediate call with customer",
				"Review account for service issues",
				"Consider retention offers or discounts",
			},
		}
	case CategoryMedium:
		return Plan{
			Severity: SeverityWarning,
			Headline: "Monitor Closely",
			Actions: []string{
				"Proactive outreach recommended",
				"Review recent support tickets",
				"Consider service upgrades or promotions",
			},
		}
	default:
		return Plan{
			Severity: SeveritySuccess,
			Headline: "Low Risk - Maintain Relationship",
			Actions: []string{
				"Continue excellent service",
				"Explore upsell opportunities",
				"Regular satisfaction surveys",
			},
		}
	}
}
