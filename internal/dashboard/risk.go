package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

var highRiskColumns = []string{
	"customer_id",
	"first_name",
	"last_name",
	"plan_type",
	"monthly_revenue",
	"satisfaction_score",
	"support_tickets_6m",
	"overdue_amount",
}

var correlationLabels = []string{
	"risk_score",
	"satisfaction_score",
	"support_tickets_6m",
	"tenure_months",
	"overdue_amount",
}

func riskAggregate(ds *domain.Dataset) *View {
	v := &View{Page: PageRisk, Mode: ViewAggregate, Heading: PageRisk.Heading}
	cs := ds.Customers
	counts := riskCounts(cs)

	highPct := 0.0
	if len(cs) > 0 {
		highPct = float64(counts[churn.CategoryHigh]) / float64(len(cs)) * 100
	}
	v.metric("High Risk Customers", count(counts[churn.CategoryHigh]))
	v.metric("Medium Risk Customers", count(counts[churn.CategoryMedium]))
	v.metric("Low Risk Customers", count(counts[churn.CategoryLow]))
	v.metric("High Risk %", fmt.Sprintf("%.1f%%", highPct))

	v.chart(Chart{
		Kind:   ChartPie,
		Title:  "Customer Risk Levels",
		Series: []Series{{Name: "Customers", Points: riskPoints(cs)}},
	})

	var boxes []Box
	for _, cat := range churn.Categories {
		group := filter(cs, func(c domain.Customer) bool { return c.ChurnRisk == cat })
		if len(group) > 0 {
			boxes = append(boxes, boxStats(string(cat), column(group, satisfaction)))
		}
	}
	v.chart(Chart{Kind: ChartBox, Title: "Satisfaction Score by Risk Level", Boxes: boxes})

	high := filter(cs, func(c domain.Customer) bool { return c.ChurnRisk == churn.CategoryHigh })
	if len(high) == 0 {
		v.notice(churn.SeveritySuccess, "No high-risk customers identified!")
	} else {
		v.Tables = append(v.Tables, highRiskTable(high))
	}

	if len(cs) > 1 {
		m := correlations(correlationLabels, [][]float64{
			column(cs, riskLevel),
			column(cs, satisfaction),
			column(cs, tickets),
			column(cs, tenure),
			column(cs, overdue),
		})
		v.chart(Chart{Kind: ChartHeatmap, Title: "Risk Factor Correlation Matrix", Matrix: &m})
	}
	return v
}

// highRiskTable lists customers by monthly revenue, highest first.
func highRiskTable(high []domain.Customer) Table {
	rows := append([]domain.Customer(nil), high...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MonthlyRevenue > rows[j].MonthlyRevenue })

	t := Table{Title: "High Risk Customers Requiring Attention", Columns: highRiskColumns}
	for _, c := range rows {
		t.Rows = append(t.Rows, []string{
			c.ID,
			c.FirstName,
			c.LastName,
			c.PlanType,
			strconv.FormatFloat(c.MonthlyRevenue, 'f', 2, 64),
			strconv.FormatFloat(c.SatisfactionScore, 'f', 1, 64),
			strconv.Itoa(c.SupportTickets6m),
			strconv.FormatFloat(c.OverdueAmount, 'f', 2, 64),
		})
	}
	return t
}

func riskCustomer(c domain.Customer, asOf time.Time) *View {
	v := &View{
		Page:     PageRisk,
		Mode:     ViewCustomer,
		Heading:  "Risk Assessment for " + c.FullName(),
		Customer: profileOf(c),
	}

	v.metric("Churn Risk", string(c.ChurnRisk))
	v.metric("Satisfaction Score", score(c.SatisfactionScore))
	v.metric("NPS Score", count(c.NPSScore))
	v.metric("Support Tickets (6M)", count(c.SupportTickets6m))

	if factors := churn.RiskFactors(c.RiskProfile()); len(factors) > 0 {
		v.notice(churn.SeverityWarning, "Risk Factors Identified:")
		v.Lists = append(v.Lists, List{Title: "Risk Factor Analysis", Items: factors})
	} else {
		v.notice(churn.SeveritySuccess, "No major risk factors identified")
	}

	plan := churn.RetentionPlan(c.ChurnRisk)
	v.notice(plan.Severity, plan.Headline)
	v.Lists = append(v.Lists, List{Title: "Retention Recommendations", Items: plan.Actions})

	v.Tables = append(v.Tables, journey(c, asOf))
	return v
}

// journey lists the customer's most recent touch points. A customer that
// never contacted support has no support row.
func journey(c domain.Customer, asOf time.Time) Table {
	t := Table{
		Title:   "Customer Journey",
		Columns: []string{"Event", "Date", "Days Ago"},
		Rows: [][]string{{
			"Last Payment",
			c.LastPaymentDate.Format(domain.DateLayout),
			strconv.Itoa(c.DaysSincePayment(asOf)),
		}},
	}
	if days, ok := c.DaysSinceSupport(asOf); ok {
		t.Rows = append(t.Rows, []string{
			"Last Support Contact",
			c.LastSupportDate.Format(domain.DateLayout),
			strconv.Itoa(days),
		})
	}
	return t
}
