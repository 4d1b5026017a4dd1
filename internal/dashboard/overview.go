package dashboard

import (
	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

const (
	satisfactionBins = 20
	usageBins        = 30
	overdueBins      = 20
)

func overviewAggregate(ds *domain.Dataset) *View {
	v := &View{Page: PageOverview, Mode: ViewAggregate, Heading: PageOverview.Heading}
	cs := ds.Customers

	active := len(filter(cs, func(c domain.Customer) bool { return c.AccountStatus == domain.StatusActive }))
	v.metric("Total Customers", count(len(cs)))
	v.metric("Active Customers", count(active))
	v.metric("Avg Monthly Revenue", money(mean(column(cs, revenue))))
	v.metric("High Risk Customers", count(riskCounts(cs)[churn.CategoryHigh]))

	v.chart(Chart{
		Kind:   ChartPie,
		Title:  "Customers by Plan Type",
		Series: []Series{{Name: "Customers", Points: planCounts(cs)}},
	})
	v.chart(Chart{
		Kind:  ChartHistogram,
		Title: "Satisfaction Score Distribution",
		Bins:  histogram(column(cs, satisfaction), satisfactionBins),
	})
	v.chart(Chart{
		Kind:   ChartBar,
		Title:  "Customers by Churn Risk",
		Series: []Series{{Name: "Customers", Points: riskPoints(cs)}},
	})
	v.chart(Chart{
		Kind:   ChartBar,
		Title:  "Total Revenue by Plan Type",
		Series: []Series{{Name: "Revenue", Points: planSums(cs, revenue)}},
	})
	return v
}

func overviewCustomer(c domain.Customer, history []domain.UsageRecord) *View {
	v := &View{Page: PageOverview, Mode: ViewCustomer, Heading: c.FullName(), Customer: profileOf(c)}

	v.metric("Monthly Revenue", money(c.MonthlyRevenue))
	v.metric("Satisfaction Score", score(c.SatisfactionScore))
	v.metric("NPS Score", count(c.NPSScore))
	v.metric("Support Tickets (6M)", count(c.SupportTickets6m))
	v.metric("Overdue Amount", money(c.OverdueAmount))

	v.chart(usageBreakdown(c))
	v.Lists = append(v.Lists,
		List{Title: "Current Products", Items: c.ProductsOwned},
		List{Title: "Recommended Products", Items: c.RecommendedProducts},
	)

	if len(history) > 0 {
		v.chart(trend("Data Usage (GB)", history, func(u domain.UsageRecord) float64 { return u.DataGB }))
		v.chart(trend("Voice Minutes", history, func(u domain.UsageRecord) float64 { return u.VoiceMinutes }))
		v.chart(trend("SMS Count", history, func(u domain.UsageRecord) float64 { return float64(u.SMSCount) }))
		v.chart(trend("Monthly Revenue", history, func(u domain.UsageRecord) float64 { return u.Revenue }))
	}
	return v
}

func profileOf(c domain.Customer) *Profile {
	return &Profile{
		ID:           c.ID,
		Name:         c.FullName(),
		Email:        c.Email,
		Phone:        c.Phone,
		Plan:         c.PlanType,
		Status:       c.AccountStatus,
		TenureMonths: c.TenureMonths,
		Location:     c.City + ", " + c.State,
		ChurnRisk:    c.ChurnRisk,
	}
}

func usageBreakdown(c domain.Customer) Chart {
	return Chart{
		Kind:  ChartBar,
		Title: "Usage Breakdown",
		Series: []Series{{Name: "Usage", Points: []Point{
			{Label: "Voice Minutes", Value: c.VoiceMinutes30d},
			{Label: "Data (GB)", Value: c.DataGB30d},
			{Label: "SMS Count", Value: float64(c.SMSCount30d)},
		}}},
	}
}

// trend plots one usage column month by month. history is already in
// ascending month order.
func trend(title string, history []domain.UsageRecord, value func(domain.UsageRecord) float64) Chart {
	points := make([]Point, len(history))
	for i, u := range history {
		points[i] = Point{Label: u.Month, Value: value(u)}
	}
	return Chart{Kind: ChartLine, Title: title, Series: []Series{{Name: title, Points: points}}}
}
