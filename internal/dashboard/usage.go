package dashboard

import (
	"fmt"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

func usageAggregate(ds *domain.Dataset) *View {
	v := &View{Page: PageUsage, Mode: ViewAggregate, Heading: PageUsage.Heading}
	cs := ds.Customers

	v.metric("Avg Voice Minutes", fmt.Sprintf("%.0f", mean(column(cs, voiceMinutes))))
	v.metric("Avg Data Usage", fmt.Sprintf("%.1f GB", mean(column(cs, dataGB))))
	v.metric("Avg SMS Count", fmt.Sprintf("%.0f", mean(column(cs, smsCount))))

	v.chart(Chart{
		Kind:  ChartHistogram,
		Title: "Data Usage Distribution (GB)",
		Bins:  histogram(column(cs, dataGB), usageBins),
	})
	v.chart(Chart{
		Kind:  ChartHistogram,
		Title: "Voice Minutes Distribution",
		Bins:  histogram(column(cs, voiceMinutes), usageBins),
	})
	v.chart(Chart{
		Kind:  ChartBar,
		Title: "Usage Patterns by Plan Type",
		Series: []Series{
			{Name: "Average Voice Minutes", Points: planMeans(cs, voiceMinutes)},
			{Name: "Average Data (GB)", Points: planMeans(cs, dataGB)},
			{Name: "Average SMS Count", Points: planMeans(cs, smsCount)},
		},
	})
	return v
}

func usageCustomer(ds *domain.Dataset, c domain.Customer, history []domain.UsageRecord) *View {
	v := &View{
		Page:     PageUsage,
		Mode:     ViewCustomer,
		Heading:  "Usage Analytics for " + c.FullName(),
		Customer: profileOf(c),
	}

	v.metric("Voice Minutes (30d)", fmt.Sprintf("%.0f", c.VoiceMinutes30d))
	v.metric("Data Usage (30d)", fmt.Sprintf("%.1f GB", c.DataGB30d))
	v.metric("SMS Count (30d)", count(c.SMSCount30d))

	if len(history) > 0 {
		v.chart(trend("Data Usage (GB)", history, func(u domain.UsageRecord) float64 { return u.DataGB }))
		v.chart(trend("Voice Minutes", history, func(u domain.UsageRecord) float64 { return u.VoiceMinutes }))
		v.chart(trend("SMS Count", history, func(u domain.UsageRecord) float64 { return float64(u.SMSCount) }))
	}

	peers := filter(ds.Customers, onPlan(c.PlanType))
	avg := planAverage{
		voice: mean(column(peers, voiceMinutes)),
		data:  mean(column(peers, dataGB)),
		sms:   mean(column(peers, smsCount)),
	}
	v.chart(Chart{
		Kind:  ChartBar,
		Title: fmt.Sprintf("Usage vs %s Plan Average", c.PlanType),
		Series: []Series{
			{Name: "Customer", Points: []Point{
				{Label: "Voice Minutes", Value: c.VoiceMinutes30d},
				{Label: "Data (GB)", Value: c.DataGB30d},
				{Label: "SMS Count", Value: float64(c.SMSCount30d)},
			}},
			{Name: "Plan Average", Points: []Point{
				{Label: "Voice Minutes", Value: round2(avg.voice)},
				{Label: "Data (GB)", Value: round2(avg.data)},
				{Label: "SMS Count", Value: round2(avg.sms)},
			}},
		},
	})
	v.Notices = append(v.Notices, usageInsights(c, avg)...)
	return v
}

type planAverage struct {
	voice, data, sms float64
}

const activeSMSThreshold = 100

// usageInsights compares a customer's 30 day usage with the average of their
// plan.
func usageInsights(c domain.Customer, avg planAverage) []Notice {
	var out []Notice
	if c.DataGB30d > avg.data*1.5 {
		out = append(out, Notice{Severity: churn.SeveritySuccess, Text: "High data user - Consider unlimited data plan"})
	}
	if c.DataGB30d < avg.data*0.5 {
		out = append(out, Notice{Severity: churn.SeverityInfo, Text: "Low data usage - Could downgrade to save money"})
	}
	if c.VoiceMinutes30d > avg.voice*1.3 {
		out = append(out, Notice{Severity: churn.SeverityWarning, Text: "Heavy voice user - Check voice plan limits"})
	}
	if c.SMSCount30d > activeSMSThreshold {
		out = append(out, Notice{Severity: churn.SeverityInfo, Text: "Active SMS user - Consider messaging apps"})
	}
	return out
}
