package dashboard

import (
	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

type field func(domain.Customer) float64

var (
	revenue      field = func(c domain.Customer) float64 { return c.MonthlyRevenue }
	satisfaction field = func(c domain.Customer) float64 { return c.SatisfactionScore }
	voiceMinutes field = func(c domain.Customer) float64 { return c.VoiceMinutes30d }
	dataGB       field = func(c domain.Customer) float64 { return c.DataGB30d }
	smsCount     field = func(c domain.Customer) float64 { return float64(c.SMSCount30d) }
	overdue      field = func(c domain.Customer) float64 { return c.OverdueAmount }
	tickets      field = func(c domain.Customer) float64 { return float64(c.SupportTickets6m) }
	tenure       field = func(c domain.Customer) float64 { return float64(c.TenureMonths) }
	riskLevel    field = func(c domain.Customer) float64 { return float64(c.ChurnRisk.Level()) }
)

func column(cs []domain.Customer, f field) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = f(c)
	}
	return out
}

func filter(cs []domain.Customer, keep func(domain.Customer) bool) []domain.Customer {
	var out []domain.Customer
	for _, c := range cs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func onPlan(plan string) func(domain.Customer) bool {
	return func(c domain.Customer) bool { return c.PlanType == plan }
}

// byPlan groups customers per plan type, skipping plans nobody is on.
func byPlan(cs []domain.Customer) ([]string, map[string][]domain.Customer) {
	groups := make(map[string][]domain.Customer, len(domain.Plans))
	for _, c := range cs {
		groups[c.PlanType] = append(groups[c.PlanType], c)
	}
	plans := make([]string, 0, len(groups))
	for _, p := range domain.Plans {
		if len(groups[p]) > 0 {
			plans = append(plans, p)
		}
	}
	return plans, groups
}

func planCounts(cs []domain.Customer) []Point {
	plans, groups := byPlan(cs)
	points := make([]Point, len(plans))
	for i, p := range plans {
		points[i] = Point{Label: p, Value: float64(len(groups[p]))}
	}
	return points
}

func planSums(cs []domain.Customer, f field) []Point {
	plans, groups := byPlan(cs)
	points := make([]Point, len(plans))
	for i, p := range plans {
		points[i] = Point{Label: p, Value: round2(sum(column(groups[p], f)))}
	}
	return points
}

func planMeans(cs []domain.Customer, f field) []Point {
	plans, groups := byPlan(cs)
	points := make([]Point, len(plans))
	for i, p := range plans {
		points[i] = Point{Label: p, Value: round2(mean(column(groups[p], f)))}
	}
	return points
}

func riskCounts(cs []domain.Customer) map[churn.Category]int {
	counts := make(map[churn.Category]int, len(churn.Categories))
	for _, c := range cs {
		counts[c.ChurnRisk]++
	}
	return counts
}

func riskPoints(cs []domain.Customer) []Point {
	counts := riskCounts(cs)
	var points []Point
	for _, cat := range churn.Categories {
		if counts[cat] > 0 {
			points = append(points, Point{Label: string(cat), Value: float64(counts[cat])})
		}
	}
	return points
}

var paymentMethods = []string{
	domain.PaymentCreditCard,
	domain.PaymentDebitCard,
	domain.PaymentBankTransfer,
	domain.PaymentCash,
}

func paymentCounts(cs []domain.Customer) []Point {
	counts := make(map[string]int, len(paymentMethods))
	for _, c := range cs {
		counts[c.PaymentMethod]++
	}
	var points []Point
	for _, m := range paymentMethods {
		if counts[m] > 0 {
			points = append(points, Point{Label: m, Value: float64(counts[m])})
		}
	}
	return points
}
