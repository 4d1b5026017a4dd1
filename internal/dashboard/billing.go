package dashboard

import (
	"fmt"
	"time"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/telco/domain"
)

func billingAggregate(ds *domain.Dataset) *View {
	v := &View{Page: PageBilling, Mode: ViewAggregate, Heading: PageBilling.Heading}
	cs := ds.Customers
	overdueCustomers := filter(cs, func(c domain.Customer) bool { return c.OverdueAmount > 0 })

	v.metric("Total Monthly Revenue", moneyGrouped(sum(column(cs, revenue))))
	v.metric("Average Revenue/Customer", money(mean(column(cs, revenue))))
	v.metric("Customers with Overdue", count(len(overdueCustomers)))
	v.metric("Total Overdue Amount", moneyGrouped(sum(column(cs, overdue))))

	v.chart(Chart{
		Kind:   ChartPie,
		Title:  "Revenue Distribution by Plan",
		Series: []Series{{Name: "Revenue", Points: planSums(cs, revenue)}},
	})
	v.chart(Chart{
		Kind:  ChartHistogram,
		Title: "Monthly Revenue Distribution",
		Bins:  histogram(column(cs, revenue), usageBins),
	})
	v.chart(Chart{
		Kind:   ChartBar,
		Title:  "Payment Method Distribution",
		Series: []Series{{Name: "Customers", Points: paymentCounts(cs)}},
	})
	if len(overdueCustomers) == 0 {
		v.notice(churn.SeveritySuccess, "No customers with overdue amounts!")
	} else {
		v.chart(Chart{
			Kind:  ChartHistogram,
			Title: "Overdue Amount Distribution",
			Bins:  histogram(column(overdueCustomers, overdue), overdueBins),
		})
	}
	return v
}

func billingCustomer(c domain.Customer, history []domain.UsageRecord, asOf time.Time) *View {
	v := &View{
		Page:     PageBilling,
		Mode:     ViewCustomer,
		Heading:  "Billing Details for " + c.FullName(),
		Customer: profileOf(c),
	}

	v.metric("Monthly Revenue", money(c.MonthlyRevenue))
	v.metric("Payment Method", c.PaymentMethod)
	v.metric("Days Since Payment", count(c.DaysSincePayment(asOf)))
	v.metric("Overdue Amount", money(c.OverdueAmount))

	v.Lists = append(v.Lists, List{Title: "Payment History", Items: []string{
		"Last Payment: " + c.LastPaymentDate.Format(domain.DateLayout),
		"Payment Method: " + c.PaymentMethod,
	}})
	if c.OverdueAmount > 0 {
		v.notice(churn.SeverityError, fmt.Sprintf("Customer has overdue amount of %s", money(c.OverdueAmount)))
	} else {
		v.notice(churn.SeveritySuccess, "Account is current with no overdue amounts")
	}

	if len(history) > 0 {
		months := len(history)
		v.chart(trend(fmt.Sprintf("%d-Month Revenue Trend", months), history, func(u domain.UsageRecord) float64 { return u.Revenue }))

		amounts := make([]float64, months)
		for i, u := range history {
			amounts[i] = u.Revenue
		}
		v.metric(fmt.Sprintf("%d-Month Total Revenue", months), money(sum(amounts)))
		v.metric("Average Monthly", money(mean(amounts)))
	}
	return v
}
