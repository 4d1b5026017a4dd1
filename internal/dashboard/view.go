package dashboard

import (
	"github.com/smallbiznis/telco360/internal/churn"
)

const (
	ViewAggregate = "aggregate"
	ViewCustomer  = "customer"
)

type ChartKind string

const (
	ChartBar       ChartKind = "bar"
	ChartPie       ChartKind = "pie"
	ChartHistogram ChartKind = "histogram"
	ChartLine      ChartKind = "line"
	ChartBox       ChartKind = "box"
	ChartHeatmap   ChartKind = "heatmap"
)

// Metric is a headline figure, already formatted for display.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Chart carries the data behind one plot. Which fields are set depends on
// Kind: Series for bar, pie and line charts, Bins for histograms, Boxes for
// box plots and Matrix for heatmaps.
type Chart struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Series []Series  `json:"series,omitempty"`
	Bins   []Bin     `json:"bins,omitempty"`
	Boxes  []Box     `json:"boxes,omitempty"`
	Matrix *Matrix   `json:"matrix,omitempty"`
}

type Notice struct {
	Severity churn.Severity `json:"severity"`
	Text     string         `json:"text"`
}

type List struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Profile is the header shown above every single-customer view.
type Profile struct {
	ID           string         `json:"customer_id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Plan         string         `json:"plan_type"`
	Status       string         `json:"account_status"`
	TenureMonths int            `json:"tenure_months"`
	Location     string         `json:"location"`
	ChurnRisk    churn.Category `json:"churn_risk"`
}

// View is a fully computed dashboard page.
type View struct {
	Page     Page     `json:"page"`
	Mode     string   `json:"view"`
	Heading  string   `json:"heading"`
	Customer *Profile `json:"customer,omitempty"`
	Metrics  []Metric `json:"metrics"`
	Notices  []Notice `json:"notices,omitempty"`
	Lists    []List   `json:"lists,omitempty"`
	Charts   []Chart  `json:"charts,omitempty"`
	Tables   []Table  `json:"tables,omitempty"`
}

func (v *View) metric(label, value string) {
	v.Metrics = append(v.Metrics, Metric{Label: label, Value: value})
}

func (v *View) notice(s churn.Severity, text string) {
	v.Notices = append(v.Notices, Notice{Severity: s, Text: text})
}

func (v *View) chart(c Chart) {
	v.Charts = append(v.Charts, c)
}

// RiskColor is the traffic light colour for a churn category.
func RiskColor(c churn.Category) string {
	switch c {
	case churn.CategoryHigh:
		return "red"
	case churn.CategoryMedium:
		return "orange"
	default:
		return "green"
	}
}
