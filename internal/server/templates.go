package server

import (
	"embed"
	"fmt"
	"html/template"
	"math"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/dashboard"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	tmplOrders    = "orders.tmpl"
	tmplDashboard = "dashboard.tmpl"
	tmplError     = "error.tmpl"
)

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
}

var templateFuncs = template.FuncMap{
	"num":         formatNumber,
	"pct":         barPercent,
	"binPct":      binPercent,
	"seriesMax":   seriesMax,
	"binsMax":     binsMax,
	"heat":        heatColor,
	"riskColor":   riskColor,
	"noticeClass": noticeClass,
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// barPercent scales v against max to a CSS width. Negative values draw empty.
func barPercent(v, max float64) string {
	if max <= 0 || v <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", math.Min(v/max, 1)*100)
}

func binPercent(count int, max float64) string {
	return barPercent(float64(count), max)
}

func seriesMax(series []dashboard.Series) float64 {
	var out float64
	for _, s := range series {
		for _, p := range s.Points {
			out = math.Max(out, p.Value)
		}
	}
	return out
}

func binsMax(bins []dashboard.Bin) float64 {
	var out int
	for _, b := range bins {
		out = max(out, b.Count)
	}
	return float64(out)
}

// heatColor shades a correlation: red for positive, blue for negative.
func heatColor(v float64) template.CSS {
	alpha := math.Min(math.Abs(v), 1)
	if v >= 0 {
		return template.CSS(fmt.Sprintf("background-color: rgba(220, 53, 69, %.2f)", alpha))
	}
	return template.CSS(fmt.Sprintf("background-color: rgba(13, 110, 253, %.2f)", alpha))
}

func riskColor(c churn.Category) string {
	return dashboard.RiskColor(c)
}

func noticeClass(s churn.Severity) string {
	switch s {
	case churn.SeverityError, churn.SeverityWarning, churn.SeveritySuccess:
		return "notice-" + string(s)
	default:
		return "notice-info"
	}
}
