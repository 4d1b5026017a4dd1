package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var ErrEmptyReport = errors.New("empty_report")

// CustomerReport is the printable customer profile. Values are preformatted.
type CustomerReport struct {
	CustomerID  string
	Name        string
	Email       string
	Phone       string
	Location    string
	Plan        string
	Status      string
	Tenure      string
	ChurnRisk   string
	GeneratedOn string

	Metrics         []Metric
	Products        []string
	Recommendations []string
	RiskFactors     []string

	RetentionHeadline string
	RetentionActions  []string

	History []UsageRow
}

type Metric struct {
	Label string
	Value string
}

type UsageRow struct {
	Month   string
	Voice   string
	Data    string
	SMS     string
	Revenue string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) CustomerReport(ctx context.Context, report CustomerReport) (io.Reader, error) {
	if report.CustomerID == "" {
		return nil, ErrEmptyReport
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, report.Name, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Churn risk: "+report.ChurnRisk, props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   3,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Customer ID: "+report.CustomerID, props.Text{Top: 0}),
			text.New("Email: "+report.Email, props.Text{Top: 5}),
			text.New("Phone: "+report.Phone, props.Text{Top: 10}),
			text.New("Location: "+report.Location, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Plan: "+report.Plan, props.Text{Top: 0}),
			text.New("Status: "+report.Status, props.Text{Top: 5}),
			text.New("Tenure: "+report.Tenure, props.Text{Top: 10}),
			text.New("Generated: "+report.GeneratedOn, props.Text{Top: 15}),
		),
	)

	section(m, "Key metrics")
	for _, metric := range report.Metrics {
		m.AddRow(6,
			text.NewCol(6, metric.Label, props.Text{Size: 9}),
			text.NewCol(6, metric.Value, props.Text{Size: 9, Align: align.Right}),
		)
	}

	bullets(m, "Current products", report.Products)
	bullets(m, "Recommended products", report.Recommendations)
	bullets(m, "Risk factors", report.RiskFactors)
	bullets(m, report.RetentionHeadline, report.RetentionActions)

	if len(report.History) > 0 {
		section(m, "Usage history")
		m.AddRow(7,
			text.NewCol(4, "Month", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Voice min", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Data GB", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "SMS", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Revenue", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, row := range report.History {
			m.AddRow(6,
				text.NewCol(4, row.Month, props.Text{Size: 9}),
				text.NewCol(2, row.Voice, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, row.Data, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, row.SMS, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, row.Revenue, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func section(m core.Maroto, title string) {
	m.AddRow(12,
		text.NewCol(12, title, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)
}

// bullets skips the section entirely when items is empty.
func bullets(m core.Maroto, title string, items []string) {
	if len(items) == 0 {
		return
	}
	section(m, title)
	for _, item := range items {
		m.AddRow(6, text.NewCol(12, "- "+item, props.Text{Size: 9}))
	}
}
