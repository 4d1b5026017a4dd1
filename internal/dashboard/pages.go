package dashboard

import (
	"errors"

	"github.com/gosimple/slug"
)

var ErrUnknownPage = errors.New("unknown_page")

// Page is one entry of the dashboard navigation. Key is the URL segment.
type Page struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Heading string `json:"heading"`
}

func newPage(title, heading string) Page {
	return Page{Key: slug.Make(title), Title: title, Heading: heading}
}

var (
	PageOverview = newPage("Customer Overview", "Customer Overview Dashboard")
	PageUsage    = newPage("Service Usage Analytics", "Service Usage Analytics")
	PageBilling  = newPage("Billing & Revenue", "Billing & Revenue Analysis")
	PageRisk     = newPage("Customer Risk & Retention", "Customer Risk & Retention")
)

// Pages is the navigation order.
var Pages = []Page{PageOverview, PageUsage, PageBilling, PageRisk}

func PageByKey(key string) (Page, error) {
	for _, p := range Pages {
		if p.Key == key {
			return p, nil
		}
	}
	return Page{}, ErrUnknownPage
}
