// Package churn scores how likely a customer is to cancel service.
//
// Scoring is additive: every factor looks up the first band it falls into and
// contributes that band's points. The summed score maps to a Category through
// two cutoffs. Nothing in here reads the clock or any global state.
package churn

import (
	"errors"
	"fmt"
)

type Category string

const (
	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"
)

// Categories lists every category from lowest to highest risk.
var Categories = []Category{CategoryLow, CategoryMedium, CategoryHigh}

// Level returns 1, 2 or 3 for Low, Medium and High, 0 for anything else.
func (c Category) Level() int {
	switch c {
	case CategoryLow:
		return 1
	case CategoryMedium:
		return 2
	case CategoryHigh:
		return 3
	default:
		return 0
	}
}

func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown churn category %q", raw)
}

// Below matches values strictly lower than Limit.
type Below struct {
	Limit  float64 `mapstructure:"limit" json:"limit"`
	Points int     `mapstructure:"points" json:"points"`
}

// Above matches values strictly greater than Limit.
type Above struct {
	Limit  float64 `mapstructure:"limit" json:"limit"`
	Points int     `mapstructure:"points" json:"points"`
}

// Rules is the threshold table. Below bands are checked in ascending order of
// Limit, Above bands in descending order; the first hit wins.
type Rules struct {
	Tenure           []Below `mapstructure:"tenure" json:"tenure"`
	Satisfaction     []Below `mapstructure:"satisfaction" json:"satisfaction"`
	SupportTickets   []Above `mapstructure:"supportTickets" json:"support_tickets"`
	OverdueAmount    []Above `mapstructure:"overdueAmount" json:"overdue_amount"`
	DaysSincePayment []Above `mapstructure:"daysSincePayment" json:"days_since_payment"`

	HighCutoff   int `mapstructure:"highCutoff" json:"high_cutoff"`
	MediumCutoff int `mapstructure:"mediumCutoff" json:"medium_cutoff"`
}

func DefaultRules() Rules {
	return Rules{
		Tenure: []Below{
			{Limit: 6, Points: 30},
			{Limit: 12, Points: 20},
			{Limit: 24, Points: 10},
		},
		Satisfaction: []Below{
			{Limit: 2, Points: 40},
			{Limit: 3, Points: 25},
			{Limit: 4, Points: 10},
		},
		SupportTickets: []Above{
			{Limit: 3, Points: 25},
			{Limit: 1, Points: 15},
		},
		OverdueAmount: []Above{
			{Limit: 0, Points: 30},
		},
		DaysSincePayment: []Above{
			{Limit: 45, Points: 20},
		},
		HighCutoff:   60,
		MediumCutoff: 30,
	}
}

var (
	ErrInvalidCutoffs = errors.New("invalid_cutoffs")
	ErrInvalidBands   = errors.New("invalid_bands")
)

// Validate rejects tables whose bands are out of order or whose cutoffs overlap.
// Every factor needs at least one band.
func (r Rules) Validate() error {
	if r.MediumCutoff <= 0 || r.HighCutoff <= r.MediumCutoff {
		return ErrInvalidCutoffs
	}
	for name, bands := range map[string][]Below{"tenure": r.Tenure, "satisfaction": r.Satisfaction} {
		if len(bands) == 0 {
			return fmt.Errorf("%w: %s has no bands", ErrInvalidBands, name)
		}
		for i, b := range bands {
			if b.Points < 0 || (i > 0 && b.Limit <= bands[i-1].Limit) {
				return fmt.Errorf("%w: %s", ErrInvalidBands, name)
			}
		}
	}
	for name, bands := range map[string][]Above{
		"supportTickets":   r.SupportTickets,
		"overdueAmount":    r.OverdueAmount,
		"daysSincePayment": r.DaysSincePayment,
	} {
		if len(bands) == 0 {
			return fmt.Errorf("%w: %s has no bands", ErrInvalidBands, name)
		}
		for i, b := range bands {
			if b.Points < 0 || (i > 0 && b.Limit >= bands[i-1].Limit) {
				return fmt.Errorf("%w: %s", ErrInvalidBands, name)
			}
		}
	}
	return nil
}

// Inputs are the five signals the score is computed from.
type Inputs struct {
	TenureMonths     int
	Satisfaction     float64
	SupportTickets   int
	DaysSincePayment int
	OverdueAmount    float64
}

type Assessment struct {
	Score    int      `json:"score"`
	Category Category `json:"category"`
}

// Score evaluates in against the rule table.
func Score(rules Rules, in Inputs) Assessment {
	score := belowPoints(rules.Tenure, float64(in.TenureMonths)) +
		belowPoints(rules.Satisfaction, in.Satisfaction) +
		abovePoints(rules.SupportTickets, float64(in.SupportTickets)) +
		abovePoints(rules.OverdueAmount, in.OverdueAmount) +
		abovePoints(rules.DaysSincePayment, float64(in.DaysSincePayment))

	return Assessment{Score: score, Category: rules.Categorize(score)}
}

// Categorize maps a cumulative score to its category.
func (r Rules) Categorize(score int) Category {
	switch {
	case score >= r.HighCutoff:
		return CategoryHigh
	case score >= r.MediumCutoff:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// Categorize scores in with DefaultRules.
func Categorize(in Inputs) Category {
	return Score(DefaultRules(), in).Category
}

func belowPoints(bands []Below, value float64) int {
	for _, b := range bands {
		if value < b.Limit {
			return b.Points
		}
	}
	return 0
}

func abovePoints(bands []Above, value float64) int {
	for _, b := range bands {
		if value > b.Limit {
			return b.Points
		}
	}
	return 0
}

// Source hands out the rule table currently in effect.
type Source interface {
	Current() Rules
}

type staticSource struct {
	rules Rules
}

// Static returns a Source that always yields rules.
func Static(rules Rules) Source {
	return staticSource{rules: rules}
}

func (s staticSource) Current() Rules {
	return s.rules
}
