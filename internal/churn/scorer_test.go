package churn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreExampleIsHigh(t *testing.T) {
	got := Score(DefaultRules(), Inputs{
		TenureMonths:     3,
		Satisfaction:     1.5,
		SupportTickets:   4,
		DaysSincePayment: 50,
		OverdueAmount:    10,
	})

	assert.Equal(t, 145, got.Score)
	assert.Equal(t, CategoryHigh, got.Category)
}

func TestScoreBands(t *testing.T) {
	cases := []struct {
		name     string
		in       Inputs
		score    int
		category Category
	}{
		{
			name:     "loyal happy customer",
			in:       Inputs{TenureMonths: 60, Satisfaction: 4.5, SupportTickets: 0, DaysSincePayment: 10},
			score:    0,
			category: CategoryLow,
		},
		{
			name:     "tenure boundaries are exclusive",
			in:       Inputs{TenureMonths: 6, Satisfaction: 4},
			score:    20,
			category: CategoryLow,
		},
		{
			name:     "tenure 23 months",
			in:       Inputs{TenureMonths: 23, Satisfaction: 4},
			score:    10,
			category: CategoryLow,
		},
		{
			name:     "medium cutoff is inclusive",
			in:       Inputs{TenureMonths: 30, Satisfaction: 4.2, OverdueAmount: 0.01},
			score:    30,
			category: CategoryMedium,
		},
		{
			name:     "two tickets",
			in:       Inputs{TenureMonths: 30, Satisfaction: 3.5, SupportTickets: 2},
			score:    25,
			category: CategoryLow,
		},
		{
			name:     "three tickets is not above three",
			in:       Inputs{TenureMonths: 30, Satisfaction: 2.5, SupportTickets: 3},
			score:    40,
			category: CategoryMedium,
		},
		{
			name:     "payment exactly 45 days ago",
			in:       Inputs{TenureMonths: 30, Satisfaction: 4, DaysSincePayment: 45},
			score:    0,
			category: CategoryLow,
		},
		{
			name:     "high cutoff is inclusive",
			in:       Inputs{TenureMonths: 10, Satisfaction: 1.9},
			score:    60,
			category: CategoryHigh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(DefaultRules(), tc.in)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.category, got.Category)
		})
	}
}

func TestScoreIsPure(t *testing.T) {
	in := Inputs{TenureMonths: 8, Satisfaction: 2.7, SupportTickets: 2, DaysSincePayment: 70, OverdueAmount: 0}
	first := Score(DefaultRules(), in)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Score(DefaultRules(), in))
	}
	assert.Equal(t, first.Category, Categorize(in))
}

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	bad := DefaultRules()
	bad.HighCutoff = 20
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidCutoffs))

	unordered := DefaultRules()
	unordered.Tenure = []Below{{Limit: 12, Points: 20}, {Limit: 6, Points: 30}}
	assert.True(t, errors.Is(unordered.Validate(), ErrInvalidBands))

	unorderedAbove := DefaultRules()
	unorderedAbove.SupportTickets = []Above{{Limit: 1, Points: 15}, {Limit: 3, Points: 25}}
	assert.True(t, errors.Is(unorderedAbove.Validate(), ErrInvalidBands))

	noTenure := DefaultRules()
	noTenure.Tenure = nil
	assert.True(t, errors.Is(noTenure.Validate(), ErrInvalidBands))

	noOverdue := DefaultRules()
	noOverdue.OverdueAmount = []Above{}
	assert.True(t, errors.Is(noOverdue.Validate(), ErrInvalidBands))
}

func TestCategoryLevelAndParse(t *testing.T) {
	for i, c := range Categories {
		assert.Equal(t, i+1, c.Level())
		parsed, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	_, err := ParseCategory("Critical")
	assert.Error(t, err)
}

func TestRiskFactors(t *testing.T) {
	factors := RiskFactors(Profile{TenureMonths: 5, Satisfaction: 2.24, SupportTickets: 3, OverdueAmount: 42.5, NPS: -3})
	assert.Equal(t, []string{
		"New customer (tenure: 5 months)",
		"Low satisfaction (2.2/5.0)",
		"High support activity (3 tickets)",
		"Overdue payments ($42.50)",
		"Negative NPS score (-3)",
	}, factors)

	assert.Empty(t, RiskFactors(Profile{TenureMonths: 40, Satisfaction: 4.1, SupportTickets: 1, NPS: 8}))
}

func TestRetentionPlan(t *testing.T) {
	assert.Equal(t, SeverityError, RetentionPlan(CategoryHigh).Severity)
	assert.Equal(t, SeverityWarning, RetentionPlan(CategoryMedium).Severity)
	assert.Equal(t, SeveritySuccess, RetentionPlan(CategoryLow).Severity)
	assert.Len(t, RetentionPlan(CategoryHigh).Actions, 3)
}
