package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestChurnRulesHolderDefaultsWithoutFile(t *testing.T) {
	cfg := Config{Dashboard: DashboardConfig{ChurnRulesDir: t.TempDir()}}

	holder, err := NewChurnRulesHolder(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, churn.DefaultRules(), holder.Current())
}

func TestChurnRulesHolderReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeChurnFile(t, dir, `
churn:
  highCutoff: 50
  mediumCutoff: 20
  tenure:
    - limit: 6
      points: 30
  satisfaction:
    - limit: 2
      points: 40
  supportTickets:
    - limit: 3
      points: 25
  overdueAmount:
    - limit: 0
      points: 30
  daysSincePayment:
    - limit: 60
      points: 10
`)

	holder, err := NewChurnRulesHolder(Config{Dashboard: DashboardConfig{ChurnRulesDir: dir}}, zap.NewNop())
	require.NoError(t, err)

	rules := holder.Current()
	assert.Equal(t, 50, rules.HighCutoff)
	assert.Equal(t, 20, rules.MediumCutoff)
	require.Len(t, rules.DaysSincePayment, 1)
	assert.Equal(t, 60.0, rules.DaysSincePayment[0].Limit)

	got := churn.Score(rules, churn.Inputs{TenureMonths: 3, Satisfaction: 4.5})
	assert.Equal(t, churn.CategoryMedium, got.Category)
}

func TestChurnRulesHolderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeChurnFile(t, dir, `
churn:
  highCutoff: 10
  mediumCutoff: 30
`)

	_, err := NewChurnRulesHolder(Config{Dashboard: DashboardConfig{ChurnRulesDir: dir}}, zap.NewNop())
	assert.ErrorIs(t, err, churn.ErrInvalidCutoffs)
}

func TestChurnRulesHolderKeepsDefaultBandsForCutoffOnlyFile(t *testing.T) {
	dir := t.TempDir()
	writeChurnFile(t, dir, `
churn:
  highCutoff: 80
  mediumCutoff: 40
`)

	holder, err := NewChurnRulesHolder(Config{Dashboard: DashboardConfig{ChurnRulesDir: dir}}, zap.NewNop())
	require.NoError(t, err)

	rules := holder.Current()
	def := churn.DefaultRules()
	assert.Equal(t, 80, rules.HighCutoff)
	assert.Equal(t, 40, rules.MediumCutoff)
	assert.Equal(t, def.Tenure, rules.Tenure)
	assert.Equal(t, def.Satisfaction, rules.Satisfaction)
	assert.Equal(t, def.SupportTickets, rules.SupportTickets)
	assert.Equal(t, def.OverdueAmount, rules.OverdueAmount)
	assert.Equal(t, def.DaysSincePayment, rules.DaysSincePayment)

	got := churn.Score(rules, churn.Inputs{
		TenureMonths:     3,
		Satisfaction:     1.5,
		SupportTickets:   4,
		DaysSincePayment: 50,
		OverdueAmount:    10,
	})
	assert.Equal(t, 145, got.Score)
	assert.Equal(t, churn.CategoryHigh, got.Category)
}

func TestChurnRulesHolderRejectsEmptyBandList(t *testing.T) {
	dir := t.TempDir()
	writeChurnFile(t, dir, `
churn:
  tenure: []
`)

	_, err := NewChurnRulesHolder(Config{Dashboard: DashboardConfig{ChurnRulesDir: dir}}, zap.NewNop())
	assert.ErrorIs(t, err, churn.ErrInvalidBands)
}

func TestChurnRulesHolderHotReload(t *testing.T) {
	dir := t.TempDir()
	writeChurnFile(t, dir, `
churn:
  highCutoff: 70
  mediumCutoff: 35
`)

	core, logs := observer.New(zapcore.DebugLevel)
	holder, err := NewChurnRulesHolder(Config{Dashboard: DashboardConfig{ChurnRulesDir: dir}}, zap.New(core))
	require.NoError(t, err)
	require.Equal(t, 70, holder.Current().HighCutoff)

	// Overlapping cutoffs are rejected and the loaded table stays.
	writeChurnFile(t, dir, `
churn:
  highCutoff: 10
  mediumCutoff: 30
`)
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("churn rules reload ignored").Len() > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 70, holder.Current().HighCutoff)
	assert.Equal(t, 35, holder.Current().MediumCutoff)

	writeChurnFile(t, dir, `
churn:
  highCutoff: 90
  mediumCutoff: 45
`)
	assert.Eventually(t, func() bool {
		rules := holder.Current()
		return rules.HighCutoff == 90 && rules.MediumCutoff == 45
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, churn.DefaultRules().Tenure, holder.Current().Tenure)
}

func TestLoadFallsBackToPGVariables(t *testing.T) {
	t.Setenv("DATABASE_HOST", "")
	t.Setenv("PGHOST", "orders-db")
	t.Setenv("PGPORT", "6543")
	t.Setenv("DASHBOARD_SOURCE", "Database")

	cfg := Load()
	assert.Equal(t, "orders-db", cfg.DBHost)
	assert.Equal(t, "6543", cfg.DBPort)
	assert.Equal(t, SourceDB, cfg.Dashboard.Source)
	assert.Equal(t, uint64(42), cfg.Generator.Seed)
}

func writeChurnFile(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "churn.yml"), []byte(body), 0o600))
}
