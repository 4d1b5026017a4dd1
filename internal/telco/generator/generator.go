// Package generator builds the synthetic telco customer base and its monthly
// usage history.
package generator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/telco360/internal/churn"
	"github.com/smallbiznis/telco360/internal/clock"
	obscontext "github.com/smallbiznis/telco360/internal/observability/context"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ctxCheckEvery is how many customers are generated between cancellation checks.
const ctxCheckEvery = 256

type Params struct {
	fx.In

	Rules churn.Source
	Log   *zap.Logger
	Clock clock.Clock
}

type Generator struct {
	rules churn.Source
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) *Generator {
	rules := p.Rules
	if rules == nil {
		rules = churn.Static(churn.DefaultRules())
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Generator{rules: rules, log: log.Named("telco.generator"), clock: clk}
}

// Generate builds a dataset. It only reads the clock for GeneratedAt; every
// generated value depends on opts alone.
func (g *Generator) Generate(ctx context.Context, opts Options) (*domain.Dataset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	started := g.clock.Now()
	runID := obscontext.RunIDFromContext(ctx)
	if runID == "" {
		runID = ulid.MustNew(ulid.Timestamp(started), ulid.DefaultEntropy()).String()
	}
	log := g.log.With(zap.String("run_id", runID))

	asOf := opts.asOfDate()
	rules := g.rules.Current()
	s := newSampler(opts.Seed)

	customers := make([]domain.Customer, 0, opts.Customers)
	for i := 0; i < opts.Customers; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		customers = append(customers, s.customer(i+1, asOf, rules))
	}

	usage := make([]domain.UsageRecord, 0, opts.Customers*opts.Months)
	for _, c := range customers {
		usage = s.appendHistory(usage, c, asOf, opts.Months)
	}

	ds := domain.NewDataset(customers, usage)
	ds.RunID = runID
	ds.GeneratedAt = started

	log.Info("dataset generated",
		zap.Int("customers", len(customers)),
		zap.Int("usage_records", len(usage)),
		zap.Uint64("seed", opts.Seed),
		zap.String("as_of", asOf.Format(domain.DateLayout)),
		zap.Duration("elapsed", g.clock.Now().Sub(started)),
	)
	return ds, nil
}

var emailLocalReplacer = strings.NewReplacer(" ", "", "'", "")

func (s *sampler) customer(n int, asOf time.Time, rules churn.Rules) domain.Customer {
	firstName := s.faker.FirstName()
	lastName := s.faker.LastName()
	local := emailLocalReplacer.Replace(strings.ToLower(firstName + "." + lastName))
	c := domain.Customer{
		ID:        fmt.Sprintf("CUST_%06d", n),
		FirstName: firstName,
		LastName:  lastName,
		Email:     local + "@" + s.faker.RandomString(freeEmailDomains),
		Phone:     s.faker.PhoneFormatted(),
		City:      s.faker.City(),
		State:     s.faker.State(),
	}

	c.Age = s.intRange(18, 80)
	c.Gender = s.pick(genders)
	c.TenureMonths = s.intRange(1, 120)
	c.AccountStatus = s.pick(accountStatuses)

	c.PlanType = s.pick(planTypes)
	rev := revenueByPlan[c.PlanType]
	c.MonthlyRevenue = round(math.Max(minMonthlyRevenue, s.normal(rev[0], rev[1])), 2)

	c.VoiceMinutes30d = round(math.Max(0, s.gamma(2, 150)), 1)
	c.DataGB30d = round(math.Max(0, s.gamma(3, 8)), 2)
	c.SMSCount30d = s.poisson(50)

	c.LastPaymentDate = asOf.AddDate(0, 0, -s.rng.IntN(91))
	c.PaymentMethod = s.pick(paymentMethods)
	if s.chance(0.15) {
		c.OverdueAmount = round(s.uniform(20, 200), 2)
	}

	c.SatisfactionScore = round(s.beta(3, 1.5)*5, 2)
	c.NPSScore = s.intRange(-10, 11)
	c.SupportTickets6m = s.poisson(1.5)
	if c.SupportTickets6m > 0 {
		d := asOf.AddDate(0, 0, -s.rng.IntN(181))
		c.LastSupportDate = &d
	}

	// Scored from the stored, rounded values so a reloaded CSV re-scores to
	// the same category.
	c.ChurnRisk = churn.Score(rules, c.ChurnInputs(asOf)).Category

	c.ProductsOwned = s.productsOwned(c.PlanType)
	c.RecommendedProducts = s.recommendations(c)
	return c
}

func (s *sampler) productsOwned(plan string) []string {
	owned := []string{ProductMobile}
	if plan != domain.PlanBasic && s.chance(0.7) {
		owned = append(owned, ProductInternet)
	}
	if plan == domain.PlanPremium || plan == domain.PlanEnterprise {
		if s.chance(0.5) {
			owned = append(owned, ProductTV)
		}
		if s.chance(0.3) {
			owned = append(owned, ProductHomeSecurity)
		}
	}
	if plan == domain.PlanEnterprise && s.chance(0.8) {
		owned = append(owned, ProductBusiness)
	}
	for _, p := range addOnProducts {
		if s.chance(0.2) {
			owned = append(owned, p)
		}
	}
	return owned
}

// recommendations is sample cross-sell logic, capped at maxRecommendations.
func (s *sampler) recommendations(c domain.Customer) []string {
	recs := make([]string, 0, maxRecommendations)
	if c.DataGB30d > highDataUsageGB && !c.Owns(ProductUnlimitedData) {
		recs = append(recs, RecommendUnlimitedData)
	}
	if s.chance(0.15) && !c.Owns(ProductRoaming) {
		recs = append(recs, RecommendInternational)
	}
	if s.chance(0.3) {
		recs = append(recs, RecommendDeviceUpgrade)
	}
	if !c.Owns(ProductInternet) && s.chance(0.4) {
		recs = append(recs, RecommendHomeInternet)
	}
	if !c.Owns(ProductTV) && c.Owns(ProductInternet) && s.chance(0.35) {
		recs = append(recs, RecommendTVBundle)
	}
	premium := c.PlanType == domain.PlanPremium || c.PlanType == domain.PlanEnterprise
	if premium && !c.Owns(ProductHomeSecurity) && s.chance(0.25) {
		recs = append(recs, RecommendHomeSecurity)
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// appendHistory adds one row per month, newest first, scaled from the
// customer's 30 day snapshot with a yearly seasonal swing.
func (s *sampler) appendHistory(dst []domain.UsageRecord, c domain.Customer, asOf time.Time, months int) []domain.UsageRecord {
	for m := 0; m < months; m++ {
		date := asOf.AddDate(0, 0, -30*m)
		seasonal := 1 + 0.1*math.Sin(2*math.Pi*float64(date.Month())/12)

		voice := math.Max(0, c.VoiceMinutes30d*seasonal*s.normal(1, 0.2))
		data := math.Max(0, c.DataGB30d*seasonal*s.normal(1, 0.3))
		sms := math.Max(0, float64(c.SMSCount30d)*seasonal*s.normal(1, 0.4))
		revenue := c.MonthlyRevenue * s.normal(1, 0.1)

		dst = append(dst, domain.UsageRecord{
			CustomerID:   c.ID,
			Month:        date.Format(domain.MonthLayout),
			VoiceMinutes: round(voice, 1),
			DataGB:       round(data, 2),
			SMSCount:     int(math.Round(sms)),
			Revenue:      round(revenue, 2),
		})
	}
	return dst
}
