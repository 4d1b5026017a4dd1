package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/telco360/internal/clock"
	"github.com/smallbiznis/telco360/internal/config"
	obscontext "github.com/smallbiznis/telco360/internal/observability/context"
	"github.com/smallbiznis/telco360/internal/observability/metrics"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"github.com/smallbiznis/telco360/internal/telco/generator"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	regenerateLockPrefix = "telco360:dataset:regenerate:"
	regenerateLockTTL    = 2 * time.Minute
	defaultLockWait      = time.Minute
	defaultPollInterval  = 250 * time.Millisecond
)

type LoaderParams struct {
	fx.In

	Store      domain.Store
	Generator  *generator.Generator
	Locker     Locker
	Clock      clock.Clock
	Config     config.Config
	Log        *zap.Logger
	Metrics    *metrics.DatasetMetrics `optional:"true"`
	AppMetrics *metrics.Metrics        `optional:"true"`
}

// Loader hands the dashboard its dataset. The first call reads the store, or
// regenerates into it when it is empty; later calls reuse the cached copy
// until Reload.
type Loader struct {
	store      domain.Store
	gen        *generator.Generator
	locker     Locker
	clock      clock.Clock
	opts       config.GeneratorConfig
	regenerate bool
	log        *zap.Logger
	metrics    *metrics.DatasetMetrics
	appMetrics *metrics.Metrics

	lockWait     time.Duration
	pollInterval time.Duration

	mu     sync.RWMutex
	cached *domain.Dataset
	// loadMu keeps concurrent first requests from loading twice.
	loadMu sync.Mutex
}

func NewLoader(p LoaderParams) *Loader {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	locker := p.Locker
	if locker == nil {
		locker = NewLocalLocker()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &Loader{
		store:        p.Store,
		gen:          p.Generator,
		locker:       locker,
		clock:        clk,
		opts:         p.Config.Generator,
		regenerate:   p.Config.Dashboard.RegenerateMissing,
		log:          log.Named("telco.loader"),
		metrics:      p.Metrics,
		appMetrics:   p.AppMetrics,
		lockWait:     defaultLockWait,
		pollInterval: defaultPollInterval,
	}
}

// Source names the backing store.
func (l *Loader) Source() string { return l.store.Name() }

// Dataset returns the cached dataset, loading it on first use.
func (l *Loader) Dataset(ctx context.Context) (*domain.Dataset, error) {
	if ds := l.current(); ds != nil {
		return ds, nil
	}

	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	if ds := l.current(); ds != nil {
		return ds, nil
	}
	return l.load(ctx)
}

// Reload drops the cache and reads the store again.
func (l *Loader) Reload(ctx context.Context) (*domain.Dataset, error) {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	return l.load(ctx)
}

func (l *Loader) current() *domain.Dataset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cached
}

func (l *Loader) load(ctx context.Context) (*domain.Dataset, error) {
	started := l.clock.Now()
	source := l.store.Name()

	ds, outcome, err := l.readOrRegenerate(ctx)
	if err != nil {
		l.metrics.ObserveLoadError(source, err)
		l.log.Warn("dataset load failed", zap.String("source", source), zap.Error(err))
		return nil, err
	}

	l.mu.Lock()
	l.cached = ds
	l.mu.Unlock()

	l.metrics.ObserveLoad(source, outcome, l.clock.Now().Sub(started), len(ds.Customers), len(ds.Usage))
	l.log.Info("dataset loaded",
		zap.String("source", source),
		zap.String("outcome", outcome),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("usage_records", len(ds.Usage)),
	)
	return ds, nil
}

func (l *Loader) readOrRegenerate(ctx context.Context) (*domain.Dataset, string, error) {
	ok, err := l.store.Exists(ctx)
	if err != nil {
		return nil, "", err
	}
	if ok {
		ds, err := l.store.Load(ctx)
		return ds, metrics.OutcomeOK, err
	}
	if !l.regenerate || l.gen == nil {
		return nil, "", domain.ErrDatasetMissing
	}

	key := regenerateLockPrefix + l.store.Name()
	token, err := l.acquire(ctx, key)
	if err != nil {
		return nil, "", err
	}
	if token == "" {
		// Another instance finished while we waited.
		ds, err := l.store.Load(ctx)
		return ds, metrics.OutcomeOK, err
	}
	defer func() {
		if err := l.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			l.log.Warn("release regeneration lock failed", zap.String("key", key), zap.Error(err))
		}
	}()

	if ok, err := l.store.Exists(ctx); err != nil {
		return nil, "", err
	} else if ok {
		ds, err := l.store.Load(ctx)
		return ds, metrics.OutcomeOK, err
	}

	ds, err := l.generate(ctx)
	if err != nil {
		return nil, "", err
	}
	return ds, metrics.OutcomeRegenerated, nil
}

// acquire polls the lock until it is ours, the store fills up (empty token),
// or the wait budget runs out.
func (l *Loader) acquire(ctx context.Context, key string) (string, error) {
	started := time.Now()
	defer func() { l.metrics.ObserveLockWait(time.Since(started)) }()

	deadline := started.Add(l.lockWait)
	for {
		token, ok, err := l.locker.TryLock(ctx, key, regenerateLockTTL)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}

		if exists, err := l.store.Exists(ctx); err == nil && exists {
			return "", nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("regenerate %s: %w", l.store.Name(), metrics.ErrLockHeld)
		}

		timer := time.NewTimer(l.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Loader) generate(ctx context.Context) (*domain.Dataset, error) {
	opts := generator.Options{
		Customers: l.opts.Customers,
		Months:    l.opts.Months,
		Seed:      l.opts.Seed,
		AsOf:      clock.Today(l.clock),
	}
	if opts.Customers == 0 {
		opts.Customers = generator.DefaultCustomers
	}
	if opts.Months == 0 {
		opts.Months = generator.DefaultMonths
	}

	runID := ulid.MustNew(ulid.Timestamp(l.clock.Now()), ulid.DefaultEntropy()).String()
	ctx = obscontext.WithRunID(ctx, runID)
	l.log.Info("dataset missing, regenerating",
		zap.String("source", l.store.Name()),
		zap.String("run_id", runID),
		zap.Int("customers", opts.Customers),
	)

	ds, err := l.gen.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := l.store.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("save regenerated dataset: %w", err)
	}
	l.appMetrics.RecordGeneration(ctx, l.store.Name(), len(ds.Customers))
	return ds, nil
}
