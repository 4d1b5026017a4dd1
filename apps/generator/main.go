// Command generator writes a synthetic telco customer base and its usage
// history to CSV files, the database, or both.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/telco360/internal/clock"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/migration"
	"github.com/smallbiznis/telco360/internal/observability"
	obscontext "github.com/smallbiznis/telco360/internal/observability/context"
	"github.com/smallbiznis/telco360/internal/observability/logger"
	"github.com/smallbiznis/telco360/internal/telco/domain"
	"github.com/smallbiznis/telco360/internal/telco/generator"
	"github.com/smallbiznis/telco360/internal/telco/store"
	"github.com/smallbiznis/telco360/pkg/db"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	sinkCSV  = "csv"
	sinkDB   = "db"
	sinkBoth = "both"
)

var errInvalidSink = errors.New("invalid_sink")

type runOptions struct {
	Generate generator.Options
	OutDir   string
	Sink     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "generator:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg := config.Load()
	opts, err := parseOptions(cfg, clock.System(), args)
	if err != nil {
		return err
	}

	log, err := logger.New(nil, observability.LoggerConfig(observability.LoadConfig(cfg)))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	rules, err := config.NewChurnRulesHolder(cfg, log)
	if err != nil {
		return err
	}

	runID := ulid.Make().String()
	ctx = obscontext.WithRunID(ctx, runID)
	log = log.With(zap.String("run_id", runID))

	gen := generator.New(generator.Params{Rules: rules, Log: log, Clock: clock.System()})
	ds, err := gen.Generate(ctx, opts.Generate)
	if err != nil {
		return err
	}

	sinks, err := openSinks(cfg, opts, log)
	if err != nil {
		return err
	}
	for _, sink := range sinks {
		started := time.Now()
		if err := sink.Save(ctx, ds); err != nil {
			return fmt.Errorf("save %s: %w", sink.Name(), err)
		}
		log.Info("dataset written",
			zap.String("sink", sink.Name()),
			zap.String("customers", humanize.Comma(int64(ds.Len()))),
			zap.String("usage_records", humanize.Comma(int64(len(ds.Usage)))),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
	return nil
}

// parseOptions layers flags over GENERATOR_* environment variables over the
// application config defaults.
func parseOptions(cfg config.Config, clk clock.Clock, args []string) (runOptions, error) {
	flags := pflag.NewFlagSet("generator", pflag.ContinueOnError)
	flags.Int("customers", cfg.Generator.Customers, "number of customers to generate")
	flags.Int("months", cfg.Generator.Months, "months of usage history per customer")
	flags.Uint64("seed", cfg.Generator.Seed, "random seed")
	flags.String("as-of", "", "anchor date as YYYY-MM-DD (default today, UTC)")
	flags.String("out", cfg.Dashboard.DataDir, "directory for customer_data.csv and usage_history.csv")
	flags.String("sink", sinkCSV, "where to write the dataset: csv, db or both")
	if err := flags.Parse(args); err != nil {
		return runOptions{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("GENERATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return runOptions{}, err
	}

	asOf := clock.Today(clk)
	if raw := strings.TrimSpace(v.GetString("as-of")); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			return runOptions{}, fmt.Errorf("as-of %q: %w", raw, err)
		}
		asOf = parsed
	}

	sink := strings.ToLower(strings.TrimSpace(v.GetString("sink")))
	switch sink {
	case sinkCSV, sinkDB, sinkBoth:
	default:
		return runOptions{}, fmt.Errorf("%w: %q", errInvalidSink, sink)
	}

	opts := runOptions{
		Generate: generator.Options{
			Customers: v.GetInt("customers"),
			Months:    v.GetInt("months"),
			Seed:      v.GetUint64("seed"),
			AsOf:      asOf,
		},
		OutDir: v.GetString("out"),
		Sink:   sink,
	}
	if err := opts.Generate.Validate(); err != nil {
		return runOptions{}, err
	}
	return opts, nil
}

func openSinks(cfg config.Config, opts runOptions, log *zap.Logger) ([]domain.Store, error) {
	var sinks []domain.Store
	if opts.Sink == sinkCSV || opts.Sink == sinkBoth {
		sinks = append(sinks, store.NewCSVStore(opts.OutDir, log))
	}
	if opts.Sink == sinkDB || opts.Sink == sinkBoth {
		conn, err := db.Open(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := migration.Apply(conn, db.FromAppConfig(cfg).Type); err != nil {
			return nil, err
		}
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store.NewGormStore(conn, node, log))
	}
	return sinks, nil
}
