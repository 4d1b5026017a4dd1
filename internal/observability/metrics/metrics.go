package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
	Namespace        string
}

// Metrics exposes application-level OpenTelemetry instruments.
type Metrics struct {
	orderUpserts       metric.Int64Counter
	orderDeletes       metric.Int64Counter
	pageViews          metric.Int64Counter
	generatedCustomers metric.Int64Counter
	reloads            metric.Int64Counter
}

// NewProvider configures and registers the meter provider. Without an
// exporter a noop provider is installed.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics exporter initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New creates the domain instruments on the given provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	ns := namespace(cfg)
	meter := provider.Meter(ns)

	orderUpserts, err := meter.Int64Counter(ns+"_orders_upserted_total",
		metric.WithDescription("Orders inserted or overwritten."))
	if err != nil {
		return nil, err
	}
	orderDeletes, err := meter.Int64Counter(ns+"_orders_deleted_total",
		metric.WithDescription("Order delete requests, including ids that did not exist."))
	if err != nil {
		return nil, err
	}
	pageViews, err := meter.Int64Counter(ns+"_dashboard_page_views_total",
		metric.WithDescription("Dashboard page renders by page and view."))
	if err != nil {
		return nil, err
	}
	generatedCustomers, err := meter.Int64Counter(ns+"_generated_customers_total",
		metric.WithDescription("Synthetic customers written by the generator."))
	if err != nil {
		return nil, err
	}
	reloads, err := meter.Int64Counter(ns+"_dataset_reload_requests_total",
		metric.WithDescription("Dataset reload requests by rate limit outcome."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		orderUpserts:       orderUpserts,
		orderDeletes:       orderDeletes,
		pageViews:          pageViews,
		generatedCustomers: generatedCustomers,
		reloads:            reloads,
	}, nil
}

// RecordOrderUpsert counts one successful upsert from the given channel (form or api).
func (m *Metrics) RecordOrderUpsert(ctx context.Context, channel string) {
	if m == nil {
		return
	}
	m.orderUpserts.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("channel", channel))...))
}

func (m *Metrics) RecordOrderDelete(ctx context.Context, channel string) {
	if m == nil {
		return
	}
	m.orderDeletes.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("channel", channel))...))
}

// RecordPageView counts a dashboard render. view is "aggregate" or "customer".
func (m *Metrics) RecordPageView(ctx context.Context, page, view string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("page", strings.TrimSpace(page)),
		attribute.String("view", strings.TrimSpace(view)),
	)
	m.pageViews.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordGeneration(ctx context.Context, sink string, customers int) {
	if m == nil || customers <= 0 {
		return
	}
	m.generatedCustomers.Add(ctx, int64(customers), metric.WithAttributes(FilterAttributes(attribute.String("sink", sink))...))
}

// RecordReloadRequest counts a reload request. outcome is "allowed" or "throttled".
func (m *Metrics) RecordReloadRequest(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.reloads.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("outcome", outcome))...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

func namespace(cfg Config) string {
	if ns := strings.TrimSpace(cfg.Namespace); ns != "" {
		return ns
	}
	return "telco360"
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"channel":     {},
	"page":        {},
	"view":        {},
	"sink":        {},
	"source":      {},
	"outcome":     {},
	"status_code": {},
}

// FilterAttributes strips labels outside the allow list. Customer and order
// ids must never become metric labels.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
