package observability

import (
	"strings"

	"github.com/smallbiznis/telco360/internal/config"
	"github.com/spf13/viper"
)

// Config holds observability configuration derived from environment variables.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64

	PrometheusNamespace string
}

// LoadConfig layers the observability env variables over the app config.
// Exporters stay off unless a collector endpoint is configured.
func LoadConfig(cfg config.Config) Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DEPLOYMENT_ENV", cfg.Environment)
	v.SetDefault("SERVICE_VERSION", cfg.AppVersion)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	v.SetDefault("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	v.SetDefault("OTEL_SAMPLING_RATIO", 0.1)

	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "telco360"
	}

	endpoint := trimmed(v, "OTEL_EXPORTER_OTLP_ENDPOINT")
	protocol := strings.ToLower(trimmed(v, "OTEL_EXPORTER_OTLP_PROTOCOL"))
	if traces := strings.ToLower(trimmed(v, "OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); traces != "" {
		protocol = traces
	}

	v.SetDefault("OTEL_ENABLED", endpoint != "")

	return Config{
		ServiceName:          serviceName,
		Environment:          trimmed(v, "DEPLOYMENT_ENV"),
		Version:              trimmed(v, "SERVICE_VERSION"),
		LogLevel:             strings.ToLower(trimmed(v, "LOG_LEVEL")),
		LogFormat:            strings.ToLower(trimmed(v, "LOG_FORMAT")),
		OtelEnabled:          v.GetBool("OTEL_ENABLED"),
		OtelExporterEndpoint: endpoint,
		OtelExporterProtocol: protocol,
		OtelSamplingRatio:    v.GetFloat64("OTEL_SAMPLING_RATIO"),
		PrometheusNamespace:  prometheusNamespace(serviceName),
	}
}

// Debug is true for debug logging or a development environment.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func trimmed(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

// prometheusNamespace turns the service name into a metric prefix.
func prometheusNamespace(serviceName string) string {
	ns := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(serviceName))
	if ns == "" {
		return "telco360"
	}
	return ns
}
