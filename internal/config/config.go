package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OrdersAMQPURL string

	Dashboard DashboardConfig
	Generator GeneratorConfig
}

type DashboardConfig struct {
	// Source selects where the dashboard reads the dataset from: "csv" or "db".
	Source            string
	DataDir           string
	ChurnRulesDir     string
	RegenerateMissing bool
	// ReloadPerMinute caps POST /api/dashboard/reload per caller when Redis
	// is configured. 0 disables the cap.
	ReloadPerMinute   int
}

type GeneratorConfig struct {
	Customers int
	Months    int
	Seed      uint64
}

const (
	SourceCSV = "csv"
	SourceDB  = "db"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "telco360"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", ""),

		// PG* names are what the orders admin was historically deployed with.
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", getenv("PGHOST", "localhost")),
		DBPort:            getenv("DATABASE_PORT", getenv("PGPORT", "5432")),
		DBName:            getenv("DATABASE_NAME", getenv("PGDATABASE", "postgres")),
		DBUser:            getenv("DATABASE_USER", getenv("PGUSER", "postgres")),
		DBPassword:        getenv("DATABASE_PASSWORD", getenv("PGPASSWORD", "")),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		OrdersAMQPURL: strings.TrimSpace(getenv("ORDERS_AMQP_URL", "")),

		Dashboard: DashboardConfig{
			Source:            normalizeSource(getenv("DASHBOARD_SOURCE", SourceCSV)),
			DataDir:           getenv("DATA_DIR", "."),
			ChurnRulesDir:     getenv("CHURN_RULES_DIR", "."),
			RegenerateMissing: getenvBool("DASHBOARD_REGENERATE_MISSING", true),
			ReloadPerMinute:   getenvInt("DASHBOARD_RELOAD_PER_MINUTE", 2),
		},
		Generator: GeneratorConfig{
			Customers: getenvInt("GENERATOR_CUSTOMERS", 1000),
			Months:    getenvInt("GENERATOR_MONTHS", 6),
			Seed:      uint64(getenvInt64("GENERATOR_SEED", 42)),
		},
	}

	return cfg
}

func normalizeSource(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SourceDB, "database", "postgres":
		return SourceDB
	default:
		return SourceCSV
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
