package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string

	JWTSecret string
	JWTIssuer string
	RateLimit string

	AllowedOrigins []string

	RedisAddr        string
	AnalyticCacheTTL time.Duration

	Transfer   TransferConfig
	WorkingSet int
	Ledger     LedgerConfig

	ObjectBaseURL   string
	ObjectURLSecret string
	ObjectURLTTL    time.Duration
}

// TransferConfig holds the transfer detection defaults.
type TransferConfig struct {
	DaysWindow     int
	MaxResults     int
	CrossCurrency  bool
	FxTolerancePct float64
}

// LedgerConfig names the counter accounts used for postings.
type LedgerConfig struct {
	ReceivableAccount string
	PayableAccount    string
	SalesAccount      string
	ClearingAccount   string
	Currency          string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "bank-reconciliation-app")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("ANALYTIC_CACHE_TTL", "10m")
	viper.SetDefault("TRANSFER_DAYS_WINDOW", 2)
	viper.SetDefault("TRANSFER_MAX_RESULTS", 50)
	viper.SetDefault("TRANSFER_CROSS_CURRENCY", false)
	viper.SetDefault("TRANSFER_FX_TOLERANCE_PCT", 2.0)
	viper.SetDefault("WORKING_SET_LIMIT", 500)
	viper.SetDefault("LEDGER_RECEIVABLE_ACCOUNT", "4111")
	viper.SetDefault("LEDGER_PAYABLE_ACCOUNT", "401")
	viper.SetDefault("LEDGER_SALES_ACCOUNT", "707")
	viper.SetDefault("LEDGER_CLEARING_ACCOUNT", "473")
	viper.SetDefault("LEDGER_CURRENCY", "RON")
	viper.SetDefault("OBJECT_BASE_URL", "http://localhost:8080/api/v1")
	viper.SetDefault("OBJECT_URL_SECRET", "")
	viper.SetDefault("OBJECT_URL_TTL", "15m")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:    strings.ToLower(viper.GetString("STORE_DRIVER")),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTIssuer:      viper.GetString("JWT_ISSUER"),
		RateLimit:      viper.GetString("RATE_LIMIT"),
		AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		RedisAddr:      viper.GetString("REDIS_ADDR"),
		Transfer: TransferConfig{
			DaysWindow:     viper.GetInt("TRANSFER_DAYS_WINDOW"),
			MaxResults:     viper.GetInt("TRANSFER_MAX_RESULTS"),
			CrossCurrency:  viper.GetBool("TRANSFER_CROSS_CURRENCY"),
			FxTolerancePct: viper.GetFloat64("TRANSFER_FX_TOLERANCE_PCT"),
		},
		WorkingSet: viper.GetInt("WORKING_SET_LIMIT"),
		Ledger: LedgerConfig{
			ReceivableAccount: viper.GetString("LEDGER_RECEIVABLE_ACCOUNT"),
			PayableAccount:    viper.GetString("LEDGER_PAYABLE_ACCOUNT"),
			SalesAccount:      viper.GetString("LEDGER_SALES_ACCOUNT"),
			ClearingAccount:   viper.GetString("LEDGER_CLEARING_ACCOUNT"),
			Currency:          viper.GetString("LEDGER_CURRENCY"),
		},
		ObjectBaseURL:   viper.GetString("OBJECT_BASE_URL"),
		ObjectURLSecret: viper.GetString("OBJECT_URL_SECRET"),
	}

	if cfg.StoreDriver == StoreDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		log.Printf("Warning: unknown STORE_DRIVER '%s'. Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPostgres)
		cfg.StoreDriver = StoreDriverPostgres
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.ObjectURLSecret == "" {
		cfg.ObjectURLSecret = cfg.JWTSecret
		log.Println("Warning: OBJECT_URL_SECRET not set. Signing file URLs with JWT_SECRET.")
	}

	cfg.AnalyticCacheTTL = duration("ANALYTIC_CACHE_TTL", 10*time.Minute)
	cfg.ObjectURLTTL = duration("OBJECT_URL_TTL", 15*time.Minute)

	return cfg, nil
}

func duration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
