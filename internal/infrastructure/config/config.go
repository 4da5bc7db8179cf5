package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	LogLevel    string            `mapstructure:"log_level"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Pricing     PricingConfig     `mapstructure:"pricing"`
	Advisory    AdvisoryConfig    `mapstructure:"advisory"`
	Revaluation RevaluationConfig `mapstructure:"revaluation"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	Host            string   `mapstructure:"host"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PricingConfig holds upstream price provider settings. Base URLs are
// configurable so tests can point adapters at local servers.
type PricingConfig struct {
	CoinGeckoBaseURL string `mapstructure:"coingecko_base_url"`
	GoldAPIBaseURL   string `mapstructure:"goldapi_base_url"`
	GoldAPIKey       string `mapstructure:"goldapi_key"`
	FinnhubBaseURL   string `mapstructure:"finnhub_base_url"`
	FinnhubAPIKey    string `mapstructure:"finnhub_api_key"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

type AdvisoryConfig struct {
	GeminiAPIKey   string  `mapstructure:"gemini_api_key"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimitRPM   int     `mapstructure:"rate_limit_rpm"`
}

type RevaluationConfig struct {
	Schedule   string `mapstructure:"schedule"`
	CronSecret string `mapstructure:"cron_secret"`
	Enabled    bool   `mapstructure:"enabled"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Build database URL if not provided
	if config.Database.URL == "" {
		config.Database.URL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			config.Database.User,
			config.Database.Password,
			config.Database.Host,
			config.Database.Port,
			config.Database.Name,
			config.Database.SSLMode,
		)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.rate_limit_per_min", 100)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "folio_service")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", 300)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	// Pricing defaults - public production endpoints
	viper.SetDefault("pricing.coingecko_base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("pricing.goldapi_base_url", "https://www.goldapi.io/api")
	viper.SetDefault("pricing.finnhub_base_url", "https://finnhub.io/api/v1")
	viper.SetDefault("pricing.timeout_seconds", 10)

	// Advisory defaults
	viper.SetDefault("advisory.model", "gemini-1.5-flash")
	viper.SetDefault("advisory.max_tokens", 1000)
	viper.SetDefault("advisory.temperature", 0.4)
	viper.SetDefault("advisory.timeout_seconds", 20)
	viper.SetDefault("advisory.rate_limit_rpm", 60)

	// Revaluation defaults - hourly at minute 0
	viper.SetDefault("revaluation.schedule", "0 0 * * * *")
	viper.SetDefault("revaluation.enabled", true)
}

func overrideFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			viper.Set("server.port", p)
		}
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		viper.Set("database.url", dbURL)
	}

	if goldKey := os.Getenv("GOLDAPI_KEY"); goldKey != "" {
		viper.Set("pricing.goldapi_key", goldKey)
	}
	if finnhubKey := os.Getenv("FINNHUB_API_KEY"); finnhubKey != "" {
		viper.Set("pricing.finnhub_api_key", finnhubKey)
	}
	if coingeckoURL := os.Getenv("COINGECKO_BASE_URL"); coingeckoURL != "" {
		viper.Set("pricing.coingecko_base_url", coingeckoURL)
	}

	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		viper.Set("advisory.gemini_api_key", geminiKey)
	}

	if cronSecret := os.Getenv("CRON_SECRET"); cronSecret != "" {
		viper.Set("revaluation.cron_secret", cronSecret)
	}
	if schedule := os.Getenv("REVALUATION_SCHEDULE"); schedule != "" {
		viper.Set("revaluation.schedule", schedule)
	}
}

func validate(config *Config) error {
	if config.Database.URL == "" && (config.Database.Host == "" || config.Database.Name == "") {
		return fmt.Errorf("database configuration is incomplete")
	}

	if config.Pricing.TimeoutSeconds <= 0 {
		return fmt.Errorf("pricing timeout must be positive")
	}

	// Missing provider credentials are not fatal: the adapters degrade each
	// lookup to a per-symbol failure so the rest of the portfolio still prices.

	return nil
}
