package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppHost     string `mapstructure:"APP_HOST"`
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"APP_ENV"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	AppBaseURL  string `mapstructure:"APP_BASE_URL"`
	HotelName   string `mapstructure:"HOTEL_NAME"`
	LogDir      string `mapstructure:"LOG_DIR"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Database
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBDatabase     string `mapstructure:"DB_DATABASE"`
	DBUsername     string `mapstructure:"DB_USERNAME"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`

	// Auth
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	PublicKeyURL string `mapstructure:"PUBLIC_KEY_URL"`

	// Mail transport
	MailHost          string  `mapstructure:"MAIL_HOST"`
	MailPort          int     `mapstructure:"MAIL_PORT"`
	MailUsername      string  `mapstructure:"MAIL_USERNAME"`
	MailPassword      string  `mapstructure:"MAIL_PASSWORD"`
	MailFrom          string  `mapstructure:"MAIL_FROM"`
	MailRatePerSecond float64 `mapstructure:"MAIL_RATE_PER_SECOND"`

	// Checkout and pricing policy
	CheckoutStatus  string        `mapstructure:"CHECKOUT_STATUS"`
	TaxRate         float64       `mapstructure:"TAX_RATE"`
	PerKmDistance   float64       `mapstructure:"PER_KM_DISTANCE"`
	CurrencySymbol  string        `mapstructure:"CURRENCY_SYMBOL"`
	RenderTimeout   time.Duration `mapstructure:"RENDER_TIMEOUT"`
	MailTimeout     time.Duration `mapstructure:"MAIL_TIMEOUT"`
	ReviewTokenDays int           `mapstructure:"REVIEW_TOKEN_TTL_DAYS"`
	CleanupInterval time.Duration `mapstructure:"CLEANUP_INTERVAL"`

	// Background delivery
	AsyncDelivery bool   `mapstructure:"ASYNC_DELIVERY"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	GeminiAPIKey          string `mapstructure:"GEMINI_API_KEY"`
	SettingsEncryptionKey string `mapstructure:"SETTINGS_ENCRYPTION_KEY"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("FRONTEND_URL", "*")
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("HOTEL_NAME", "Villa Booking")
	v.SetDefault("LOG_DIR", "log/app")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_DATABASE", "villa_booking")
	v.SetDefault("DB_USERNAME", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("PUBLIC_KEY_URL", "")

	v.SetDefault("MAIL_HOST", "localhost")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USERNAME", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "no-reply@villa-booking.local")
	v.SetDefault("MAIL_RATE_PER_SECOND", 2.0)

	v.SetDefault("CHECKOUT_STATUS", "check-out")
	v.SetDefault("TAX_RATE", 0.10)
	v.SetDefault("PER_KM_DISTANCE", 10.0)
	v.SetDefault("CURRENCY_SYMBOL", "$")
	v.SetDefault("RENDER_TIMEOUT", "15s")
	v.SetDefault("MAIL_TIMEOUT", "20s")
	v.SetDefault("REVIEW_TOKEN_TTL_DAYS", 14)
	v.SetDefault("CLEANUP_INTERVAL", "24h")

	v.SetDefault("ASYNC_DELIVERY", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("SETTINGS_ENCRYPTION_KEY", "")
}

// Load reads .env (when present) and the process environment into AppConfig.
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TaxRate < 0 {
		return nil, fmt.Errorf("TAX_RATE must not be negative, got %v", cfg.TaxRate)
	}

	AppConfig = cfg
	return &cfg, nil
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUsername, c.DBPassword, c.DBDatabase, c.DBSSLMode)
}

// ReviewTokenTTL returns the lifetime of review tokens.
func (c *Config) ReviewTokenTTL() time.Duration {
	days := c.ReviewTokenDays
	if days <= 0 {
		days = 14
	}
	return time.Duration(days) * 24 * time.Hour
}
