package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Settlement tuning. The tolerance is the absolute balance under which a
	// couple is reported as settled.
	SettlementTolerance decimal.Decimal

	// Background job cadence.
	GiftSweepInterval      time.Duration
	PremiumRefreshInterval time.Duration

	// Soft usage caps below the both_premium tier.
	BasicCommentQuota      int
	OnePremiumCommentQuota int
	OnePremiumGoalQuota    int

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "couple-finance-app")
	viper.SetDefault("SETTLEMENT_TOLERANCE", "5.00")
	viper.SetDefault("GIFT_SWEEP_INTERVAL", "10m")
	viper.SetDefault("PREMIUM_REFRESH_INTERVAL", "24h")
	viper.SetDefault("BASIC_COMMENT_QUOTA", 10)
	viper.SetDefault("ONE_PREMIUM_COMMENT_QUOTA", 50)
	viper.SetDefault("ONE_PREMIUM_GOAL_QUOTA", 5)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if !cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	var err error
	cfg.JWTExpiryDuration, err = time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRY_DURATION %q, defaulting to 1h\n", viper.GetString("JWT_EXPIRY_DURATION"))
		cfg.JWTExpiryDuration = time.Hour
	}

	cfg.SettlementTolerance, err = decimal.NewFromString(viper.GetString("SETTLEMENT_TOLERANCE"))
	if err != nil {
		log.Printf("Warning: invalid SETTLEMENT_TOLERANCE %q, defaulting to 5.00\n", viper.GetString("SETTLEMENT_TOLERANCE"))
		cfg.SettlementTolerance = decimal.NewFromInt(5)
	}

	cfg.GiftSweepInterval, err = time.ParseDuration(viper.GetString("GIFT_SWEEP_INTERVAL"))
	if err != nil {
		cfg.GiftSweepInterval = 10 * time.Minute
	}
	cfg.PremiumRefreshInterval, err = time.ParseDuration(viper.GetString("PREMIUM_REFRESH_INTERVAL"))
	if err != nil {
		cfg.PremiumRefreshInterval = 24 * time.Hour
	}

	cfg.BasicCommentQuota = viper.GetInt("BASIC_COMMENT_QUOTA")
	cfg.OnePremiumCommentQuota = viper.GetInt("ONE_PREMIUM_COMMENT_QUOTA")
	cfg.OnePremiumGoalQuota = viper.GetInt("ONE_PREMIUM_GOAL_QUOTA")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
