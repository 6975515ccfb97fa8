package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// SMTP settings for the notifier. When SMTPHost is empty the notifier
	// falls back to logging messages instead of sending them.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Rate limit for the public auth endpoints, e.g. "10-M" for 10 per minute.
	AuthRateLimit string

	// CORS allowlist. Empty in production means deny cross-origin requests;
	// outside production all origins are allowed.
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "medimatch-backend")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "no-reply@medimatch.local")
	viper.SetDefault("AUTH_RATE_LIMIT", "10-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SMTPFrom = viper.GetString("SMTP_FROM")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Notifications will be logged instead of sent.")
	}

	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")

	if origins := strings.TrimSpace(viper.GetString("CORS_ALLOWED_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}
