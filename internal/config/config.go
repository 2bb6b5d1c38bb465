package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"

	"github.com/vitalred/vitalred/internal/triage"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	AuthSecret  string   `mapstructure:"AUTH_SECRET"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit      string  `mapstructure:"BODY_LIMIT"`
	TimeoutSeconds int     `mapstructure:"REQUEST_TIMEOUT_SECONDS"`

	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`

	// On-call recipients for high priority referral alerts.
	AlertEmails []string `mapstructure:"ALERT_EMAILS"`
	AlertPhones []string `mapstructure:"ALERT_PHONES"`

	// Priority engine overrides. Weights must sum to 1.0 when all six are set;
	// leaving them at zero keeps the engine defaults.
	HighThreshold   float64 `mapstructure:"PRIORITY_HIGH_THRESHOLD"`
	MediumThreshold float64 `mapstructure:"PRIORITY_MEDIUM_THRESHOLD"`
	WeightUrgency   float64 `mapstructure:"WEIGHT_URGENCY"`
	WeightVitals    float64 `mapstructure:"WEIGHT_VITALS"`
	WeightSeverity  float64 `mapstructure:"WEIGHT_SEVERITY"`
	WeightAge       float64 `mapstructure:"WEIGHT_AGE"`
	WeightSpecialty float64 `mapstructure:"WEIGHT_SPECIALTY"`
	WeightTemporal  float64 `mapstructure:"WEIGHT_TEMPORAL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("MIGRATIONS_DIR")
	v.BindEnv("ALERT_EMAILS")
	v.BindEnv("ALERT_PHONES")
	v.BindEnv("PRIORITY_HIGH_THRESHOLD")
	v.BindEnv("PRIORITY_MEDIUM_THRESHOLD")
	v.BindEnv("WEIGHT_URGENCY")
	v.BindEnv("WEIGHT_VITALS")
	v.BindEnv("WEIGHT_SEVERITY")
	v.BindEnv("WEIGHT_AGE")
	v.BindEnv("WEIGHT_SPECIALTY")
	v.BindEnv("WEIGHT_TEMPORAL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma-separated lists arrive as single strings from env vars.
	cfg.CORSOrigins = splitList(cfg.CORSOrigins, v.GetString("CORS_ORIGINS"))
	cfg.AlertEmails = splitList(cfg.AlertEmails, v.GetString("ALERT_EMAILS"))
	cfg.AlertPhones = splitList(cfg.AlertPhones, v.GetString("ALERT_PHONES"))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active, all requests get admin access.")
	}

	return cfg, nil
}

func splitList(parsed []string, raw string) []string {
	if parsed != nil {
		return parsed
	}
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// EngineConfig builds the priority engine configuration, applying any
// overrides set in the environment on top of the engine defaults.
func (c *Config) EngineConfig() triage.Config {
	ec := triage.DefaultConfig()
	if c.HighThreshold > 0 {
		ec.HighThreshold = c.HighThreshold
	}
	if c.MediumThreshold > 0 {
		ec.MediumThreshold = c.MediumThreshold
	}
	if c.WeightUrgency > 0 || c.WeightVitals > 0 || c.WeightSeverity > 0 ||
		c.WeightAge > 0 || c.WeightSpecialty > 0 || c.WeightTemporal > 0 {
		ec.Weights = triage.Weights{
			UrgencyKeywords:  c.WeightUrgency,
			VitalSigns:       c.WeightVitals,
			ClinicalSeverity: c.WeightSeverity,
			AgeFactor:        c.WeightAge,
			SpecialtyUrgency: c.WeightSpecialty,
			TemporalUrgency:  c.WeightTemporal,
		}
	}
	return ec
}

// Validate checks that the configuration is safe to run. In production a real
// signing secret must be configured, and engine overrides must form a valid
// configuration.
func (c *Config) Validate() error {
	if c.IsProduction() && c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required in production")
	}
	if c.AuthSecret != "" && len(c.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters, got %d", len(c.AuthSecret))
	}
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("engine configuration: %w", err)
	}
	return nil
}
