package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Leaderboard cache backends
const (
	CacheTypeNone   = "none"
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// minSessionSecretLength is the shortest cookie signing key accepted in production
const minSessionSecretLength = 32

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool
	Debug        bool

	// Session settings
	SessionSecret string
	SessionMaxAge int // seconds

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string
	DBInitTimeout  time.Duration

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Outbound HTTP (OAuth, userinfo, Search Console)
	OAuthTimeout time.Duration

	// CORS
	CORSAllowedOrigins []string

	// Prometheus
	MetricsEnabled bool
	MetricsToken   string

	// Leaderboard cache
	LeaderboardCacheType string
	LeaderboardCacheTTL  time.Duration

	// Redis (leaderboard cache)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// Error reporting
	SentryDSN string

	// refresh command
	DailyHistoryDays int
	RefreshTimeout   time.Duration
}

// Load reads configuration from the environment. A .env file is applied
// first if present; CONFIG_FILE may point at a YAML/JSON/TOML file whose
// keys use the same names as the environment variables.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	baseURL := strings.TrimRight(v.GetString("BASE_URL"), "/")
	redirectURL := v.GetString("GOOGLE_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = baseURL + "/auth/callback"
	}

	return &Config{
		ServerAddr:   v.GetString("SERVER_ADDR"),
		BaseURL:      baseURL,
		IsProduction: v.GetString("ENVIRONMENT") == "production",
		Debug:        v.GetBool("DEBUG"),

		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionMaxAge: v.GetInt("SESSION_MAX_AGE"),

		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		DBInitTimeout:  v.GetDuration("DB_INIT_TIMEOUT"),

		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  redirectURL,

		OAuthTimeout: v.GetDuration("OAUTH_TIMEOUT"),

		CORSAllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS"), ","),

		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		MetricsToken:   v.GetString("METRICS_TOKEN"),

		LeaderboardCacheType: strings.ToLower(v.GetString("LEADERBOARD_CACHE_TYPE")),
		LeaderboardCacheTTL:  v.GetDuration("LEADERBOARD_CACHE_TTL"),

		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		RedisConnTimeout: v.GetDuration("REDIS_CONN_TIMEOUT"),

		SentryDSN: v.GetString("SENTRY_DSN"),

		DailyHistoryDays: v.GetInt("DAILY_HISTORY_DAYS"),
		RefreshTimeout:   v.GetDuration("REFRESH_TIMEOUT"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DEBUG", false)
	v.SetDefault("SESSION_SECRET", "session-secret-change-in-production")
	v.SetDefault("SESSION_MAX_AGE", 7*24*60*60)
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "gsc-arena.db")
	v.SetDefault("DB_INIT_TIMEOUT", 30*time.Second)
	v.SetDefault("OAUTH_TIMEOUT", 15*time.Second)
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("LEADERBOARD_CACHE_TYPE", CacheTypeMemory)
	v.SetDefault("LEADERBOARD_CACHE_TTL", time.Minute)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CONN_TIMEOUT", 5*time.Second)
	v.SetDefault("DAILY_HISTORY_DAYS", 90)
	v.SetDefault("REFRESH_TIMEOUT", 30*time.Minute)
}

// Validate checks settings the server cannot run without
func (c *Config) Validate() error {
	var errs []error

	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required"))
	}

	if c.IsProduction && len(c.SessionSecret) < minSessionSecretLength {
		errs = append(errs, fmt.Errorf(
			"SESSION_SECRET must be at least %d characters in production",
			minSessionSecretLength,
		))
	}

	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("invalid DATABASE_DRIVER value: %q (must be \"sqlite\" or \"postgres\")", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}

	switch c.LeaderboardCacheType {
	case CacheTypeNone, CacheTypeMemory:
	case CacheTypeRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when LEADERBOARD_CACHE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"invalid LEADERBOARD_CACHE_TYPE value: %q (must be \"none\", \"memory\" or \"redis\")",
			c.LeaderboardCacheType,
		))
	}

	if c.LeaderboardCacheType != CacheTypeNone && c.LeaderboardCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("LEADERBOARD_CACHE_TTL must be positive, got %s", c.LeaderboardCacheTTL))
	}

	if c.DailyHistoryDays <= 0 {
		errs = append(errs, fmt.Errorf("DAILY_HISTORY_DAYS must be positive, got %d", c.DailyHistoryDays))
	}

	return errors.Join(errs...)
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
