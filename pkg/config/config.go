package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"

	minSecretLength = 32
)

type Config struct {
	Port        string
	Environment string

	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig

	// CORSAllowedOrigins lists origins allowed to call the API; "*" allows any.
	CORSAllowedOrigins  []string
	BudgetAlertInterval time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	SlowThreshold   time.Duration
}

// AuthConfig is the only slice of configuration the auth core sees.
type AuthConfig struct {
	JWTSecret       string
	JWTExpiry       time.Duration
	BcryptCost      int
	HashConcurrency int
	RateLimit       int // requests per minute per client IP on register/login
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (if present), an optional YAML file named by CONFIG_FILE,
// and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", EnvDevelopment)

	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=caspometer port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_QUERY_TIMEOUT", 5*time.Second)
	v.SetDefault("DB_SLOW_THRESHOLD", 200*time.Millisecond)

	v.SetDefault("JWT_EXPIRY", 30*24*time.Hour)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("HASH_CONCURRENCY", runtime.GOMAXPROCS(0))
	v.SetDefault("AUTH_RATE_LIMIT", 20)

	v.SetDefault("BUDGET_ALERT_INTERVAL", time.Hour)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func fromViper(v *viper.Viper) *Config {
	env := strings.ToLower(v.GetString("APP_ENV"))

	return &Config{
		Port:        v.GetString("PORT"),
		Environment: env,
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			QueryTimeout:    v.GetDuration("DB_QUERY_TIMEOUT"),
			SlowThreshold:   v.GetDuration("DB_SLOW_THRESHOLD"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			JWTExpiry:       v.GetDuration("JWT_EXPIRY"),
			BcryptCost:      v.GetInt("BCRYPT_COST"),
			HashConcurrency: v.GetInt("HASH_CONCURRENCY"),
			RateLimit:       v.GetInt("AUTH_RATE_LIMIT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		CORSAllowedOrigins:  corsOrigins(env, v.GetString("CORS_ALLOWED_ORIGINS")),
		BudgetAlertInterval: v.GetDuration("BUDGET_ALERT_INTERVAL"),
	}
}

// corsOrigins falls back to "*" only in development.
func corsOrigins(env, raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 && env == EnvDevelopment {
		return []string{"*"}
	}
	return origins
}

func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.Auth.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31 (got: %d)", c.Auth.BcryptCost)
	}
	if c.Auth.HashConcurrency < 1 {
		return fmt.Errorf("HASH_CONCURRENCY must be >= 1 (got: %d)", c.Auth.HashConcurrency)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) must be <= DB_MAX_OPEN_CONNS (%d)", c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
