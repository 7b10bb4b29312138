package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	HTTP      HTTPConfig
	Log       LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string // development, test, production
	Host string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // sqlite, postgres
	Path            string // sqlite file path
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the optional shared rate-limit counter store settings.
// An empty Addr keeps rate limiting process-local.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds session token settings
type SessionConfig struct {
	Secret           string
	Lifetime         time.Duration
	RememberLifetime time.Duration
	CookieSecure     bool
}

// RateLimitConfig holds fixed-window rate limit settings
type RateLimitConfig struct {
	Enabled         bool
	GlobalPerDay    int
	GlobalPerHour   int
	LoginPerMinute  int
	RegisterPerHour int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables with RECIPEBOX_ prefix (e.g. RECIPEBOX_SESSION_SECRET)
// 2. config.toml in the working directory
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults plus env vars apply.
	}

	v.SetEnvPrefix("RECIPEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Host: v.GetString("app.host"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Path:            v.GetString("database.path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Secret:           v.GetString("session.secret"),
			Lifetime:         v.GetDuration("session.lifetime"),
			RememberLifetime: v.GetDuration("session.remember_lifetime"),
			CookieSecure:     v.GetBool("session.cookie_secure"),
		},
		RateLimit: RateLimitConfig{
			Enabled:         v.GetBool("rate_limit.enabled"),
			GlobalPerDay:    v.GetInt("rate_limit.global_per_day"),
			GlobalPerHour:   v.GetInt("rate_limit.global_per_hour"),
			LoginPerMinute:  v.GetInt("rate_limit.login_per_minute"),
			RegisterPerHour: v.GetInt("rate_limit.register_per_hour"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "recipebox")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "recipebox.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("session.secret", "dev-secret-key-change-in-production")
	v.SetDefault("session.lifetime", 24*time.Hour)
	v.SetDefault("session.remember_lifetime", 30*24*time.Hour)
	v.SetDefault("session.cookie_secure", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.global_per_day", 200)
	v.SetDefault("rate_limit.global_per_hour", 50)
	v.SetDefault("rate_limit.login_per_minute", 5)
	v.SetDefault("rate_limit.register_per_hour", 3)

	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.cors_allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks that required settings are present and consistent.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret must not be empty")
	}
	if c.App.Env == "production" && c.Session.Secret == "dev-secret-key-change-in-production" {
		return fmt.Errorf("session secret must be overridden in production")
	}
	if c.Database.Driver == "postgres" {
		if c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("postgres driver requires database.user and database.dbname")
		}
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
