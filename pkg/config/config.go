package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Development database defaults. They let the service boot against a local
// postgres without any configuration and must never be relied on in production.
const (
	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "midb"
	DefaultDBUser     = "andres"
	DefaultDBPassword = "mi_password_segura"
)

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	// DatabaseURL overrides the individual DB_* settings when set.
	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"omitempty,url|uri"`

	DBHost            string        `mapstructure:"DB_HOST" validate:"required"`
	DBPort            int           `mapstructure:"DB_PORT" validate:"gte=1,lte=65535"`
	DBName            string        `mapstructure:"DB_NAME" validate:"required"`
	DBUser            string        `mapstructure:"DB_USER" validate:"required"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBSSLMode         string        `mapstructure:"DB_SSLMODE" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBConnectTimeout  time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`
	DBConnectRetries  int           `mapstructure:"DB_CONNECT_RETRIES" validate:"gte=0,lte=20"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	PasswordHasher           string `mapstructure:"PASSWORD_HASHER" validate:"required,oneof=pbkdf2 bcrypt"`
	PasswordPBKDF2Iterations int    `mapstructure:"PASSWORD_PBKDF2_ITERATIONS" validate:"gte=1"`
	PasswordBcryptCost       int    `mapstructure:"PASSWORD_BCRYPT_COST" validate:"gte=4,lte=31"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST" validate:"gte=0"`
	CORSOrigins    string  `mapstructure:"CORS_ORIGINS"`

	TrustProxyHeaders bool `mapstructure:"TRUST_PROXY_HEADERS"`

	GoMaxProcs int `mapstructure:"GOMAXPROCS" validate:"gte=0,lte=4096"`
}

// UsesDefaultDBPassword reports whether the development password is in effect.
func (c *Config) UsesDefaultDBPassword() bool {
	return c.DatabaseURL == "" && c.DBPassword == DefaultDBPassword
}

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	keys = []string{
		"APP_ENV",
		"HTTP_ADDR",
		"SHUTDOWN_TIMEOUT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DATABASE_URL",
		"DB_HOST",
		"DB_PORT",
		"DB_NAME",
		"DB_USER",
		"DB_PASSWORD",
		"DB_SSLMODE",
		"DB_CONNECT_TIMEOUT",
		"DB_CONNECT_RETRIES",
		"DB_MAX_OPEN_CONNS",
		"DB_MAX_IDLE_CONNS",
		"DB_CONN_MAX_LIFETIME",
		"DB_AUTO_MIGRATE",
		"PASSWORD_HASHER",
		"PASSWORD_PBKDF2_ITERATIONS",
		"PASSWORD_BCRYPT_COST",
		"RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST",
		"CORS_ORIGINS",
		"TRUST_PROXY_HEADERS",
		"GOMAXPROCS",
	}
	durationKeys = []string{"SHUTDOWN_TIMEOUT", "DB_CONNECT_TIMEOUT", "DB_CONN_MAX_LIFETIME"}
)

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "0.0.0.0:5000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_HOST", DefaultDBHost)
	v.SetDefault("DB_PORT", DefaultDBPort)
	v.SetDefault("DB_NAME", DefaultDBName)
	v.SetDefault("DB_USER", DefaultDBUser)
	v.SetDefault("DB_PASSWORD", DefaultDBPassword)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_CONNECT_RETRIES", 0)
	v.SetDefault("DB_MAX_OPEN_CONNS", 0)
	v.SetDefault("DB_MAX_IDLE_CONNS", 0)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("PASSWORD_HASHER", "pbkdf2")
	v.SetDefault("PASSWORD_PBKDF2_ITERATIONS", 600000)
	v.SetDefault("PASSWORD_BCRYPT_COST", 10)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.SetDefault("GOMAXPROCS", 0)

	// Optional config file
	_ = v.ReadInConfig()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Parse duration types that may come as string
	for _, key := range durationKeys {
		s := v.GetString(key)
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		switch key {
		case "SHUTDOWN_TIMEOUT":
			c.ShutdownTimeout = d
		case "DB_CONNECT_TIMEOUT":
			c.DBConnectTimeout = d
		case "DB_CONN_MAX_LIFETIME":
			c.DBConnMaxLifetime = d
		}
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.GoMaxProcs > 0 {
		runtime.GOMAXPROCS(c.GoMaxProcs)
	}

	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}
