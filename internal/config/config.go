package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported access-control schemes
const (
	SchemeAccounts = "accounts"
	SchemeAdmin    = "admin"
)

// DefaultSecret is used when no session secret is supplied.
const DefaultSecret = "supersecretkey"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Path            string `yaml:"path" env:"DB_PATH"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Session struct {
		Secret     string `yaml:"secret" env:"SECRET_KEY"`
		Expiration string `yaml:"expiration" env:"SESSION_EXPIRATION"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		Secure     bool   `yaml:"secure" env:"SESSION_SECURE"`
	} `yaml:"session"`

	Auth struct {
		Scheme            string `yaml:"scheme" env:"AUTH_SCHEME"`
		AdminLoginPath    string `yaml:"admin_login_path" env:"ADMIN_LOGIN_PATH"`
		AdminUsername     string `yaml:"admin_username" env:"ADMIN_USERNAME"`
		AdminPassword     string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
		AdminPasswordHash string `yaml:"admin_password_hash" env:"ADMIN_PASSWORD_HASH"`
		PasswordMinLength int    `yaml:"password_min_length" env:"PASSWORD_MIN_LENGTH"`
	} `yaml:"auth"`

	Upload struct {
		MaxSizeMB int `yaml:"max_size_mb" env:"UPLOAD_MAX_SIZE_MB"`
	} `yaml:"upload"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Seed struct {
		Username string `yaml:"username" env:"SEED_USERNAME"`
		Password string `yaml:"password" env:"SEED_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// SERVER_PORT is accepted as an alias of PORT
	if port, ok := os.LookupEnv("SERVER_PORT"); ok && os.Getenv("PORT") == "" {
		config.Server.Port = port
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "30s"
	config.Server.WriteTimeout = "60s"

	config.Database.Driver = DriverSQLite
	config.Database.Path = "qpaper.db"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "qpaper"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Session.Secret = DefaultSecret
	config.Session.Expiration = "24h"
	config.Session.CookieName = "qpaper_session"

	config.Auth.Scheme = SchemeAccounts
	config.Auth.AdminLoginPath = "/admin_login"
	config.Auth.AdminUsername = "admin"
	config.Auth.PasswordMinLength = 1

	config.Upload.MaxSizeMB = 16

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverSQLite:
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if _, err := time.ParseDuration(config.Session.Expiration); err != nil {
		return fmt.Errorf("invalid session expiration format: %w", err)
	}

	switch config.Auth.Scheme {
	case SchemeAccounts:
	case SchemeAdmin:
		if config.Auth.AdminUsername == "" {
			return fmt.Errorf("admin username is required for the admin scheme")
		}
		if config.Auth.AdminPassword == "" && config.Auth.AdminPasswordHash == "" {
			return fmt.Errorf("admin password or password hash is required for the admin scheme")
		}
		if !strings.HasPrefix(config.Auth.AdminLoginPath, "/") {
			return fmt.Errorf("admin login path must start with '/'")
		}
	default:
		return fmt.Errorf("unsupported auth scheme %q", config.Auth.Scheme)
	}

	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return fmt.Errorf("invalid server port %q: %w", config.Server.Port, err)
	}

	if config.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload max size must be positive")
	}

	return nil
}

// UsesDefaultSecret reports whether the session secret was left at its built-in value
func (c *Config) UsesDefaultSecret() bool {
	return c.Session.Secret == DefaultSecret
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetSQLiteDSN returns the sqlite data source name with the pragmas the app relies on
func (c *Config) GetSQLiteDSN() string {
	return "file:" + c.Database.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
