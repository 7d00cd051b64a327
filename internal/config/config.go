package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Database drivers selectable via database.driver.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Policies for deleting a user that still has tasks. Detach nulls the
// tasks' user_id, restrict refuses the delete while dependents exist.
const (
	DeletePolicyDetach   = "detach"
	DeletePolicyRestrict = "restrict"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

type AppConfig struct {
	Name             string `toml:"name"`
	Env              string `toml:"env"`
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	GinMode          string `toml:"gin_mode"`
	UserDeletePolicy string `toml:"user_delete_policy"`
}

type DatabaseConfig struct {
	Driver             string `toml:"driver"`
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	User               string `toml:"user"`
	Password           string `toml:"password"`
	Name               string `toml:"name"`
	Params             string `toml:"params"`
	SSLMode            string `toml:"sslmode"`
	MaxOpenConns       int    `toml:"max_open_conns"`
	MaxIdleConns       int    `toml:"max_idle_conns"`
	ConnMaxLifetimeMin int    `toml:"conn_max_lifetime_min"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load builds the configuration from defaults, an optional TOML file named
// by CONFIG_FILE, and environment variable overrides, in that order. A .env
// file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Params,
	)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.App.UserDeletePolicy {
	case DeletePolicyDetach, DeletePolicyRestrict:
	default:
		return fmt.Errorf("unknown user delete policy %q", c.App.UserDeletePolicy)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:             "user-task-api",
			Env:              "dev",
			Host:             "0.0.0.0",
			Port:             8080,
			GinMode:          "debug",
			UserDeletePolicy: DeletePolicyDetach,
		},
		Database: DatabaseConfig{
			Driver:             DriverPostgres,
			Host:               "127.0.0.1",
			Port:               5432,
			User:               "taskuser",
			Password:           "taskpassword",
			Name:               "user_task_api",
			Params:             "parseTime=true&loc=Local&charset=utf8mb4",
			SSLMode:            "disable",
			MaxOpenConns:       50,
			MaxIdleConns:       10,
			ConnMaxLifetimeMin: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.UserDeletePolicy = getEnv("USER_DELETE_POLICY", cfg.App.UserDeletePolicy)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvAsInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.Params = getEnv("DB_PARAMS", cfg.Database.Params)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetimeMin = getEnvAsInt("DB_CONN_MAX_LIFETIME_MIN", cfg.Database.ConnMaxLifetimeMin)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
