package config

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/repository"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Log      LogConfig      `mapstructure:"log"`
}

type HTTPConfig struct {
	Port               int           `mapstructure:"port"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	MaxRequestBodySize int64         `mapstructure:"max_request_body_size"`
}

type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Name           string `mapstructure:"name"`
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type KafkaConfig struct {
	Brokers        []string      `mapstructure:"brokers"`
	Topic          string        `mapstructure:"topic"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// env names predate the yaml layout and are kept as they are.
var envBindings = map[string]string{
	"http.port":                  "HTTP_PORT",
	"http.request_timeout":       "REQUEST_TIMEOUT",
	"http.shutdown_timeout":      "SHUTDOWN_TIMEOUT",
	"http.max_request_body_size": "MAX_REQUEST_BODY_SIZE",
	"database.driver":            "DB_DRIVER",
	"database.host":              "DB_HOST",
	"database.port":              "DB_PORT",
	"database.user":              "DB_USER",
	"database.password":          "DB_PASSWORD",
	"database.name":              "DB_NAME",
	"database.path":              "DB_PATH",
	"database.migrations_path":   "MIGRATIONS_PATH",
	"kafka.brokers":              "KAFKA_BROKERS",
	"kafka.topic":                "KAFKA_TOPIC",
	"kafka.publish_timeout":      "PUBLISH_TIMEOUT",
	"log.level":                  "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.max_request_body_size", 1<<20) // 1MB

	v.SetDefault("database.driver", repository.DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "bookstore")
	v.SetDefault("database.path", "bookstore.db")
	v.SetDefault("database.migrations_path", "")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "order-placed")
	v.SetDefault("kafka.publish_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
}

// Load reads config.yaml from the given directories (./config and the working
// directory when none are given), then applies environment variables over it.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	if len(dirs) == 0 {
		dirs = []string{"./config", "."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case repository.DriverPostgres:
		if c.Database.Port <= 0 {
			return fmt.Errorf("invalid database port %d", c.Database.Port)
		}
	case repository.DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite")
		}
	case repository.DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	if c.HTTP.RequestTimeout <= 0 || c.HTTP.ShutdownTimeout <= 0 || c.Kafka.PublishTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.HTTP.MaxRequestBodySize <= 0 {
		return fmt.Errorf("invalid max request body size %d", c.HTTP.MaxRequestBodySize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// Credentials builds the repository credentials. Without an explicit
// migrations path the per-driver directory in the source tree is used.
func (c *Config) Credentials() *repository.Credentials {
	migrations := c.Database.MigrationsPath
	if migrations == "" {
		migrations = path.Join("internal/repository/migrations", c.Database.Driver)
	}
	return &repository.Credentials{
		Driver:            c.Database.Driver,
		Host:              c.Database.Host,
		Port:              c.Database.Port,
		User:              c.Database.User,
		Password:          c.Database.Password,
		DBName:            c.Database.Name,
		Path:              c.Database.Path,
		MigrationsDirPath: migrations,
	}
}

// KafkaEnabled reports whether order events go to a broker.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
