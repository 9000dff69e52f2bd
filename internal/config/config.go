package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const EnvProduction = "production"

type Config struct {
	Primary     Primary           `koanf:"primary"`
	Server      ServerConfig      `koanf:"server"`
	Payment     PaymentConfig     `koanf:"payment"`
	Facilitator FacilitatorConfig `koanf:"facilitator"`
	Backend     BackendConfig     `koanf:"backend"`
	Replay      ReplayConfig      `koanf:"replay"`
	Retry       RetryConfig       `koanf:"retry"`
	Database    DatabaseConfig    `koanf:"database" validate:"-"`
	Redis       RedisConfig       `koanf:"redis" validate:"-"`
	Events      EventsConfig      `koanf:"events"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Logger      LoggerConfig      `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

func (p Primary) IsProduction() bool {
	return strings.EqualFold(p.Env, EnvProduction)
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

// PaymentConfig describes the single requirement this deployment advertises.
type PaymentConfig struct {
	Price             string `koanf:"price" validate:"required"`
	Network           string `koanf:"network" validate:"required"`
	PayTo             string `koanf:"pay_to" validate:"required"`
	Asset             string `koanf:"asset" validate:"required"`
	AssetName         string `koanf:"asset_name"`
	AssetVersion      string `koanf:"asset_version"`
	MaxTimeoutSeconds int64  `koanf:"max_timeout_seconds" validate:"required,min=1"`
	Description       string `koanf:"description"`
}

// PriceValue parses Price. LoadConfig has already rejected unparseable values.
func (c PaymentConfig) PriceValue() (domain.Price, error) {
	return domain.NewPrice(c.Price)
}

type FacilitatorConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"required"`
	// SimulateSettlement lets local development run without a live facilitator.
	// Refused when primary.env is production.
	SimulateSettlement bool `koanf:"simulate_settlement"`
}

type BackendConfig struct {
	ExecutorURL string `koanf:"executor_url" validate:"required,url"`
}

type ReplayConfig struct {
	Backend       string        `koanf:"backend" validate:"omitempty,oneof=none memory redis postgres"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"required"`
}

// RetryConfig applies to connecting the nonce store at startup.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts" validate:"min=1"`
	BaseDelay   time.Duration `koanf:"base_delay"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type EventsConfig struct {
	KafkaBrokers []string `koanf:"kafka_brokers"`
	Topic        string   `koanf:"topic"`
}

func (c EventsConfig) Enabled() bool {
	return len(c.KafkaBrokers) > 0
}

type TelemetryConfig struct {
	ServiceName  string `koanf:"service_name"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

var defaults = map[string]any{
	"primary.env":                 "development",
	"server.port":                 "8080",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "60s",
	"server.idle_timeout":         "120s",
	"server.request_timeout":      "60s",
	"payment.network":             "base-sepolia",
	"payment.asset_name":          "USDC",
	"payment.asset_version":       "2",
	"payment.max_timeout_seconds": 60,
	"payment.description":         "Remote code execution",
	"facilitator.timeout":         "30s",
	"replay.backend":              "memory",
	"replay.sweep_interval":       "1m",
	"retry.max_attempts":          5,
	"retry.base_delay":            "1s",
	"events.topic":                "x402.settlements",
	"telemetry.service_name":      "x402-gateway",
	"logger.level":                "info",
	"logger.format":               "json",
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider("X402_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "X402_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	// Comma separated lists come through env as a single string.
	if brokers := k.String("events.kafka_brokers"); brokers != "" {
		if err := k.Load(confmap.Provider(map[string]any{
			"events.kafka_brokers": splitList(brokers),
		}, "."), nil); err != nil {
			return nil, err
		}
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks struct tags plus the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Replay.Backend {
	case "postgres":
		if err := validate.Struct(c.Database); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	case "redis":
		if err := validate.Struct(c.Redis); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}

	if _, err := c.Payment.PriceValue(); err != nil {
		return fmt.Errorf("payment.price %q: %w", c.Payment.Price, err)
	}

	if c.Facilitator.SimulateSettlement && c.Primary.IsProduction() {
		return errors.New("facilitator.simulate_settlement cannot be enabled in production")
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
