package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	xutil "MarketGate/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		Path          string        `yaml:"path" default:"/metrics"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"metrics"`
	Upstream struct {
		Strategy       string        `yaml:"strategy" default:"http" validate:"oneof=http library"`
		ChartBaseURL   string        `yaml:"chart_base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
		SummaryBaseURL string        `yaml:"summary_base_url" default:"https://query2.finance.yahoo.com" validate:"url"`
		Timeout        time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
		UserAgent      string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; MarketGate/1.0)"`
	} `yaml:"upstream"`
	Universe struct {
		Source string `yaml:"source" default:"embedded" validate:"oneof=embedded file redis"`
		Path   string `yaml:"path" validate:"required_if=Source file"`
		Redis  struct {
			Addr      string `yaml:"addr" default:"localhost:6379"`
			Password  string `yaml:"password"`
			DB        int    `yaml:"db"`
			KeyPrefix string `yaml:"key_prefix" default:"marketgate:universe"`
		} `yaml:"redis"`
	} `yaml:"universe"`
	LogShipping struct {
		Enabled        bool          `yaml:"enabled"`
		Brokers        []string      `yaml:"brokers" validate:"required_if=Enabled true"`
		Topic          string        `yaml:"topic" default:"marketgate.logs"`
		FlushInterval  time.Duration `yaml:"flush_interval" default:"30s"`
		CountThreshold int           `yaml:"count_threshold" default:"100" validate:"gte=1"`
	} `yaml:"log_shipping"`
}

var validate = validator.New()

// Default returns the configuration with every default applied.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file. Missing fields take their
// defaults; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	var c Config
	// Defaults go first so explicit false/zero values in the file survive.
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) || path == "":
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = xutil.ParseIntDefault(v, c.Server.Port)
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("UPSTREAM_STRATEGY"); v != "" {
		c.Upstream.Strategy = v
	}
	if v := getenv("UPSTREAM_TIMEOUT"); v != "" {
		c.Upstream.Timeout = xutil.ParseDurationDefault(v, c.Upstream.Timeout)
	}
	if v := getenv("UNIVERSE_SOURCE"); v != "" {
		c.Universe.Source = v
	}
	if v := getenv("UNIVERSE_PATH"); v != "" {
		c.Universe.Path = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Universe.Redis.Addr = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.LogShipping.Brokers = xutil.SplitList(v)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
