// Package config loads the interpreter configuration from a YAML file,
// an optional .env file and PIPELANG_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/filters"
	"github.com/badtuple/pipelang/internal/logger"
	"github.com/badtuple/pipelang/internal/metrics"
)

const EnvPrefix = "PIPELANG"

// Kinds of filters that can be declared on the configuration file
const (
	KindGreaterThan = "greater_than"
	KindBatch       = "batch"
	KindMatch       = "match"
)

type Config struct {
	Log     logger.Config `yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`

	// Filters are registered in order, so a later definition
	// replaces an earlier one with the same name
	Filters []FilterDef `yaml:"filters" mapstructure:"filters" validate:"dive"`

	// Queries are compiled after all the filters are registered
	Queries []string `yaml:"queries" mapstructure:"queries" validate:"dive,required"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
}

// FilterDef describes a filter prototype, only the fields
// relevant to its Kind are used.
type FilterDef struct {
	Name       string `yaml:"name" mapstructure:"name" validate:"required"`
	Kind       string `yaml:"kind" mapstructure:"kind" validate:"required,oneof=greater_than batch match"`
	Threshold  int64  `yaml:"threshold" mapstructure:"threshold"`
	Size       int    `yaml:"size" mapstructure:"size" validate:"required_if=Kind batch"`
	Expression string `yaml:"expression" mapstructure:"expression" validate:"required_if=Kind match"`
}

// Build creates the prototype described by d
func (d FilterDef) Build() (pipelang.Filter, error) {
	switch d.Kind {
	case KindGreaterThan:
		return filters.NewGreaterThan(d.Threshold), nil
	case KindBatch:
		return filters.NewBatch(d.Size)
	case KindMatch:
		return filters.NewMatch(d.Expression)
	}

	return nil, pipelang.InvalidFilterErr("unknown filter kind", map[string]any{
		"name": d.Name,
		"kind": d.Kind,
	})
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	c.Log.ApplyDefaults()
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = metrics.DefaultNamespace
	}
}

// Validate checks the configuration using its struct tags
func (c Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err != nil {
		return pipelang.InvalidConfigErr("invalid configuration", err)
	}

	return nil
}

// LoaderConfig holds the optional file paths used by Load
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets the YAML config file to read.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets a .env file to load before reading the environment.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load builds the configuration in the following order:
//
// 1. The defaults
// 2. The YAML config file, if any
// 3. The .env file, if any, without overriding variables already set
// 4. PIPELANG_* environment variables, e.g. PIPELANG_LOG_LEVEL
//
// The result is validated before being returned.
func Load(opts ...LoaderOption) (Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()
	setDefaults(v)

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, pipelang.InvalidConfigErr("failed to read config file", err)
		}
	}

	if lc.EnvFile != "" {
		if _, err := os.Stat(lc.EnvFile); err != nil {
			return Config{}, pipelang.InvalidConfigErr("failed to find .env file", err)
		}
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return Config{}, pipelang.InvalidConfigErr("failed to load .env file", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, pipelang.InvalidConfigErr(
			fmt.Sprintf("failed to unmarshal config file %q", lc.ConfigFile), err,
		)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaults registers every scalar key so viper
// also looks for it on the environment
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatConsole)
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.no_color", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", metrics.DefaultNamespace)
}
