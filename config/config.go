// Package config loads container settings from bobbin.yaml and BOBBIN_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/danpasecinic/bobbin"
	"github.com/danpasecinic/bobbin/metrics"
)

const (
	envPrefix  = "BOBBIN"
	configName = "bobbin"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Container ContainerConfig `mapstructure:"container"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ContainerConfig struct {
	ValidateOnStart bool `mapstructure:"validate_on_start"`
	Metrics         bool `mapstructure:"metrics"`
}

// Load reads path, or bobbin.yaml from the working directory when path is
// empty. A missing default file is not an error. Environment variables
// override file values: BOBBIN_LOG_LEVEL sets log.level.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("container.validate_on_start", true)
	v.SetDefault("container.metrics", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Logger builds the zap logger described by the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

// Options returns container options for this configuration. The metrics
// collector is registered with reg when container.metrics is set.
func (c *Config) Options(reg prometheus.Registerer) ([]bobbin.Option, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}
	opts := []bobbin.Option{bobbin.WithLogger(logger)}

	if c.Container.Metrics && reg != nil {
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return nil, fmt.Errorf("container.metrics: %w", err)
		}
		opts = append(opts, collector.Options()...)
	}
	return opts, nil
}
