// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service's runtime configuration from
// (lowest to highest precedence) compiled-in defaults, an optional
// config.yaml, an optional .env file, TIMERFLOW_*-prefixed environment
// variables, and finally CLI flags bound by the caller.
//
// Grounded on original_source/backend/timeventx/configuration.py's
// Configuration/ConfigurationDescription: each knob there (environment
// variable name, on-disk key, default, whether it is required) maps
// onto a Config field here, with spf13/viper replacing the hand-rolled
// ConfigParser + os.environ lookup chain.
package config

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TIMERFLOW"

// Config is the service's fully-resolved runtime configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	StoreBackend string `mapstructure:"store_backend"`
	StoreDir     string `mapstructure:"store_dir"`

	ActionModule string `mapstructure:"action_module"`

	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	BasicAuthUsername string `mapstructure:"basic_auth_username"`
	BasicAuthPassword string `mapstructure:"basic_auth_password"`

	MinPollPeriod time.Duration `mapstructure:"min_poll_period"`
}

// Defaults returns the compiled-in baseline configuration, the lowest
// precedence layer in the merge chain.
func Defaults() Config {
	return Config{
		LogLevel:      "info",
		LogFormat:     "text",
		LogFile:       "",
		StoreBackend:  "memory",
		StoreDir:      "./data/timers",
		ActionModule:  "noop",
		Host:          "0.0.0.0",
		Port:          8080,
		MinPollPeriod: time.Second,
	}
}

// Option mutates the viper instance used for loading, e.g. to bind CLI
// flags before Load reads the final merged values.
type Option func(*viper.Viper)

// WithConfigFile points viper at an explicit config file path instead of
// the default search path ("./config.yaml").
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) { v.SetConfigFile(path) }
}

// WithEnvFile loads additional environment variables from a .env file
// at path before viper reads the process environment. Missing files are
// not an error: .env is optional in every deployment shape.
func WithEnvFile(path string) Option {
	return func(*viper.Viper) {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			// Best-effort: a malformed .env should not block startup, but
			// surface it on stderr since logging isn't configured yet.
			fmt.Fprintf(os.Stderr, "config: ignoring unreadable env file %s: %v\n", path, err)
		}
	}
}

// BindFlags lets a CLI layer register viper.BindPFlag calls against the
// same viper instance Load uses, so flags sit at the top of the
// precedence chain.
func BindFlags(bind func(v *viper.Viper)) Option {
	return func(v *viper.Viper) { bind(v) }
}

// Load resolves a Config by merging, from lowest to highest precedence:
// Defaults(), an optional config.yaml, TIMERFLOW_* environment
// variables, and any flags bound via BindFlags.
func Load(opts ...Option) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// Unmarshal only consults the environment for keys viper already
	// knows, so every Config key is bound to its TIMERFLOW_* variable.
	for _, key := range []string{"log_level", "log_format", "log_file", "store_backend", "store_dir",
		"action_module", "host", "port", "basic_auth_username", "basic_auth_password", "min_poll_period"} {
		_ = v.BindEnv(key)
	}

	for _, opt := range opts {
		opt(v)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg := Defaults()
	var fromFile Config
	if err := v.Unmarshal(&fromFile); err != nil {
		return Config{}, fmt.Errorf("config: decoding configuration: %w", err)
	}

	if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("config: merging configuration layers: %w", err)
	}
	// mergo skips zero values, so an explicitly configured zero poll
	// period is copied over here for validate to reject.
	if v.IsSet("min_poll_period") {
		cfg.MinPollPeriod = fromFile.MinPollPeriod
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case "memory", "file":
	default:
		return fmt.Errorf("config: unknown store_backend %q", c.StoreBackend)
	}
	if c.StoreBackend == "file" && c.StoreDir == "" {
		return fmt.Errorf("config: store_dir is required when store_backend is \"file\"")
	}
	if c.MinPollPeriod <= 0 {
		return fmt.Errorf("config: min_poll_period must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	return nil
}
