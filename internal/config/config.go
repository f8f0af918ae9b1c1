// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

// Package config loads the shared service configuration: defaults, then a
// YAML file, then command-line flag overrides.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/wazo-platform/authkit/internal/authclient"
)

// Config is the effective service configuration.
type Config struct {
	// Service is the name reported in logs and metrics.
	Service string `koanf:"service" json:"service" yaml:"service"`

	// LogFormat selects the log handler: "json" or "text".
	LogFormat string `koanf:"log_format" json:"log_format,omitempty" yaml:"log_format" jsonschema:"enum=json,enum=text"`

	// TokenExpiration is the service-token lifetime, in seconds, used by
	// the renewal helper.
	TokenExpiration int `koanf:"token_expiration" json:"token_expiration,omitempty" yaml:"token_expiration" jsonschema:"minimum=60"`

	Auth    AuthConfig    `koanf:"auth" json:"auth" yaml:"auth"`
	Metrics MetricsConfig `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// AuthConfig describes the authentication service endpoint.
type AuthConfig struct {
	Host              string `koanf:"host" json:"host" yaml:"host"`
	Port              int    `koanf:"port" json:"port" yaml:"port" jsonschema:"minimum=1,maximum=65535"`
	HTTPS             bool   `koanf:"https" json:"https" yaml:"https"`
	Prefix            string `koanf:"prefix" json:"prefix,omitempty" yaml:"prefix"`
	VerifyCertificate bool   `koanf:"verify_certificate" json:"verify_certificate" yaml:"verify_certificate"`

	// Timeout is the per-request timeout, in seconds.
	Timeout int `koanf:"timeout" json:"timeout,omitempty" yaml:"timeout" jsonschema:"minimum=1"`

	// MaxRetries bounds transport-level retries on idempotent calls.
	MaxRetries int `koanf:"max_retries" json:"max_retries,omitempty" yaml:"max_retries" jsonschema:"minimum=0"`
}

// MetricsConfig describes the observability endpoint.
type MetricsConfig struct {
	Enabled    bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	ListenAddr string `koanf:"listen_addr" json:"listen_addr,omitempty" yaml:"listen_addr"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Service:         "authkit",
		LogFormat:       "json",
		TokenExpiration: 21600,
		Auth: AuthConfig{
			Host:              "localhost",
			Port:              9497,
			HTTPS:             true,
			VerifyCertificate: true,
			Timeout:           10,
			MaxRetries:        2,
		},
		Metrics: MetricsConfig{
			ListenAddr: "127.0.0.1:9100",
		},
	}
}

// Load builds the effective configuration: Default(), overlaid with the
// YAML file at path (schema-validated first) when non-empty, overlaid
// with any set flags.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // Path comes from the operator's --config flag.
		if err != nil {
			return Config{}, oops.In("config").
				Code("CONFIG_READ_FAILED").
				With("path", path).
				Wrap(err)
		}
		if err := ValidateSchema(raw); err != nil {
			return Config{}, oops.In("config").
				Code("CONFIG_INVALID").
				With("path", path).
				Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.In("config").
				Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.In("config").
				Code("CONFIG_FLAGS_FAILED").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.In("config").
			Code("CONFIG_UNMARSHAL_FAILED").
			Wrap(err)
	}

	return cfg, nil
}

// AuthClientConfig converts the auth section into the client's config.
func (c Config) AuthClientConfig() authclient.Config {
	return authclient.Config{
		Host:              c.Auth.Host,
		Port:              c.Auth.Port,
		HTTPS:             c.Auth.HTTPS,
		Prefix:            c.Auth.Prefix,
		VerifyCertificate: c.Auth.VerifyCertificate,
		Timeout:           time.Duration(c.Auth.Timeout) * time.Second,
		MaxRetries:        uint64(c.Auth.MaxRetries),
	}
}

// TokenExpirationDuration returns the service-token lifetime.
func (c Config) TokenExpirationDuration() time.Duration {
	return time.Duration(c.TokenExpiration) * time.Second
}
