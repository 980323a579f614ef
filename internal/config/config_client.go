// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base address of the server, with or without scheme.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the default timeout for outbound client requests.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// ClientConfig is the top-level configuration of the command-line client.
type ClientConfig struct {
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter `envPrefix:"ADAPTER_"`

	// LogLevel is the minimal log level of the client.
	// Env: LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// GetClientConfig builds the client configuration from environment variables
// overridden by the global client flags in args. It returns the arguments
// left after the flags, which start with the subcommand name.
//
// Flags:
//
//	-server server address (e.g. "localhost:8080" or "https://auth.example.com")
//	-timeout request timeout (e.g. "10s")
//	-log-level log level
func GetClientConfig(args []string) (*ClientConfig, []string, error) {
	cfg := &ClientConfig{
		Adapter:  ClientAdapter{HTTPAddress: "localhost:8080", RequestTimeout: 10 * time.Second},
		LogLevel: "warn",
	}
	if err := parseEnv(cfg); err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Adapter.HTTPAddress, "server", cfg.Adapter.HTTPAddress, "Server address")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "timeout", cfg.Adapter.RequestTimeout, "Request timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return cfg, fs.Args(), cfg.validate()
}
