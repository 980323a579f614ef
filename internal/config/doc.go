// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads and validates the settings of the credential keeper
// server and its command-line client.
//
// Server settings are merged from environment variables, then command-line
// flags, then an optional JSON file; each later source overrides non-zero
// fields of the earlier ones, and defaults fill what is left. The client reads
// environment variables overridden by its global flags.
//
// Entry points: [GetStructuredConfig] and [GetClientConfig].
package config
