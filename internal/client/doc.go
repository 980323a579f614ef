// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client runtime.
//
// Each subcommand parses its own flags, calls the server through an
// adapter.ServerAdapter and prints the result as JSON to the output writer.
// Secrets may come from flags or from the environment so that they do not
// end up in shell history.
package client
