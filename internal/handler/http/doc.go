// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the credential keeper.
//
// It exposes route wiring, request handlers and the middleware chain used by
// the API. Authentication, request tracing, access logging and request
// timeouts are handled in this package before requests are delegated to the
// service layer.
package http
