// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the credential keeper REST API.
//
// [ServerAdapter] decouples callers from the transport. Error values defined
// in errors.go are mapped from HTTP status codes by mapHTTPError so that
// callers can use [errors.Is] for transport-agnostic error handling (e.g.
// [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-credential-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the credential keeper server.
// Implementations are responsible for serialisation, authentication header
// management and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates an account. On success the returned bearer token is
	// stored via SetToken.
	Register(ctx context.Context, request models.RegisterRequest) (models.User, error)

	// Login authenticates with a username or e-mail. On success the returned
	// bearer token is stored via SetToken.
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)

	// Me returns the account the stored token belongs to.
	Me(ctx context.Context) (models.User, error)

	// ChangePassword replaces the password of the authenticated account.
	ChangePassword(ctx context.Context, request models.ChangePasswordRequest) error

	// ForgotPassword asks the server to issue a reset link. It succeeds
	// whether or not the e-mail is registered.
	ForgotPassword(ctx context.Context, request models.ForgotPasswordRequest) error

	// ResetPassword sets a new password using a reset link.
	ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error

	// ServerVersion returns the build version reported by the server.
	ServerVersion(ctx context.Context) (string, error)
}
