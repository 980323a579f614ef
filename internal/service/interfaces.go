// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-credential-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=AuthServiceWrapper

// AuthService covers the account lifecycle: registration, login, password
// change and reset, and access tokens.
type AuthService interface {
	RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)
	ChangePassword(ctx context.Context, request models.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, request models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error
	GetUser(ctx context.Context, userID int64) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AuthServiceWrapper defines middleware composition for AuthService.
// Implementations wrap an existing AuthService to add behavior such as
// logging or validating.
type AuthServiceWrapper interface {
	Wrap(AuthService) AuthService // returns a decorated AuthService applying additional behavior
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// ResetLinkNotifier delivers a freshly issued password reset link to the
// owner of the account.
type ResetLinkNotifier interface {
	NotifyResetLink(ctx context.Context, user models.User, link string) error
}
