// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-credential-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/user_repository_mock.go -package=mock

// UserRepository persists user records.
//
// Implementations never compute credentials; they store the salt and hash
// pair produced by the credential manager exactly as given, and always write
// the two together.
type UserRepository interface {
	// CreateUser inserts user together with its category references and
	// returns the stored record with UserID and timestamps populated.
	// Returns ErrUsernameAlreadyExists or ErrEmailAlreadyExists on a
	// uniqueness conflict.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByID returns the user with the given ID or ErrNoUserWasFound.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// FindUserByUsername returns the user with the given normalized username
	// or ErrNoUserWasFound.
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// FindUserByEmail returns the user with the given normalized e-mail or
	// ErrNoUserWasFound.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// UpdatePassword writes Salt, HashedPassword and ResetPasswordLink of
	// user in a single statement. Returns ErrNoUserWasFound if the user does
	// not exist.
	UpdatePassword(ctx context.Context, user models.User) error

	// UpdateResetPasswordLink stores link as the pending reset link of the
	// user. Returns ErrNoUserWasFound if the user does not exist.
	UpdateResetPasswordLink(ctx context.Context, userID int64, link string) error
}
