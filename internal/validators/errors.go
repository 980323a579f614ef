// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyUsername     = errors.New("username is required")
	ErrUsernameTooLong   = errors.New("username is too long")
	ErrInvalidUsername   = errors.New("username must not contain '@'")
	ErrEmptyName         = errors.New("name is required")
	ErrNameTooLong       = errors.New("name is too long")
	ErrEmptyEmail        = errors.New("email is required")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmptyPassword     = errors.New("password is required")
	ErrPasswordTooShort  = errors.New("password is too short")
	ErrEmptyLogin        = errors.New("login is required")
	ErrInvalidUserID     = errors.New("invalid user ID")
	ErrEmptyResetLink    = errors.New("reset password link is required")
	ErrInvalidCategory   = errors.New("category ID must be positive")
	ErrDuplicateCategory = errors.New("category ID is listed more than once")
)
