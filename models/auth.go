// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// RegisterRequest carries the data needed to create an account.
// Password is plaintext and lives only for the duration of the request.
type RegisterRequest struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Password   string  `json:"password"`
	Categories []int64 `json:"categories,omitempty"`
}

// Credentials is a login attempt. Login is either a username or an e-mail.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// IsEmail reports whether Login should be looked up as an e-mail address.
func (c Credentials) IsEmail() bool {
	return strings.ContainsRune(c.Login, '@')
}

// ChangePasswordRequest replaces the password of an authenticated user.
// UserID is taken from the access token, never from the request body.
type ChangePasswordRequest struct {
	UserID      int64  `json:"-"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Link        string `json:"reset_password_link"`
	NewPassword string `json:"new_password"`
}
