// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

const (
	// RoleSubscriber is the role assigned to every newly created account.
	RoleSubscriber = "subscriber"

	// RoleAdmin grants administrative rights.
	RoleAdmin = "admin"
)

// User represents a persisted account record.
//
// Credential fields (Salt, HashedPassword) are written only by the credential
// manager and are never serialized to JSON, so the external-facing
// representation of a user never contains them. There is intentionally no
// plaintext password field: a password can be set only through
// credential.Manager.SetPassword.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Username is the unique, lowercased login name.
	Username string `json:"username"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique, lowercased e-mail address.
	Email string `json:"email"`

	// Salt is the per-user random key of the password hash.
	Salt string `json:"-"`

	// HashedPassword is the keyed hash of the password. Empty means no
	// password has been set.
	HashedPassword string `json:"-"`

	// Role is the authorization role, RoleSubscriber by default.
	Role string `json:"role"`

	// ResetPasswordLink holds the currently valid password reset token.
	// Empty when no reset is pending.
	ResetPasswordLink string `json:"-"`

	// Categories lists the category IDs the user is subscribed to.
	Categories []int64 `json:"categories"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser returns a normalized user record with default role and an empty
// reset link.
func NewUser(username, email, name string) User {
	u := User{
		Username:   username,
		Email:      email,
		Name:       name,
		Role:       RoleSubscriber,
		Categories: []int64{},
	}
	u.Normalize()

	return u
}

// Normalize trims and lowercases the unique identifiers and trims the display
// name.
func (u *User) Normalize() {
	u.Username = NormalizeIdentifier(u.Username)
	u.Email = NormalizeIdentifier(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.Role == "" {
		u.Role = RoleSubscriber
	}
}

// HasPassword reports whether both credential fields are set.
func (u User) HasPassword() bool {
	return u.Salt != "" && u.HashedPassword != ""
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// NormalizeIdentifier trims surrounding whitespace and lowercases s.
// Usernames and e-mails are compared in this form.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
