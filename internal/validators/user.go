// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-credential-keeper/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldUsername    = "username"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldOldPassword = "old_password"
	FieldLogin       = "login"
	FieldUserID      = "user_id"
	FieldResetLink   = "reset_password_link"
	FieldCategories  = "categories"
)

// Length limits of user record fields, in runes.
const (
	MaxUsernameLength = 12
	MaxNameLength     = 32
	MinPasswordLength = 6
)

// UserValidator validates account requests before they reach the auth
// service.
type UserValidator struct{}

func NewUserValidator() Validator {
	return &UserValidator{}
}

func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(*value, fields...)

	case models.Credentials:
		return v.validateCredentials(value, fields...)
	case *models.Credentials:
		return v.validateCredentials(*value, fields...)

	case models.ChangePasswordRequest:
		return v.validateChangePasswordRequest(value, fields...)
	case *models.ChangePasswordRequest:
		return v.validateChangePasswordRequest(*value, fields...)

	case models.ForgotPasswordRequest:
		return v.validateForgotPasswordRequest(value, fields...)
	case *models.ForgotPasswordRequest:
		return v.validateForgotPasswordRequest(*value, fields...)

	case models.ResetPasswordRequest:
		return v.validateResetPasswordRequest(value, fields...)
	case *models.ResetPasswordRequest:
		return v.validateResetPasswordRequest(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *UserValidator) validateRegisterRequest(request models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldName, FieldEmail, FieldNewPassword, FieldCategories}
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldUsername:
			err = validateUsername(models.NormalizeIdentifier(request.Username))
		case FieldName:
			err = validateName(strings.TrimSpace(request.Name))
		case FieldEmail:
			err = validateEmail(models.NormalizeIdentifier(request.Email))
		case FieldNewPassword:
			err = validateNewPassword(request.Password)
		case FieldCategories:
			err = validateCategories(request.Categories)
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (v *UserValidator) validateCredentials(credentials models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if models.NormalizeIdentifier(credentials.Login) == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if credentials.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateChangePasswordRequest(request models.ChangePasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldOldPassword, FieldNewPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if request.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldOldPassword:
			if request.OldPassword == "" {
				return ErrEmptyPassword
			}
		case FieldNewPassword:
			if err := validateNewPassword(request.NewPassword); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateForgotPasswordRequest(request models.ForgotPasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := validateEmail(models.NormalizeIdentifier(request.Email)); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateResetPasswordRequest(request models.ResetPasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldResetLink, FieldNewPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldResetLink:
			if request.Link == "" {
				return ErrEmptyResetLink
			}
		case FieldNewPassword:
			if err := validateNewPassword(request.NewPassword); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	// logins containing '@' are looked up as e-mails
	if strings.ContainsRune(username, '@') {
		return ErrInvalidUsername
	}

	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}

	return nil
}

// validateEmail accepts a bare address only; display names such as
// "Alice <alice@example.com>" are rejected.
func validateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	return nil
}

func validateNewPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}

// validateCategories rejects IDs the user_categories primary key would refuse.
func validateCategories(categories []int64) error {
	seen := make(map[int64]struct{}, len(categories))
	for _, id := range categories {
		if id <= 0 {
			return ErrInvalidCategory
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateCategory
		}
		seen[id] = struct{}{}
	}

	return nil
}
