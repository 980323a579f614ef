// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-credential-keeper/internal/config"
	"github.com/MKhiriev/go-credential-keeper/internal/credential"
	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/internal/store"
	"github.com/MKhiriev/go-credential-keeper/internal/utils"
	"github.com/MKhiriev/go-credential-keeper/models"
)

// JWT audiences. An access token cannot be used as a reset link and vice
// versa.
const (
	AccessTokenAudience = "access"
	ResetTokenAudience  = "password-reset"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, password reset and
// JWT token lifecycle using a UserRepository for persistence and the
// credential manager for password hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// credentials sets and verifies salted password hashes.
	credentials *credential.Manager

	// notifier delivers password reset links.
	notifier ResetLinkNotifier

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued access token remains valid.
	tokenDuration time.Duration

	// resetLinkDuration controls how long a password reset link remains valid.
	resetLinkDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and credential manager and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	userRepository store.UserRepository,
	credentials *credential.Manager,
	notifier ResetLinkNotifier,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository:    userRepository,
		credentials:       credentials,
		notifier:          notifier,
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		tokenDuration:     cfg.TokenDuration,
		resetLinkDuration: cfg.ResetLinkDuration,
		logger:            logger,
	}
}

// RegisterUser creates a new user account.
//
// Username and e-mail are normalized, the password is hashed with a fresh
// salt and the record is persisted.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if the password is empty.
//   - A wrapped storage error if the repository call fails (e.g. username
//     already taken, see store.ErrUsernameAlreadyExists).
//   - A wrapped credential.ErrHashingFailure or credential.ErrSaltGeneration.
func (a *authService) RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	user := models.NewUser(request.Username, request.Email, request.Name)
	if request.Categories != nil {
		user.Categories = request.Categories
	}

	if err := a.credentials.SetPassword(&user, request.Password); err != nil {
		if errors.Is(err, credential.ErrEmptyPassword) {
			return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}

		log.Err(err).Str("username", user.Username).Msg("setting password failed")
		return models.User{}, fmt.Errorf("setting password failed: %w", err)
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("id", registeredUser.UserID).Msg("user registered")

	return registeredUser, nil
}

// Login authenticates an existing user.
//
// The login is looked up as an e-mail when it contains "@" and as a username
// otherwise.
//
// Returns the authenticated user record or:
//   - ErrInvalidDataProvided if login or password is empty.
//   - ErrWrongCredentials if no user matches or the password is wrong.
//   - A wrapped credential.ErrHashingFailure if the password could not be
//     checked at all.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	login := models.NormalizeIdentifier(credentials.Login)
	if login == "" || credentials.Password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	var (
		foundUser models.User
		err       error
	)
	if credentials.IsEmail() {
		foundUser, err = a.userRepository.FindUserByEmail(ctx, login)
	} else {
		foundUser, err = a.userRepository.FindUserByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Debug().Str("login", login).Msg("no user was found")
			return models.User{}, ErrWrongCredentials
		}

		log.Err(err).Str("login", login).Msg("user search by login failed")
		return models.User{}, fmt.Errorf("user search by login failed: %w", err)
	}

	ok, err := a.credentials.Authenticate(foundUser, credentials.Password)
	if err != nil {
		log.Err(err).Int64("id", foundUser.UserID).Msg("password check failed")
		return models.User{}, fmt.Errorf("password check failed: %w", err)
	}
	if !ok {
		log.Debug().Int64("id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrWrongCredentials
	}

	return foundUser, nil
}

// ChangePassword replaces the password of an authenticated user after
// checking the old one. A pending reset link is discarded.
func (a *authService) ChangePassword(ctx context.Context, request models.ChangePasswordRequest) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByID(ctx, request.UserID)
	if err != nil {
		log.Err(err).Int64("id", request.UserID).Msg("user search by id failed")
		return fmt.Errorf("user search by id failed: %w", err)
	}

	ok, err := a.credentials.Authenticate(user, request.OldPassword)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("password check failed")
		return fmt.Errorf("password check failed: %w", err)
	}
	if !ok {
		return ErrWrongCredentials
	}

	return a.storeNewPassword(ctx, user, request.NewPassword)
}

// ForgotPassword issues a reset link for the account registered with the
// given e-mail, stores it and hands it to the notifier.
//
// An unknown e-mail is not an error, so callers cannot probe which
// addresses are registered.
func (a *authService) ForgotPassword(ctx context.Context, request models.ForgotPasswordRequest) error {
	log := logger.FromContext(ctx)

	email := models.NormalizeIdentifier(request.Email)
	if email == "" {
		return ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Info().Msg("password reset requested for unknown email")
			return nil
		}

		log.Err(err).Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	link, err := utils.GenerateJWTToken(utils.TokenParams{
		Issuer:   a.tokenIssuer,
		Audience: ResetTokenAudience,
		UserID:   user.UserID,
		Duration: a.resetLinkDuration,
		SignKey:  a.tokenSignKey,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	if err = a.userRepository.UpdateResetPasswordLink(ctx, user.UserID, link.SignedString); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("storing reset link failed")
		return fmt.Errorf("storing reset link failed: %w", err)
	}

	if err = a.notifier.NotifyResetLink(ctx, user, link.SignedString); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("reset link delivery failed")
		return fmt.Errorf("reset link delivery failed: %w", err)
	}

	return nil
}

// ResetPassword sets a new password using a reset link issued by
// ForgotPassword. The link must be correctly signed, unexpired and equal to
// the one currently stored for the user; it is consumed on success.
func (a *authService) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(request.Link, a.tokenSignKey, a.tokenIssuer, ResetTokenAudience)
	if err != nil {
		log.Debug().Err(err).Msg("reset link rejected")
		return ErrInvalidResetLink
	}

	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidResetLink
		}

		log.Err(err).Int64("id", token.UserID).Msg("user search by id failed")
		return fmt.Errorf("user search by id failed: %w", err)
	}

	if user.ResetPasswordLink == "" ||
		subtle.ConstantTimeCompare([]byte(user.ResetPasswordLink), []byte(request.Link)) != 1 {
		log.Debug().Int64("id", user.UserID).Msg("reset link is not the pending one")
		return ErrInvalidResetLink
	}

	return a.storeNewPassword(ctx, user, request.NewPassword)
}

// GetUser returns the account with the given ID.
func (a *authService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user, nil
}

// CreateToken issues a signed access JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim and the user's role, and expires after
// tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(utils.TokenParams{
		Issuer:   a.tokenIssuer,
		Audience: AccessTokenAudience,
		UserID:   user.UserID,
		Role:     user.Role,
		Duration: a.tokenDuration,
		SignKey:  a.tokenSignKey,
	})
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw access JWT string.
//
// An expired token yields ErrTokenIsExpired; any other validation failure
// (bad signature, wrong issuer or audience, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer, AccessTokenAudience)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// storeNewPassword hashes password with a fresh salt, clears any pending
// reset link and persists the credential pair in one update.
func (a *authService) storeNewPassword(ctx context.Context, user models.User, password string) error {
	log := logger.FromContext(ctx)

	if err := a.credentials.SetPassword(&user, password); err != nil {
		if errors.Is(err, credential.ErrEmptyPassword) {
			return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}

		log.Err(err).Int64("id", user.UserID).Msg("setting password failed")
		return fmt.Errorf("setting password failed: %w", err)
	}
	user.ResetPasswordLink = ""

	if err := a.userRepository.UpdatePassword(ctx, user); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("password update failed")
		return fmt.Errorf("password update failed: %w", err)
	}

	log.Info().Int64("id", user.UserID).Msg("password changed")

	return nil
}
