// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-credential-keeper/internal/config"
	"github.com/MKhiriev/go-credential-keeper/internal/credential"
	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/internal/mock"
	"github.com/MKhiriev/go-credential-keeper/internal/store"
	"github.com/MKhiriev/go-credential-keeper/internal/utils"
	"github.com/MKhiriev/go-credential-keeper/models"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "credential-keeper-test"
)

var testAppConfig = config.App{
	TokenSignKey:      testSignKey,
	TokenIssuer:       testIssuer,
	TokenDuration:     time.Hour,
	ResetLinkDuration: 15 * time.Minute,
}

// brokenHasher simulates an unavailable hash primitive.
type brokenHasher struct{}

func (brokenHasher) Sum(_, _ []byte) ([]byte, error) {
	return nil, errors.New("primitive unavailable")
}

func (brokenHasher) Algorithm() string {
	return "broken"
}

// newTestAuthService returns an authService with mocked collaborators and a
// real hmac-sha1 credential manager.
func newTestAuthService(t *testing.T) (*authService, *mock.MockUserRepository, *mock.MockResetLinkNotifier) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	notifier := mock.NewMockResetLinkNotifier(ctrl)

	hasher, err := credential.NewHasher(credential.AlgorithmHMACSHA1)
	require.NoError(t, err)

	svc := NewAuthService(repo, credential.NewManager(hasher), notifier, testAppConfig, logger.Nop())

	return svc.(*authService), repo, notifier
}

// storedUser returns a persisted-looking user whose password is password.
func storedUser(t *testing.T, svc *authService, password string) models.User {
	t.Helper()

	user := models.NewUser("alice", "alice@example.com", "Alice")
	user.UserID = 11
	require.NoError(t, svc.credentials.SetPassword(&user, password))

	return user
}

// ─────────────────────────────────────────────
// RegisterUser
// ─────────────────────────────────────────────

func TestRegisterUser_Success(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "alice", u.Username)
			assert.Equal(t, "alice@example.com", u.Email)
			assert.Equal(t, "Alice", u.Name)
			assert.Equal(t, models.RoleSubscriber, u.Role)
			assert.Equal(t, []int64{4}, u.Categories)
			assert.Len(t, u.Salt, credential.SaltSize*2)
			assert.Len(t, u.HashedPassword, credential.DigestSize*2)

			u.UserID = 1
			return u, nil
		},
	)

	user, err := svc.RegisterUser(ctx, models.RegisterRequest{
		Username:   "  Alice ",
		Email:      "Alice@Example.com",
		Name:       " Alice ",
		Password:   "Secret123",
		Categories: []int64{4},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)

	ok, err := svc.credentials.Authenticate(user, "Secret123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUsernameAlreadyExists)

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "Secret123",
	})
	assert.ErrorIs(t, err, store.ErrUsernameAlreadyExists)
}

func TestRegisterUser_EmptyPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	// no repository call is expected
	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Name: "Alice",
	})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestRegisterUser_HashingFailure(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	svc.credentials = credential.NewManager(brokenHasher{})

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Name: "Alice", Password: "Secret123",
	})
	assert.ErrorIs(t, err, credential.ErrHashingFailure)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestLogin_ByUsername(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	repo.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(stored, nil)

	user, err := svc.Login(context.Background(), models.Credentials{Login: " ALICE ", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, stored.UserID, user.UserID)
}

func TestLogin_ByEmail(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	repo.EXPECT().FindUserByEmail(gomock.Any(), "alice@example.com").Return(stored, nil)

	_, err := svc.Login(context.Background(), models.Credentials{Login: "Alice@Example.com", Password: "Secret123"})
	require.NoError(t, err)
}

// Usernames cannot contain '@', so a login with '@' never needs a username lookup.
func TestLogin_AtSignRoutesToEmailOnly(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	repo.EXPECT().FindUserByEmail(gomock.Any(), "bob@x").Return(models.User{}, store.ErrNoUserWasFound)
	repo.EXPECT().FindUserByUsername(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Login(context.Background(), models.Credentials{Login: "bob@x", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_LegacyHash(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	legacy := models.NewUser("bob", "bob@example.com", "Bob")
	legacy.UserID = 2
	legacy.Salt = "abc"
	legacy.HashedPassword = "473b6104a62e4c86258d7a70cf1da3fb04c73c70"

	repo.EXPECT().FindUserByUsername(gomock.Any(), "bob").Return(legacy, nil).Times(2)

	_, err := svc.Login(context.Background(), models.Credentials{Login: "bob", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.Credentials{Login: "bob", Password: "Hunter2"})
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	repo.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(stored, nil)

	_, err := svc.Login(context.Background(), models.Credentials{Login: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	repo.EXPECT().FindUserByUsername(gomock.Any(), "ghost").Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.Login(context.Background(), models.Credentials{Login: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.NotErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestLogin_RepositoryError(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	repo.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(models.User{}, errors.New("connection refused"))

	_, err := svc.Login(context.Background(), models.Credentials{Login: "alice", Password: "Secret123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_HashingFailureIsNotWrongPassword(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")
	svc.credentials = credential.NewManager(brokenHasher{})

	repo.EXPECT().FindUserByUsername(gomock.Any(), "alice").Return(stored, nil)

	_, err := svc.Login(context.Background(), models.Credentials{Login: "alice", Password: "Secret123"})
	assert.ErrorIs(t, err, credential.ErrHashingFailure)
	assert.NotErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_EmptyInput(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.Credentials{Login: "  ", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Login(context.Background(), models.Credentials{Login: "alice"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ─────────────────────────────────────────────
// ChangePassword
// ─────────────────────────────────────────────

func TestChangePassword_Success(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")
	stored.ResetPasswordLink = "pending"

	repo.EXPECT().FindUserByID(gomock.Any(), stored.UserID).Return(stored, nil)
	repo.EXPECT().UpdatePassword(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) error {
			assert.Equal(t, stored.UserID, u.UserID)
			assert.NotEqual(t, stored.Salt, u.Salt)
			assert.Empty(t, u.ResetPasswordLink)

			ok, err := svc.credentials.Authenticate(u, "NewSecret456")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = svc.credentials.Authenticate(u, "Secret123")
			require.NoError(t, err)
			assert.False(t, ok)
			return nil
		},
	)

	err := svc.ChangePassword(context.Background(), models.ChangePasswordRequest{
		UserID: stored.UserID, OldPassword: "Secret123", NewPassword: "NewSecret456",
	})
	require.NoError(t, err)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	repo.EXPECT().FindUserByID(gomock.Any(), stored.UserID).Return(stored, nil)

	err := svc.ChangePassword(context.Background(), models.ChangePasswordRequest{
		UserID: stored.UserID, OldPassword: "nope", NewPassword: "NewSecret456",
	})
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestChangePassword_UpdateFails(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	repo.EXPECT().FindUserByID(gomock.Any(), stored.UserID).Return(stored, nil)
	repo.EXPECT().UpdatePassword(gomock.Any(), gomock.Any()).Return(store.ErrNoUserWasFound)

	err := svc.ChangePassword(context.Background(), models.ChangePasswordRequest{
		UserID: stored.UserID, OldPassword: "Secret123", NewPassword: "NewSecret456",
	})
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

// ─────────────────────────────────────────────
// ForgotPassword / ResetPassword
// ─────────────────────────────────────────────

func TestForgotPassword_IssuesAndDeliversLink(t *testing.T) {
	svc, repo, notifier := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	var storedLink string
	gomock.InOrder(
		repo.EXPECT().FindUserByEmail(gomock.Any(), "alice@example.com").Return(stored, nil),
		repo.EXPECT().UpdateResetPasswordLink(gomock.Any(), stored.UserID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int64, link string) error {
				storedLink = link
				return nil
			},
		),
		notifier.EXPECT().NotifyResetLink(gomock.Any(), stored, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ models.User, link string) error {
				assert.Equal(t, storedLink, link)
				return nil
			},
		),
	)

	require.NoError(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: " ALICE@example.com"}))

	token, err := utils.ValidateAndParseJWTToken(storedLink, testSignKey, testIssuer, ResetTokenAudience)
	require.NoError(t, err)
	assert.Equal(t, stored.UserID, token.UserID)

	// a reset link is not an access token
	_, err = svc.ParseToken(context.Background(), storedLink)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestForgotPassword_UnknownEmailIsNotDisclosed(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	repo.EXPECT().FindUserByEmail(gomock.Any(), "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)

	assert.NoError(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ghost@example.com"}))
}

func TestForgotPassword_NotifierFailure(t *testing.T) {
	svc, repo, notifier := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	repo.EXPECT().FindUserByEmail(gomock.Any(), "alice@example.com").Return(stored, nil)
	repo.EXPECT().UpdateResetPasswordLink(gomock.Any(), stored.UserID, gomock.Any()).Return(nil)
	notifier.EXPECT().NotifyResetLink(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	assert.Error(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "alice@example.com"}))
}

func issueResetLink(t *testing.T, userID int64) string {
	t.Helper()

	token, err := utils.GenerateJWTToken(utils.TokenParams{
		Issuer:   testIssuer,
		Audience: ResetTokenAudience,
		UserID:   userID,
		Duration: time.Minute,
		SignKey:  testSignKey,
	})
	require.NoError(t, err)

	return token.SignedString
}

func TestResetPassword_Success(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")
	link := issueResetLink(t, stored.UserID)
	stored.ResetPasswordLink = link

	repo.EXPECT().FindUserByID(gomock.Any(), stored.UserID).Return(stored, nil)
	repo.EXPECT().UpdatePassword(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) error {
			assert.Empty(t, u.ResetPasswordLink, "reset link must be consumed")

			ok, err := svc.credentials.Authenticate(u, "BrandNew789")
			require.NoError(t, err)
			assert.True(t, ok)
			return nil
		},
	)

	require.NoError(t, svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Link: link, NewPassword: "BrandNew789"}))
}

func TestResetPassword_StaleLink(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")
	stored.ResetPasswordLink = issueResetLink(t, stored.UserID)

	older := issueResetLink(t, stored.UserID)
	repo.EXPECT().FindUserByID(gomock.Any(), stored.UserID).Return(stored, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Link: older, NewPassword: "BrandNew789"})
	assert.ErrorIs(t, err, ErrInvalidResetLink)
}

func TestResetPassword_NoPendingLink(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	stored := storedUser(t, svc, "Secret123")

	repo.EXPECT().FindUserByID(gomock.Any(), stored.UserID).Return(stored, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Link: issueResetLink(t, stored.UserID), NewPassword: "BrandNew789",
	})
	assert.ErrorIs(t, err, ErrInvalidResetLink)
}

func TestResetPassword_RejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	access, err := svc.CreateToken(context.Background(), models.User{UserID: 11, Role: models.RoleSubscriber})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Link: access.SignedString, NewPassword: "BrandNew789"})
	assert.ErrorIs(t, err, ErrInvalidResetLink)
}

func TestResetPassword_Garbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Link: "garbage", NewPassword: "BrandNew789"})
	assert.ErrorIs(t, err, ErrInvalidResetLink)
}

// ─────────────────────────────────────────────
// Tokens and GetUser
// ─────────────────────────────────────────────

func TestCreateAndParseToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	token, err := svc.CreateToken(context.Background(), models.User{UserID: 42, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, models.RoleAdmin, parsed.Claims.Role)
}

func TestParseToken_Expired(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "42",
			Audience:  jwt.ClaimStrings{AccessTokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString([]byte(testSignKey))
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), expired)
	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestParseToken_WrongKey(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	other := *svc
	other.tokenSignKey = "another-key"
	token, err := other.CreateToken(context.Background(), models.User{UserID: 1})
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestCreateToken_MisconfiguredService(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	svc.tokenSignKey = ""

	_, err := svc.CreateToken(context.Background(), models.User{UserID: 1})
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestGetUser(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	repo.EXPECT().FindUserByID(gomock.Any(), int64(5)).Return(models.User{UserID: 5, Username: "eve"}, nil)
	repo.EXPECT().FindUserByID(gomock.Any(), int64(6)).Return(models.User{}, store.ErrNoUserWasFound)

	user, err := svc.GetUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "eve", user.Username)

	_, err = svc.GetUser(context.Background(), 6)
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}
