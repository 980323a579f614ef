// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-credential-keeper/internal/service"
	"github.com/MKhiriev/go-credential-keeper/internal/store"
	"github.com/MKhiriev/go-credential-keeper/models"
)

var bearer = map[string]string{"Authorization": "Bearer valid-token"}

func TestMe_Success(t *testing.T) {
	h, auth := newTestHandler(t)
	alice := registeredAlice()

	auth.EXPECT().ParseToken(gomock.Any(), "valid-token").Return(models.Token{UserID: alice.UserID}, nil)
	auth.EXPECT().GetUser(gomock.Any(), alice.UserID).Return(alice, nil)

	rec := serve(h, http.MethodGet, "/api/user/me", "", bearer)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, alice.Username, got.Username)
	assert.Empty(t, got.Salt)
	assert.Empty(t, got.HashedPassword)
}

func TestMe_UserGone(t *testing.T) {
	h, auth := newTestHandler(t)

	auth.EXPECT().ParseToken(gomock.Any(), "valid-token").Return(models.Token{UserID: 9}, nil)
	auth.EXPECT().GetUser(gomock.Any(), int64(9)).Return(models.User{}, fmt.Errorf("user search by id failed: %w", store.ErrNoUserWasFound))

	rec := serve(h, http.MethodGet, "/api/user/me", "", bearer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMe_NoUserInContext(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.me(rec, httptest.NewRequest(http.MethodGet, "/api/user/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_Success(t *testing.T) {
	h, auth := newTestHandler(t)

	auth.EXPECT().ParseToken(gomock.Any(), "valid-token").Return(models.Token{UserID: 5}, nil)
	auth.EXPECT().ChangePassword(gomock.Any(), models.ChangePasswordRequest{
		UserID: 5, OldPassword: "Secret123", NewPassword: "NewSecret456",
	}).Return(nil)

	rec := serve(h, http.MethodPut, "/api/user/password",
		`{"user_id":77,"old_password":"Secret123","new_password":"NewSecret456"}`, bearer)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	h, auth := newTestHandler(t)

	auth.EXPECT().ParseToken(gomock.Any(), "valid-token").Return(models.Token{UserID: 5}, nil)
	auth.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).Return(service.ErrWrongCredentials)

	rec := serve(h, http.MethodPut, "/api/user/password", `{"old_password":"x","new_password":"NewSecret456"}`, bearer)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_RequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, http.MethodPut, "/api/user/password", `{"old_password":"x","new_password":"y"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
