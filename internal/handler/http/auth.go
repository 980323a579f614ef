// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/internal/utils"
	"github.com/MKhiriev/go-credential-keeper/models"
)

// decodeJSON reads the request body into dst. On failure it writes 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		utils.WriteError(w, errInvalidJSON.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request models.RegisterRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, request)
	if err != nil {
		writeServiceError(w, r, err, "user registration failed")
		return
	}

	h.writeUserWithToken(w, r, registeredUser)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var credentials models.Credentials
	if !decodeJSON(w, r, &credentials) {
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, credentials)
	if err != nil {
		writeServiceError(w, r, err, "user login failed")
		return
	}

	logger.FromRequest(r).Debug().Int64("id", foundUser.UserID).Msg("user successfully logged in")

	h.writeUserWithToken(w, r, foundUser)
}

// writeUserWithToken issues an access token for user, puts it into the
// Authorization header and writes the user as JSON.
func (h *Handler) writeUserWithToken(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err, "creation of token failed")
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var request models.ForgotPasswordRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), request); err != nil {
		writeServiceError(w, r, err, "password reset request failed")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var request models.ResetPasswordRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), request); err != nil {
		writeServiceError(w, r, err, "password reset failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
