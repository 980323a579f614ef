// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/internal/service"
	"github.com/MKhiriev/go-credential-keeper/internal/store"
	"github.com/MKhiriev/go-credential-keeper/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongCredentials:        http.StatusUnauthorized,
	service.ErrInvalidResetLink:        http.StatusUnauthorized,
	service.ErrTokenIsExpired:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrEmailAlreadyExists:    http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,
}

// statusFromError returns the HTTP status for err together with the sentinel
// that matched. Unknown errors map to 500 and a nil sentinel.
func statusFromError(err error) (int, error) {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status, target
		}
	}
	return http.StatusInternalServerError, nil
}

// writeServiceError logs err and writes the matching status. Validation
// failures keep their detail; other client errors expose only the sentinel
// text and server errors only the status text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)

	status, target := statusFromError(err)
	switch {
	case status == http.StatusInternalServerError:
		log.Err(err).Msg(msg)
		utils.WriteError(w, http.StatusText(status), status)
	case status == http.StatusBadRequest:
		log.Debug().Err(err).Msg(msg)
		utils.WriteError(w, err.Error(), status)
	default:
		log.Debug().Err(err).Msg(msg)
		utils.WriteError(w, target.Error(), status)
	}
}
