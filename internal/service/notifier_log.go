// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/models"
)

// logResetLinkNotifier writes reset links to the structured log. It stands in
// for a mail gateway, which is outside the scope of this service. The link is
// a bearer credential, so it is written at debug level only.
type logResetLinkNotifier struct {
	logger *logger.Logger
}

func NewLogResetLinkNotifier(logger *logger.Logger) ResetLinkNotifier {
	return &logResetLinkNotifier{logger: logger}
}

func (n *logResetLinkNotifier) NotifyResetLink(ctx context.Context, user models.User, link string) error {
	n.logger.Info().
		Int64("id", user.UserID).
		Str("email", user.Email).
		Msg("password reset link issued")

	n.logger.Debug().
		Int64("id", user.UserID).
		Str("reset_password_link", link).
		Msg("password reset link")

	return nil
}
