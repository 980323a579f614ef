// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-credential-keeper/internal/config"
	"github.com/MKhiriev/go-credential-keeper/internal/credential"
	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/internal/store"
	"github.com/MKhiriev/go-credential-keeper/models"
)

type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService
}

// NewServices builds the service layer on top of storages. The auth service
// is wrapped with input validation.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	hasher, err := credential.NewHasher(cfg.App.PasswordAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("error creating password hasher: %w", err)
	}
	logger.Info().Str("algorithm", hasher.Algorithm()).Msg("password hasher selected")
	if hasher.Algorithm() != credential.AlgorithmHMACSHA1 {
		logger.Warn().
			Str("algorithm", hasher.Algorithm()).
			Msg("non-default password algorithm: passwords hashed with any other algorithm will no longer verify")
	}

	authService := NewAuthService(
		storages.UserRepository,
		credential.NewManager(hasher),
		NewLogResetLinkNotifier(logger),
		cfg.App,
		logger,
	)

	appInfoService, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    NewAuthValidationService().Wrap(authService),
		AppInfoService: appInfoService,
	}, nil
}
