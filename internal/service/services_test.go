// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-credential-keeper/internal/config"
	"github.com/MKhiriev/go-credential-keeper/internal/credential"
	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/internal/mock"
	"github.com/MKhiriev/go-credential-keeper/internal/store"
	"github.com/MKhiriev/go-credential-keeper/models"
)

func TestNewServices(t *testing.T) {
	repo := mock.NewMockUserRepository(gomock.NewController(t))
	storages := &store.Storages{UserRepository: repo}
	buildInfo := models.NewAppBuildInfo("1.0.0", "N/A", "N/A")

	cfg := config.StructuredConfig{App: testAppConfig}

	t.Run("default algorithm", func(t *testing.T) {
		services, err := NewServices(storages, cfg, buildInfo, logger.Nop())
		require.NoError(t, err)
		require.NotNil(t, services.AuthService)
		assert.Equal(t, "1.0.0", services.AppInfoService.GetAppVersion(context.Background()))

		// the auth service is wrapped with validation
		_, err = services.AuthService.GetUser(context.Background(), -1)
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
	})

	t.Run("non-default algorithm warns at startup", func(t *testing.T) {
		var buf bytes.Buffer
		log := &logger.Logger{Logger: zerolog.New(&buf)}

		argon := cfg
		argon.App.PasswordAlgorithm = credential.AlgorithmArgon2ID

		_, err := NewServices(storages, argon, buildInfo, log)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), "will no longer verify")
	})

	t.Run("default algorithm does not warn", func(t *testing.T) {
		var buf bytes.Buffer
		log := &logger.Logger{Logger: zerolog.New(&buf)}

		_, err := NewServices(storages, cfg, buildInfo, log)
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), `"level":"warn"`)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		bad := cfg
		bad.App.PasswordAlgorithm = "md5"

		_, err := NewServices(storages, bad, buildInfo, logger.Nop())
		assert.Error(t, err)
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := NewServices(storages, cfg, models.NewAppBuildInfo("", "", ""), logger.Nop())
		assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
	})
}

func TestLogResetLinkNotifier(t *testing.T) {
	user := models.User{UserID: 7, Email: "alice@example.com", CreatedAt: time.Now()}

	t.Run("info level hides the link", func(t *testing.T) {
		var buf bytes.Buffer
		log := &logger.Logger{Logger: zerolog.New(&buf).Level(zerolog.InfoLevel)}

		require.NoError(t, NewLogResetLinkNotifier(log).NotifyResetLink(context.Background(), user, "link-value"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, float64(7), entry["id"])
		assert.Equal(t, "alice@example.com", entry["email"])
		assert.NotContains(t, buf.String(), "link-value")
	})

	t.Run("debug level carries the link", func(t *testing.T) {
		var buf bytes.Buffer
		log := &logger.Logger{Logger: zerolog.New(&buf).Level(zerolog.DebugLevel)}

		require.NoError(t, NewLogResetLinkNotifier(log).NotifyResetLink(context.Background(), user, "link-value"))

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(lines[1], &entry))
		assert.Equal(t, "debug", entry["level"])
		assert.Equal(t, "link-value", entry["reset_password_link"])
		assert.NotContains(t, string(lines[0]), "link-value")
	})
}
