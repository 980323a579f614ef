// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentials_IsEmail(t *testing.T) {
	tests := []struct {
		login string
		want  bool
	}{
		{login: "alice", want: false},
		{login: "alice@example.com", want: true},
		{login: "bob@x", want: true},
		{login: "@", want: true},
		{login: "", want: false},
		{login: "ж", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			assert.Equal(t, tt.want, Credentials{Login: tt.login}.IsEmail())
		})
	}
}
