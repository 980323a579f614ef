// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/MKhiriev/go-credential-keeper/models"
)

// SaltSize is the number of random bytes in a generated salt (128 bits).
const SaltSize = 16

// Manager sets and verifies user passwords.
type Manager struct {
	hasher Hasher
	random io.Reader
}

// Option configures a Manager.
type Option func(*Manager)

// WithRandom replaces the salt entropy source. Intended for tests.
func WithRandom(r io.Reader) Option {
	return func(m *Manager) {
		m.random = r
	}
}

// NewManager returns a Manager hashing with hasher and drawing salts from
// crypto/rand.
func NewManager(hasher Hasher, opts ...Option) *Manager {
	m := &Manager{
		hasher: hasher,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Algorithm returns the name of the underlying hash algorithm.
func (m *Manager) Algorithm() string {
	return m.hasher.Algorithm()
}

// SetPassword generates a fresh salt, hashes plaintext with it and stores both
// on user. On error user is left unchanged, so the salt and the hash are
// always replaced together.
func (m *Manager) SetPassword(user *models.User, plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}

	salt, err := m.GenerateSalt()
	if err != nil {
		return err
	}

	hashed, err := m.Hash(plaintext, salt)
	if err != nil {
		return err
	}

	user.Salt, user.HashedPassword = salt, hashed

	return nil
}

// GenerateSalt returns SaltSize random bytes, hex encoded.
func (m *Manager) GenerateSalt() (string, error) {
	b := make([]byte, SaltSize)
	if _, err := io.ReadFull(m.random, b); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSaltGeneration, err)
	}

	return hex.EncodeToString(b), nil
}

// Hash returns the hex-encoded keyed hash of plaintext using salt as the key.
//
// An empty plaintext yields the empty sentinel and a nil error. A failure of
// the primitive, including an empty salt, yields ErrHashingFailure.
func (m *Manager) Hash(plaintext, salt string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	sum, err := m.hasher.Sum([]byte(plaintext), []byte(salt))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingFailure, err)
	}

	return hex.EncodeToString(sum), nil
}

// Authenticate reports whether plaintext matches the password stored on user.
//
// It returns false with a nil error for an empty plaintext and for a user
// without a password. A non-nil error means the check could not be performed
// and says nothing about the password itself.
func (m *Manager) Authenticate(user models.User, plaintext string) (bool, error) {
	if plaintext == "" || !user.HasPassword() {
		return false, nil
	}

	hashed, err := m.Hash(plaintext, user.Salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(hashed), []byte(user.HashedPassword)) == 1, nil
}
