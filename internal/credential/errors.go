// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package credential

import "errors"

var (
	// ErrEmptyPassword is returned by SetPassword when no plaintext is given.
	ErrEmptyPassword = errors.New("empty password")

	// ErrSaltGeneration is returned when the random source fails.
	ErrSaltGeneration = errors.New("salt generation failed")

	// ErrHashingFailure signals a malfunction of the hashing primitive
	// (missing key material, rejected input). It must never be treated as a
	// password mismatch.
	ErrHashingFailure = errors.New("password hashing failed")

	// ErrEmptySalt is wrapped into ErrHashingFailure when a hash is requested
	// without key material.
	ErrEmptySalt = errors.New("empty salt")

	// ErrUnsupportedAlgorithm is returned by NewHasher for an unknown name.
	ErrUnsupportedAlgorithm = errors.New("unsupported password hashing algorithm")
)
