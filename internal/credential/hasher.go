// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package credential

import (
	"crypto/hmac"
	"crypto/sha1"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// AlgorithmHMACSHA1 is HMAC-SHA1 keyed with the salt. It is compatible
	// with hashes already stored by the legacy system.
	AlgorithmHMACSHA1 = "hmac-sha1"

	// AlgorithmArgon2ID is argon2id with the salt as argon2 salt.
	AlgorithmArgon2ID = "argon2id"

	// DigestSize is the raw digest length of every supported algorithm.
	// Hex encoding doubles it.
	DigestSize = sha1.Size
)

// argon2id parameters. Memory is in KiB.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// Hasher is a deterministic keyed hash of a password.
type Hasher interface {
	// Sum returns the raw digest of password keyed by salt.
	Sum(password, salt []byte) ([]byte, error)

	// Algorithm returns the algorithm name.
	Algorithm() string
}

// NewHasher returns the Hasher registered under algorithm.
// An empty name selects AlgorithmHMACSHA1.
func NewHasher(algorithm string) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmHMACSHA1:
		return hmacSHA1Hasher{}, nil
	case AlgorithmArgon2ID:
		return argon2Hasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

type hmacSHA1Hasher struct{}

func (hmacSHA1Hasher) Sum(password, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	mac := hmac.New(sha1.New, salt)
	mac.Write(password)

	return mac.Sum(nil), nil
}

func (hmacSHA1Hasher) Algorithm() string {
	return AlgorithmHMACSHA1
}

type argon2Hasher struct{}

func (argon2Hasher) Sum(password, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	return argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, DigestSize), nil
}

func (argon2Hasher) Algorithm() string {
	return AlgorithmArgon2ID
}
