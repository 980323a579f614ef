// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// postgresError returns the SQLSTATE code of err, or "" if err is not a
// PostgreSQL error.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// uniqueViolation maps a unique constraint failure of either backend to the
// matching domain error. It returns nil if err is not a unique violation.
//
// PostgreSQL reports the constraint name (users_username_key,
// users_email_key); SQLite reports the column as "users.username".
func uniqueViolation(err error) error {
	var detail string

	var pgErr *pgconn.PgError
	var liteErr sqlite3.Error
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		detail = pgErr.ConstraintName
	case errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		detail = liteErr.Error()
	default:
		return nil
	}

	switch {
	case strings.Contains(detail, "username"):
		return ErrUsernameAlreadyExists
	case strings.Contains(detail, "email"):
		return ErrEmailAlreadyExists
	default:
		return nil
	}
}
