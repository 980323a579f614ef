// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/models"
)

// userRepository is the SQL implementation of [UserRepository] for both
// PostgreSQL and SQLite. Dialect differences are confined to the placeholder
// format of db.builder and to error classification.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
	now    func() time.Time
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser persists a new user record and its category references in one
// transaction and returns the record with UserID and timestamps set.
//
// Error handling:
//   - unique violation on username → [ErrUsernameAlreadyExists].
//   - unique violation on email → [ErrEmailAlreadyExists].
//   - any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	now := r.now()
	user.CreatedAt, user.UpdatedAt = now, now

	query, args, err := buildInsertUserQuery(r.db.builder, user)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error beginning transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	// create user in db
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&user.UserID); err != nil {
		log.Err(err).
			Str("func", "*userRepository.CreateUser").
			Str("sqlstate", postgresError(err)).
			Msg("error inserting user")

		if domainErr := uniqueViolation(err); domainErr != nil {
			return models.User{}, domainErr
		}
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	// attach categories
	if len(user.Categories) > 0 {
		query, args, err = buildInsertUserCategoriesQuery(r.db.builder, user.UserID, user.Categories)
		if err != nil {
			return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user categories")
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error committing transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	if user.Categories == nil {
		user.Categories = []int64{}
	}

	return user, nil
}

// FindUserByID retrieves a user by its internal identifier.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, sq.Eq{"user_id": userID})
}

// FindUserByUsername retrieves a user by its normalized username.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUser(ctx, sq.Eq{"username": username})
}

// FindUserByEmail retrieves a user by its normalized e-mail.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, sq.Eq{"email": email})
}

// findUser loads the single user matching where, then its categories.
//
// Error handling:
//   - empty result → [ErrNoUserWasFound].
//   - any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) findUser(ctx context.Context, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder, where)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var foundUser models.User
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = scanUser(row, &foundUser); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.findUser").Msg("error selecting user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	categories, err := r.findUserCategories(ctx, foundUser.UserID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error selecting user categories")
		return models.User{}, err
	}
	foundUser.Categories = categories

	return foundUser, nil
}

func (r *userRepository) findUserCategories(ctx context.Context, userID int64) ([]int64, error) {
	query, args, err := buildSelectUserCategoriesQuery(r.db.builder, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	categories := make([]int64, 0)
	for rows.Next() {
		var categoryID int64
		if err = rows.Scan(&categoryID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		categories = append(categories, categoryID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return categories, nil
}

// UpdatePassword stores the credential pair and reset link of user in a
// single UPDATE.
func (r *userRepository) UpdatePassword(ctx context.Context, user models.User) error {
	query, args, err := buildUpdatePasswordQuery(r.db.builder, user, r.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execUserUpdate(ctx, "*userRepository.UpdatePassword", query, args)
}

// UpdateResetPasswordLink stores link as the pending reset link of the user.
func (r *userRepository) UpdateResetPasswordLink(ctx context.Context, userID int64, link string) error {
	query, args, err := buildUpdateResetPasswordLinkQuery(r.db.builder, userID, link, r.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execUserUpdate(ctx, "*userRepository.UpdateResetPasswordLink", query, args)
}

// execUserUpdate runs an UPDATE that must touch exactly one user row.
func (r *userRepository) execUserUpdate(ctx context.Context, funcName, query string, args []any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error updating user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error reading affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// scanUser scans a row selected with userColumns into user.
func scanUser(row *sql.Row, user *models.User) error {
	return row.Scan(
		&user.UserID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.Salt,
		&user.HashedPassword,
		&user.Role,
		&user.ResetPasswordLink,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
