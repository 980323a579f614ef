// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-credential-keeper/models"
)

const (
	usersTable          = "users"
	userCategoriesTable = "user_categories"
)

// userColumns is the column order shared by every user SELECT and by
// scanUser.
var userColumns = []string{
	"user_id",
	"username",
	"name",
	"email",
	"salt",
	"hashed_password",
	"role",
	"reset_password_link",
	"created_at",
	"updated_at",
}

func buildInsertUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(usersTable).
		Columns("username", "name", "email", "salt", "hashed_password", "role", "reset_password_link", "created_at", "updated_at").
		Values(user.Username, user.Name, user.Email, user.Salt, user.HashedPassword, user.Role, user.ResetPasswordLink, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING user_id").
		ToSql()
}

func buildInsertUserCategoriesQuery(b sq.StatementBuilderType, userID int64, categories []int64) (string, []any, error) {
	insert := b.Insert(userCategoriesTable).Columns("user_id", "category_id")
	for _, categoryID := range categories {
		insert = insert.Values(userID, categoryID)
	}

	return insert.ToSql()
}

// buildSelectUserQuery selects one user matching the equality predicate.
func buildSelectUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
}

func buildSelectUserCategoriesQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Select("category_id").
		From(userCategoriesTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("category_id").
		ToSql()
}

// buildUpdatePasswordQuery writes the whole credential pair and the reset link
// in one statement so they can never diverge.
func buildUpdatePasswordQuery(b sq.StatementBuilderType, user models.User, now time.Time) (string, []any, error) {
	return b.Update(usersTable).
		Set("salt", user.Salt).
		Set("hashed_password", user.HashedPassword).
		Set("reset_password_link", user.ResetPasswordLink).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": user.UserID}).
		ToSql()
}

func buildUpdateResetPasswordLinkQuery(b sq.StatementBuilderType, userID int64, link string, now time.Time) (string, []any, error) {
	return b.Update(usersTable).
		Set("reset_password_link", link).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}
