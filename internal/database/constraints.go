package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Constraint names shared by the SQL migrations and the model tags.
const (
	UniqueUsername        = "uq_users_username"
	UniqueEmail           = "uq_users_email"
	UniqueCategoryName    = "uq_category_name_user"
	UniqueDefaultCategory = "uq_one_default_per_user"
)

// ViolationKind is the class of integrity constraint that rejected a write.
type ViolationKind int

const (
	ViolationUnique ViolationKind = iota + 1
	ViolationForeignKey
)

// Violation describes a rejected write. Name is the constraint name when the
// driver reports one, and empty otherwise.
type Violation struct {
	Kind ViolationKind
	Name string
}

// sqlite reports unique failures by column list rather than index name.
var sqliteUniqueColumns = map[string]string{
	"users.username":                            UniqueUsername,
	"users.email":                               UniqueEmail,
	"categories.user_id, categories.name":       UniqueCategoryName,
	"categories.user_id, categories.is_default": UniqueDefaultCategory,
}

// ClassifyConstraint inspects a write error from either driver and reports
// the violated constraint. ok is false when err is not a constraint failure.
func ClassifyConstraint(err error) (v Violation, ok bool) {
	if err == nil {
		return Violation{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return Violation{Kind: ViolationUnique, Name: pgErr.ConstraintName}, true
		case "23503":
			return Violation{Kind: ViolationForeignKey, Name: pgErr.ConstraintName}, true
		}
		return Violation{}, false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return Violation{Kind: ViolationUnique, Name: sqliteUniqueName(sqliteErr.Error())}, true
		case sqlite3.ErrConstraintForeignKey:
			return Violation{Kind: ViolationForeignKey}, true
		}
		return Violation{}, false
	}

	return classifyMessage(err.Error())
}

func sqliteUniqueName(msg string) string {
	_, cols, found := strings.Cut(msg, "constraint failed: ")
	if !found {
		return ""
	}
	return sqliteUniqueColumns[strings.TrimSpace(cols)]
}

// classifyMessage is the fallback for wrapped errors that lost their driver type.
func classifyMessage(msg string) (Violation, bool) {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key"):
		for _, name := range []string{UniqueUsername, UniqueEmail, UniqueCategoryName, UniqueDefaultCategory} {
			if strings.Contains(lower, name) {
				return Violation{Kind: ViolationUnique, Name: name}, true
			}
		}
		return Violation{Kind: ViolationUnique, Name: sqliteUniqueName(msg)}, true
	case strings.Contains(lower, "foreign key constraint"):
		return Violation{Kind: ViolationForeignKey}, true
	}
	return Violation{}, false
}
