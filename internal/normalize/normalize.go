// Package normalize turns raw text fields into their canonical, comparable form.
//
// Each field is assigned a Role, and each Role maps to one rule. Command
// constructors in the services package call Required or Optional for every
// text field before any uniqueness check or write, so "Food", " food " and
// "FOOD" are the same category name.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	apperrors "expensetracker/internal/errors"
)

// Role selects a normalization rule.
type Role int

const (
	// IdentityStrict trims, removes all internal whitespace and case-folds.
	IdentityStrict Role = iota + 1
	// IdentityTrimmed trims and case-folds.
	IdentityTrimmed
	// TextTrimmed trims only; case and internal spacing are preserved.
	TextTrimmed
)

// Field names a text field that is subject to normalization.
type Field string

const (
	Username            Field = "username"
	Email               Field = "email"
	CategoryName        Field = "name"
	CategoryDescription Field = "description"
	ExpenseName         Field = "expense_name"
	ExpenseDescription  Field = "expense_description"
)

var rules = map[Role]func(string) string{
	IdentityStrict:  identityStrict,
	IdentityTrimmed: identityTrimmed,
	TextTrimmed:     textTrimmed,
}

var fieldRoles = map[Field]Role{
	Username:            IdentityStrict,
	Email:               IdentityTrimmed,
	CategoryName:        IdentityTrimmed,
	CategoryDescription: TextTrimmed,
	ExpenseName:         TextTrimmed,
	ExpenseDescription:  TextTrimmed,
}

// displayNames are used in validation messages.
var displayNames = map[Field]string{
	ExpenseName:        "name",
	ExpenseDescription: "description",
}

// RoleOf returns the role assigned to f. Unknown fields are TextTrimmed.
func RoleOf(f Field) Role {
	if r, ok := fieldRoles[f]; ok {
		return r
	}
	return TextTrimmed
}

// Apply normalizes s with the rule for role.
func Apply(role Role, s string) string {
	rule, ok := rules[role]
	if !ok {
		rule = textTrimmed
	}
	return rule(s)
}

// Required normalizes a required field and rejects it if nothing is left.
func Required(f Field, s string) (string, error) {
	out := Apply(RoleOf(f), s)
	if out == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, f.Label()+" cannot be empty or whitespace only")
	}
	return out, nil
}

// Optional normalizes an optional field. A nil input stays nil; a provided
// value follows the same rules as Required.
func Optional(f Field, s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	out, err := Required(f, *s)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Label is the name used for f in validation messages.
func (f Field) Label() string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return string(f)
}

func identityStrict(s string) string {
	return fold(strings.Join(strings.Fields(s), ""))
}

func identityTrimmed(s string) string {
	return fold(strings.TrimSpace(s))
}

func textTrimmed(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// fold applies Unicode case folding. A Caser keeps state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
