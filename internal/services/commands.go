package services

import (
	"github.com/badoux/checkmail"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/normalize"
	"expensetracker/internal/patch"
)

// Commands arrive with their shape already validated by the HTTP layer.
// Each one is normalized before any lookup or write happens.

// CreateUserInput registers a new account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Salary   *int64
}

func (in CreateUserInput) normalized() (CreateUserInput, error) {
	var err error
	if in.Username, err = normalize.Required(normalize.Username, in.Username); err != nil {
		return in, err
	}
	if in.Email, err = normalizeEmail(in.Email); err != nil {
		return in, err
	}
	if in.Password == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "password is required")
	}
	if in.Salary != nil && *in.Salary < 0 {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "salary must not be negative")
	}
	return in, nil
}

// UserPatch updates the acting user's own account.
type UserPatch struct {
	Username patch.Field[string]
	Email    patch.Field[string]
	Password patch.Field[string]
	Salary   patch.Field[int64]
}

func (p UserPatch) normalized() (UserPatch, error) {
	var err error
	if p.Username, err = requiredText(normalize.Username, p.Username); err != nil {
		return p, err
	}
	if p.Email, err = notNull("email", p.Email); err != nil {
		return p, err
	}
	if p.Email, err = patch.Map(p.Email, normalizeEmail); err != nil {
		return p, err
	}
	if p.Password, err = notNull("password", p.Password); err != nil {
		return p, err
	}
	if v, ok := p.Salary.Get(); ok && v < 0 {
		return p, apperrors.WithMessage(apperrors.ErrInvalidInput, "salary must not be negative")
	}
	return p, nil
}

// CreateCategoryInput creates a non-default category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	Tag         *models.CategoryTag
}

func (in CreateCategoryInput) normalized() (CreateCategoryInput, error) {
	var err error
	if in.Name, err = normalize.Required(normalize.CategoryName, in.Name); err != nil {
		return in, err
	}
	if in.Description, err = normalize.Optional(normalize.CategoryDescription, in.Description); err != nil {
		return in, err
	}
	if in.Tag != nil {
		if err := checkTag(*in.Tag); err != nil {
			return in, err
		}
	}
	return in, nil
}

// CategoryPatch updates a non-default category. Description and Tag may be
// cleared with an explicit null; Name may not.
type CategoryPatch struct {
	Name        patch.Field[string]
	Description patch.Field[string]
	Tag         patch.Field[models.CategoryTag]
}

func (p CategoryPatch) normalized() (CategoryPatch, error) {
	var err error
	if p.Name, err = requiredText(normalize.CategoryName, p.Name); err != nil {
		return p, err
	}
	if p.Description, err = optionalText(normalize.CategoryDescription, p.Description); err != nil {
		return p, err
	}
	if tag, ok := p.Tag.Get(); ok {
		if err := checkTag(tag); err != nil {
			return p, err
		}
	}
	return p, nil
}

// CreateExpenseInput records an expense. A nil CategoryID files it under the
// user's default category.
type CreateExpenseInput struct {
	Name        string
	Amount      int64
	Description *string
	CategoryID  *string
}

func (in CreateExpenseInput) normalized() (CreateExpenseInput, error) {
	var err error
	if in.Name, err = normalize.Required(normalize.ExpenseName, in.Name); err != nil {
		return in, err
	}
	if in.Description, err = normalize.Optional(normalize.ExpenseDescription, in.Description); err != nil {
		return in, err
	}
	if in.Amount < 0 {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	return in, nil
}

// ExpensePatch updates an expense. An explicit null CategoryID moves the
// expense to the default category; an absent one leaves it where it is.
type ExpensePatch struct {
	Name        patch.Field[string]
	Amount      patch.Field[int64]
	Description patch.Field[string]
	CategoryID  patch.Field[string]
}

func (p ExpensePatch) normalized() (ExpensePatch, error) {
	var err error
	if p.Name, err = requiredText(normalize.ExpenseName, p.Name); err != nil {
		return p, err
	}
	if p.Description, err = optionalText(normalize.ExpenseDescription, p.Description); err != nil {
		return p, err
	}
	if p.Amount, err = notNull("amount", p.Amount); err != nil {
		return p, err
	}
	if v, ok := p.Amount.Get(); ok && v < 0 {
		return p, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	return p, nil
}

// requiredText normalizes a patch of a non-nullable text column.
func requiredText(f normalize.Field, p patch.Field[string]) (patch.Field[string], error) {
	p, err := notNull(f.Label(), p)
	if err != nil {
		return p, err
	}
	return optionalText(f, p)
}

// optionalText normalizes a patch of a nullable text column. A provided value
// must still be non-empty after normalization.
func optionalText(f normalize.Field, p patch.Field[string]) (patch.Field[string], error) {
	return patch.Map(p, func(s string) (string, error) {
		return normalize.Required(f, s)
	})
}

func notNull[T any](label string, p patch.Field[T]) (patch.Field[T], error) {
	if p.IsNull() {
		return p, apperrors.WithMessage(apperrors.ErrInvalidInput, label+" cannot be null")
	}
	return p, nil
}

func normalizeEmail(email string) (string, error) {
	email, err := normalize.Required(normalize.Email, email)
	if err != nil {
		return "", err
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid email format")
	}
	return email, nil
}

func checkTag(tag models.CategoryTag) error {
	if !tag.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "tag must be one of Blue, Red, Black, White")
	}
	return nil
}
