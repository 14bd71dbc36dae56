// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"expensetracker/internal/models"
	"expensetracker/internal/patch"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn installs the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("category_tag", validateCategoryTag)
	_ = v.RegisterValidation("username", validateUsername)

	// Patch fields validate as their inner value; absent and null fields
	// validate as nil, so "omitempty" skips them.
	v.RegisterCustomTypeFunc(patchValue,
		patch.Field[string]{},
		patch.Field[int64]{},
		patch.Field[models.CategoryTag]{},
	)
}

func patchValue(field reflect.Value) interface{} {
	switch f := field.Interface().(type) {
	case patch.Field[string]:
		if s, ok := f.Get(); ok {
			return s
		}
	case patch.Field[int64]:
		if n, ok := f.Get(); ok {
			return n
		}
	case patch.Field[models.CategoryTag]:
		if tag, ok := f.Get(); ok {
			return string(tag)
		}
	}
	return nil
}

func validateCategoryTag(fl validator.FieldLevel) bool {
	return models.CategoryTag(fl.Field().String()).Valid()
}

// validateUsername checks the character set. Whitespace is ignored here
// because usernames are stripped of all whitespace during normalization.
func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(strings.Join(strings.Fields(fl.Field().String()), ""))
}
