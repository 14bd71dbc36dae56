package services

import (
	"time"

	"gorm.io/gorm"

	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/normalize"
)

// now is replaced in tests.
var now = time.Now

// today returns the current UTC date at midnight.
func today() time.Time {
	return now().UTC().Truncate(24 * time.Hour)
}

// defaultCategoryPolicy owns the "exactly one default category per user"
// invariant. The partial unique index uq_one_default_per_user backs it in
// storage.
type defaultCategoryPolicy struct {
	name        string
	description *string
	tag         *models.CategoryTag
}

// fallbackDefaultCategoryName is used when the configured name is blank.
const fallbackDefaultCategoryName = "uncategorized"

// newDefaultCategoryPolicy normalizes the configured default category the
// same way user-created categories are normalized, so a user can never
// create a second category that collides with it only by case.
func newDefaultCategoryPolicy(cfg config.DefaultCategory) defaultCategoryPolicy {
	name, err := normalize.Required(normalize.CategoryName, cfg.Name)
	if err != nil {
		logger.Get().Warnw("blank default category name, using fallback", "name", cfg.Name, "fallback", fallbackDefaultCategoryName)
		name = fallbackDefaultCategoryName
	}
	p := defaultCategoryPolicy{name: name}
	if desc, err := normalize.Optional(normalize.CategoryDescription, &cfg.Description); err == nil {
		p.description = desc
	}
	if cfg.Tag != "" {
		tag := models.CategoryTag(cfg.Tag)
		if tag.Valid() {
			p.tag = &tag
		} else {
			logger.Get().Warnw("ignoring invalid default category tag", "tag", cfg.Tag)
		}
	}
	return p
}

// provision creates the default category for a freshly inserted user. It must
// run in the same transaction as the user insert.
func (p defaultCategoryPolicy) provision(tx *gorm.DB, userID string) (*models.Category, error) {
	category := &models.Category{
		UserID:      userID,
		Name:        p.name,
		Description: p.description,
		Tag:         p.tag,
		IsDefault:   true,
		DateOfEntry: today(),
	}
	if err := tx.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// guardMutable rejects any update or delete of a default category. Callers
// run it after the ownership check, so a non-owner sees Forbidden instead.
func guardMutable(category *models.Category) error {
	if category.IsDefault {
		return apperrors.ErrDefaultCategoryImmutable
	}
	return nil
}
