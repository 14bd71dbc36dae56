package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
)

// resolveCategory returns the category an expense of userID should point at.
// A nil id selects the user's default category. Any other id must exist and
// belong to userID, even though the foreign key alone would accept another
// user's category.
func resolveCategory(tx *gorm.DB, userID string, id *string) (*models.Category, error) {
	if id == nil {
		return defaultCategoryOf(tx, userID)
	}
	return findOwned[models.Category](tx, *id, userID, apperrors.ErrCategoryNotFound)
}

// defaultCategoryOf loads the single default category of userID. Its absence
// means the default-per-user invariant is broken, which is an internal fault.
func defaultCategoryOf(tx *gorm.DB, userID string) (*models.Category, error) {
	var category models.Category
	err := tx.Where("user_id = ? AND is_default = ?", userID, true).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Get().Errorw("user has no default category", "user_id", userID)
		return nil, apperrors.ErrDefaultCategoryMissing
	}
	return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
}
