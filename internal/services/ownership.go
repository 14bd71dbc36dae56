package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

// findOwned loads the record with the given id and checks that userID owns it.
// Existence is checked before ownership: a missing record is notFound, a
// record that belongs to someone else is ErrForbidden. A malformed id cannot
// exist and is notFound as well.
func findOwned[T models.Owned](tx *gorm.DB, id, userID string, notFound *apperrors.AppError) (*T, error) {
	if !uuid.IsValid(id) {
		return nil, notFound
	}

	var record T
	if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if record.OwnerID() != userID {
		return nil, apperrors.ErrForbidden
	}
	return &record, nil
}
