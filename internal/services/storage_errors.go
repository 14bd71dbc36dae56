package services

import (
	"errors"

	"expensetracker/internal/database"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

// uniqueConflicts maps unique constraint names to their field-specific errors.
var uniqueConflicts = map[string]*apperrors.AppError{
	database.UniqueUsername:        apperrors.ErrDuplicateUsername,
	database.UniqueEmail:           apperrors.ErrDuplicateEmail,
	database.UniqueCategoryName:    apperrors.ErrDuplicateCategoryName,
	database.UniqueDefaultCategory: apperrors.ErrDuplicateDefaultCategory,
}

// translateWriteError turns a failed write into an *AppError. Domain errors
// pass through untouched. Recognised constraint violations become Conflict or
// InvalidReference; anything else is logged and reported as an internal fault.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if v, ok := database.ClassifyConstraint(err); ok {
		switch v.Kind {
		case database.ViolationForeignKey:
			return apperrors.Wrap(apperrors.ErrInvalidReference, err)
		case database.ViolationUnique:
			if sentinel, ok := uniqueConflicts[v.Name]; ok {
				return apperrors.Wrap(sentinel, err)
			}
		}
		logger.Get().Errorw("unrecognised constraint violation", "constraint", v.Name, "error", err)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Errorw("storage write failed", "error", err)
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
