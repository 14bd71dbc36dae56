package services

import (
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/patch"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new non-default category. Names are unique per
// user after normalization; a clash is reported as a Conflict.
func (s *categoryService) CreateCategory(userID string, input CreateCategoryInput) (*models.Category, error) {
	input, err := input.normalized()
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Tag:         input.Tag,
		DateOfEntry: today(),
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, translateWriteError(err)
	}
	return category, nil
}

// GetCategoryByID retrieves a category owned by userID.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	return findOwned[models.Category](s.db, categoryID, userID, apperrors.ErrCategoryNotFound)
}

// GetUserCategories retrieves a paginated list of categories for a user,
// default category first.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	result, err := pagination.Fetch[models.Category](s.db, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}, "is_default DESC, name ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// UpdateCategory applies a partial update to a non-default category.
func (s *categoryService) UpdateCategory(userID, categoryID string, p CategoryPatch) (*models.Category, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}

	var category *models.Category
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = findOwned[models.Category](tx, categoryID, userID, apperrors.ErrCategoryNotFound)
		if err != nil {
			return err
		}
		if err := guardMutable(category); err != nil {
			return err
		}

		patch.Assign(&category.Name, p.Name)
		patch.AssignNullable(&category.Description, p.Description)
		patch.AssignNullable(&category.Tag, p.Tag)

		return tx.Save(category).Error
	})
	if err != nil {
		return nil, translateWriteError(err)
	}
	return category, nil
}

// DeleteCategory deletes a non-default category and all of its expenses.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := findOwned[models.Category](tx, categoryID, userID, apperrors.ErrCategoryNotFound)
		if err != nil {
			return err
		}
		if err := guardMutable(category); err != nil {
			return err
		}
		return deleteCategoryCascade(tx, category.ID)
	})
	return translateWriteError(err)
}

// GetCategoryExpenses lists the expenses filed under one of the user's
// categories, newest first.
func (s *categoryService) GetCategoryExpenses(userID, categoryID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	category, err := findOwned[models.Category](s.db, categoryID, userID, apperrors.ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}

	result, err := pagination.Fetch[models.Expense](s.db, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND category_id = ?", userID, category.ID)
	}, "date_of_entry DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
