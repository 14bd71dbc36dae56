package services

import (
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/patch"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records an expense in one of the user's categories, or in
// the default category when no category is given.
func (s *expenseService) CreateExpense(userID string, input CreateExpenseInput) (*models.Expense, error) {
	input, err := input.normalized()
	if err != nil {
		return nil, err
	}

	var expense *models.Expense
	err = s.db.Transaction(func(tx *gorm.DB) error {
		category, err := resolveCategory(tx, userID, input.CategoryID)
		if err != nil {
			return err
		}

		expense = &models.Expense{
			UserID:      userID,
			CategoryID:  category.ID,
			Name:        input.Name,
			Amount:      input.Amount,
			Description: input.Description,
			DateOfEntry: today(),
		}
		return tx.Create(expense).Error
	})
	if err != nil {
		return nil, translateWriteError(err)
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense owned by userID.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	return findOwned[models.Expense](s.db, expenseID, userID, apperrors.ErrExpenseNotFound)
}

// GetUserExpenses retrieves a paginated list of a user's expenses, newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	result, err := pagination.Fetch[models.Expense](s.db, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}, "date_of_entry DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// UpdateExpense applies a partial update. Fields missing from the patch keep
// their stored values; in particular the category only changes when
// CategoryID is provided, and a provided category is re-checked for ownership.
func (s *expenseService) UpdateExpense(userID, expenseID string, p ExpensePatch) (*models.Expense, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}

	var expense *models.Expense
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		expense, err = findOwned[models.Expense](tx, expenseID, userID, apperrors.ErrExpenseNotFound)
		if err != nil {
			return err
		}

		if p.CategoryID.IsSet() {
			category, err := resolveCategory(tx, userID, p.CategoryID.Ptr())
			if err != nil {
				return err
			}
			expense.CategoryID = category.ID
		}

		patch.Assign(&expense.Name, p.Name)
		patch.Assign(&expense.Amount, p.Amount)
		patch.AssignNullable(&expense.Description, p.Description)

		updated := today()
		expense.DateOfUpdate = &updated

		return tx.Save(expense).Error
	})
	if err != nil {
		return nil, translateWriteError(err)
	}
	return expense, nil
}

// DeleteExpense permanently removes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		expense, err := findOwned[models.Expense](tx, expenseID, userID, apperrors.ErrExpenseNotFound)
		if err != nil {
			return err
		}
		return tx.Where("id = ?", expense.ID).Delete(&models.Expense{}).Error
	})
	return translateWriteError(err)
}
