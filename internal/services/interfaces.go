package services

import (
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(input CreateUserInput) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateUser(id string, p UserPatch) (*models.User, error)
	DeleteUser(id string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID string, input CreateCategoryInput) (*models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	UpdateCategory(userID, categoryID string, p CategoryPatch) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	GetCategoryExpenses(userID, categoryID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, input CreateExpenseInput) (*models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(userID, expenseID string, p ExpensePatch) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
