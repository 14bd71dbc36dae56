package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expensetracker/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// DefaultCategoryName is the stored name of fixture default categories. It
// matches the normalized form of the configured default.
const DefaultCategoryName = "uncategorized"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique username together with its
// default category, the same way account registration does.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given (already
// normalized) username and its default category.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: string(hash),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		desc := "All your uncategorized expenses"
		tag := models.CategoryTagBlack
		return tx.Create(&models.Category{
			UserID:      user.ID,
			Name:        DefaultCategoryName,
			Description: &desc,
			Tag:         &tag,
			IsDefault:   true,
			DateOfEntry: today(),
		}).Error
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// DefaultCategory returns the default category of userID.
func DefaultCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	var category models.Category
	if err := db.Where("user_id = ? AND is_default = ?", userID, true).First(&category).Error; err != nil {
		t.Fatalf("failed to load default category: %v", err)
	}
	return &category
}

// CreateTestCategory creates a non-default category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, fmt.Sprintf("category %d", nextID()))
}

// CreateTestCategoryWithName creates a non-default category with the given
// (already normalized) name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		DateOfEntry: today(),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense of the given amount (in minor units).
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount int64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Name:        fmt.Sprintf("Expense %d", nextID()),
		Amount:      amount,
		DateOfEntry: today(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CountRows returns the number of rows of model matching the condition.
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
