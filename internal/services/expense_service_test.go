package services

import (
	"testing"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/patch"
	"expensetracker/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	t.Run("defaults_to_default_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(user.ID, CreateExpenseInput{Name: " Coffee ", Amount: 5})
		testutil.AssertNoError(t, err)

		if expense.CategoryID != testutil.DefaultCategory(t, db, user.ID).ID {
			t.Errorf("expected the default category, got %s", expense.CategoryID)
		}
		if expense.Name != "Coffee" {
			t.Errorf("expected trimmed name Coffee, got %q", expense.Name)
		}
		if expense.DateOfUpdate != nil {
			t.Error("a new expense has no date_of_update")
		}
	})

	t.Run("own_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID)

		expense, err := svc.CreateExpense(user.ID, CreateExpenseInput{Name: "Lunch", Amount: 1250, CategoryID: &food.ID})
		testutil.AssertNoError(t, err)
		if expense.CategoryID != food.ID {
			t.Errorf("expected category %s, got %s", food.ID, expense.CategoryID)
		}
	})

	t.Run("other_users_category_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		bobs := testutil.CreateTestCategory(t, db, bob.ID)

		_, err := svc.CreateExpense(alice.ID, CreateExpenseInput{Name: "Lunch", Amount: 1, CategoryID: &bobs.ID})
		testutil.AssertAppError(t, err, "FORBIDDEN")

		if n := testutil.CountRows(t, db, &models.Expense{}, "1 = 1"); n != 0 {
			t.Errorf("expected no expense written, got %d", n)
		}
	})

	t.Run("missing_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		missing := "0190b7a1-0000-7000-8000-000000000000"
		_, err := svc.CreateExpense(user.ID, CreateExpenseInput{Name: "Lunch", Amount: 1, CategoryID: &missing})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, CreateExpenseInput{Name: "Refund", Amount: -1})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, CreateExpenseInput{Name: "Free sample", Amount: 0})
		testutil.AssertNoError(t, err)
	})

	t.Run("missing_default_category_is_internal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).Delete(&models.Category{}).Error)

		_, err := svc.CreateExpense(user.ID, CreateExpenseInput{Name: "Coffee", Amount: 5})
		testutil.AssertAppError(t, err, "DEFAULT_CATEGORY_MISSING")
	})
}

func TestGetExpenseByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, alice.ID, testutil.DefaultCategory(t, db, alice.ID).ID, 100)

	_, err := svc.GetExpenseByID(alice.ID, expense.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetExpenseByID(bob.ID, expense.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")

	_, err = svc.GetExpenseByID(bob.ID, "0190b7a1-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestGetUserExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	for i := 0; i < 3; i++ {
		testutil.CreateTestExpense(t, db, alice.ID, testutil.DefaultCategory(t, db, alice.ID).ID, int64(i))
	}
	testutil.CreateTestExpense(t, db, bob.ID, testutil.DefaultCategory(t, db, bob.ID).ID, 9)

	result, err := svc.GetUserExpenses(alice.ID, pagination.PageRequest{PageSize: 2})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 3 || result.TotalPages != 2 || len(result.Data) != 2 {
		t.Errorf("unexpected page: total=%d pages=%d len=%d", result.TotalItems, result.TotalPages, len(result.Data))
	}
	for _, e := range result.Data {
		if e.UserID != alice.ID {
			t.Errorf("listed another user's expense %s", e.ID)
		}
	}
}

func TestUpdateExpense(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	t.Run("amount_only_keeps_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID)

		created, err := svc.CreateExpense(user.ID, CreateExpenseInput{
			Name:        "Lunch",
			Amount:      1000,
			Description: strPtr("with colleagues"),
			CategoryID:  &food.ID,
		})
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateExpense(user.ID, created.ID, ExpensePatch{Amount: patch.Value(int64(1500))})
		testutil.AssertNoError(t, err)

		if updated.CategoryID != food.ID {
			t.Errorf("category changed from %s to %s", food.ID, updated.CategoryID)
		}
		if updated.Name != "Lunch" || updated.Description == nil || *updated.Description != "with colleagues" {
			t.Errorf("unset fields changed: %+v", updated)
		}
		if updated.Amount != 1500 {
			t.Errorf("expected amount 1500, got %d", updated.Amount)
		}

		stored, err := svc.GetExpenseByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if stored.CategoryID != food.ID {
			t.Errorf("stored category changed to %s", stored.CategoryID)
		}
	})

	t.Run("stamps_date_of_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, testutil.DefaultCategory(t, db, user.ID).ID, 100)

		updated, err := svc.UpdateExpense(user.ID, expense.ID, ExpensePatch{Name: patch.Value("Dinner")})
		testutil.AssertNoError(t, err)

		want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		if updated.DateOfUpdate == nil || !updated.DateOfUpdate.Equal(want) {
			t.Errorf("expected date_of_update %v, got %v", want, updated.DateOfUpdate)
		}
	})

	t.Run("explicit_null_category_selects_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID)
		expense := testutil.CreateTestExpense(t, db, user.ID, food.ID, 100)

		updated, err := svc.UpdateExpense(user.ID, expense.ID, ExpensePatch{CategoryID: patch.Null[string]()})
		testutil.AssertNoError(t, err)

		if updated.CategoryID != testutil.DefaultCategory(t, db, user.ID).ID {
			t.Errorf("expected default category, got %s", updated.CategoryID)
		}
	})

	t.Run("move_to_own_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		travel := testutil.CreateTestCategory(t, db, user.ID)
		expense := testutil.CreateTestExpense(t, db, user.ID, testutil.DefaultCategory(t, db, user.ID).ID, 100)

		updated, err := svc.UpdateExpense(user.ID, expense.ID, ExpensePatch{CategoryID: patch.Value(travel.ID)})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != travel.ID {
			t.Errorf("expected category %s, got %s", travel.ID, updated.CategoryID)
		}
	})

	t.Run("other_users_category_is_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, alice.ID)
		bobs := testutil.CreateTestCategory(t, db, bob.ID)
		expense := testutil.CreateTestExpense(t, db, alice.ID, food.ID, 100)

		_, err := svc.UpdateExpense(alice.ID, expense.ID, ExpensePatch{
			Amount:     patch.Value(int64(999)),
			CategoryID: patch.Value(bobs.ID),
		})
		testutil.AssertAppError(t, err, "FORBIDDEN")

		stored, err := svc.GetExpenseByID(alice.ID, expense.ID)
		testutil.AssertNoError(t, err)
		if stored.CategoryID != food.ID || stored.Amount != 100 {
			t.Errorf("a rejected update must not persist anything: %+v", stored)
		}
	})

	t.Run("other_users_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, alice.ID, testutil.DefaultCategory(t, db, alice.ID).ID, 100)

		_, err := svc.UpdateExpense(bob.ID, expense.ID, ExpensePatch{Amount: patch.Value(int64(1))})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("null_required_fields_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, testutil.DefaultCategory(t, db, user.ID).ID, 100)

		_, err := svc.UpdateExpense(user.ID, expense.ID, ExpensePatch{Name: patch.Null[string]()})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.UpdateExpense(user.ID, expense.ID, ExpensePatch{Amount: patch.Null[int64]()})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.UpdateExpense(user.ID, expense.ID, ExpensePatch{Amount: patch.Value(int64(-5))})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("null_description_clears", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		created, err := svc.CreateExpense(user.ID, CreateExpenseInput{Name: "Lunch", Amount: 1, Description: strPtr("x")})
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateExpense(user.ID, created.ID, ExpensePatch{Description: patch.Null[string]()})
		testutil.AssertNoError(t, err)
		if updated.Description != nil {
			t.Errorf("expected description cleared, got %q", *updated.Description)
		}
	})
}

func TestDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, alice.ID, testutil.DefaultCategory(t, db, alice.ID).ID, 100)

	err := svc.DeleteExpense(bob.ID, expense.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")

	testutil.AssertNoError(t, svc.DeleteExpense(alice.ID, expense.ID))

	err = svc.DeleteExpense(alice.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

// TestDefaultCategoryInvariant walks through a user's lifetime and checks
// after every step that exactly one default category exists.
func TestDefaultCategoryInvariant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	users := NewUserService(db)
	categories := NewCategoryService(db)
	expenses := NewExpenseService(db)

	user, err := users.CreateUser(newUserInput("alice", "alice@example.com"))
	testutil.AssertNoError(t, err)

	assertOneDefault := func(step string) {
		t.Helper()
		if n := testutil.CountRows(t, db, &models.Category{}, "user_id = ? AND is_default = ?", user.ID, true); n != 1 {
			t.Fatalf("after %s: expected one default category, got %d", step, n)
		}
	}
	assertOneDefault("registration")

	food, err := categories.CreateCategory(user.ID, CreateCategoryInput{Name: "Food"})
	testutil.AssertNoError(t, err)
	assertOneDefault("create category")

	def := testutil.DefaultCategory(t, db, user.ID)
	_ = categories.DeleteCategory(user.ID, def.ID)
	_, _ = categories.UpdateCategory(user.ID, def.ID, CategoryPatch{Name: patch.Value("renamed")})
	assertOneDefault("default mutation attempts")

	_, err = expenses.CreateExpense(user.ID, CreateExpenseInput{Name: "Lunch", Amount: 10, CategoryID: &food.ID})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, categories.DeleteCategory(user.ID, food.ID))
	assertOneDefault("delete category")
}
