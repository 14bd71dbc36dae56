package services

import (
	"gorm.io/gorm"

	"expensetracker/internal/models"
)

// The foreign keys also cascade, but children are removed explicitly so the
// result does not depend on the store enforcing ON DELETE CASCADE.

// deleteCategoryCascade removes a category and every expense filed under it.
func deleteCategoryCascade(tx *gorm.DB, categoryID string) error {
	if err := tx.Where("category_id = ?", categoryID).Delete(&models.Expense{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", categoryID).Delete(&models.Category{}).Error
}

// deleteUserCascade removes a user with all of its expenses and categories,
// the default category included.
func deleteUserCascade(tx *gorm.DB, userID string) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.Expense{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Category{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", userID).Delete(&models.User{}).Error
}
