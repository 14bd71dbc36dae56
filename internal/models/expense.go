package models

import "time"

// Expense is a single spend. CategoryID always points at a category owned by
// the same user.
type Expense struct {
	Base
	UserID     string `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string `gorm:"type:uuid;not null;index" json:"category_id"`
	Name       string `gorm:"not null;size:50" json:"name"`
	// Amount is in minor currency units.
	Amount       int64      `gorm:"type:bigint;not null" json:"amount"`
	Description  *string    `gorm:"size:1000" json:"description"`
	DateOfEntry  time.Time  `gorm:"type:date;not null" json:"date_of_entry"`
	DateOfUpdate *time.Time `gorm:"type:date" json:"date_of_update"`
}

// OwnerID implements Owned.
func (e Expense) OwnerID() string { return e.UserID }
