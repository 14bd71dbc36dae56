package models

import "time"

// CategoryTag is the fixed set of colours a category can be tagged with.
type CategoryTag string

const (
	CategoryTagBlue  CategoryTag = "Blue"
	CategoryTagRed   CategoryTag = "Red"
	CategoryTagBlack CategoryTag = "Black"
	CategoryTagWhite CategoryTag = "White"
)

// Valid reports whether t is one of the known tags.
func (t CategoryTag) Valid() bool {
	switch t {
	case CategoryTagBlue, CategoryTagRed, CategoryTagBlack, CategoryTagWhite:
		return true
	}
	return false
}

// Category groups a user's expenses. Name is stored normalized and is unique
// per user; exactly one category per user has IsDefault set.
type Category struct {
	Base
	UserID      string       `gorm:"type:uuid;not null;index;uniqueIndex:uq_category_name_user,priority:1;uniqueIndex:uq_one_default_per_user,priority:1,where:is_default = true" json:"user_id"`
	Name        string       `gorm:"not null;size:50;uniqueIndex:uq_category_name_user,priority:2" json:"name"`
	Description *string      `gorm:"size:1000" json:"description"`
	Tag         *CategoryTag `gorm:"size:16" json:"tag"`
	IsDefault   bool         `gorm:"not null;uniqueIndex:uq_one_default_per_user,priority:2" json:"is_default"`
	DateOfEntry time.Time    `gorm:"type:date;not null" json:"date_of_entry"`

	Expenses []Expense `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// OwnerID implements Owned.
func (c Category) OwnerID() string { return c.UserID }
