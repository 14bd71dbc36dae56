package models

// User is the principal that owns categories and expenses.
type User struct {
	Base
	Username     string `gorm:"uniqueIndex:uq_users_username;not null;size:50" json:"username"`
	Email        string `gorm:"uniqueIndex:uq_users_email;not null;size:128" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	// Salary is in minor currency units.
	Salary *int64 `json:"salary"`

	Categories []Category `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Expenses   []Expense  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
