package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/normalize"
	"expensetracker/internal/patch"
	"expensetracker/internal/uuid"
)

// userService handles user-related business logic.
type userService struct {
	db       *gorm.DB
	defaults defaultCategoryPolicy
}

// NewUserService creates a new UserServicer that provisions default
// categories from the process configuration.
func NewUserService(db *gorm.DB) UserServicer {
	return NewUserServiceWithDefaults(db, config.Get().DefaultCategory)
}

// NewUserServiceWithDefaults creates a new UserServicer with an explicit
// default category.
func NewUserServiceWithDefaults(db *gorm.DB, defaults config.DefaultCategory) UserServicer {
	return &userService{db: db, defaults: newDefaultCategoryPolicy(defaults)}
}

// CreateUser registers a new user together with its default category.
// Either both rows are written or neither is.
func (s *userService) CreateUser(input CreateUserInput) (*models.User, error) {
	input, err := input.normalized()
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Salary:       input.Salary,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		_, err := s.defaults.provision(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, translateWriteError(err)
	}

	return user, nil
}

// Authenticate checks a username and password pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *userService) Authenticate(username, password string) (*models.User, error) {
	username = normalize.Apply(normalize.RoleOf(normalize.Username), username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	return findUser(s.db, id)
}

// UpdateUser applies a partial update to a user. Only provided fields change.
func (s *userService) UpdateUser(id string, p UserPatch) (*models.User, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = findUser(tx, id); err != nil {
			return err
		}

		patch.Assign(&user.Username, p.Username)
		patch.Assign(&user.Email, p.Email)
		patch.AssignNullable(&user.Salary, p.Salary)
		if password, ok := p.Password.Get(); ok {
			if user.PasswordHash, err = hashPassword(password); err != nil {
				return err
			}
		}

		return tx.Save(user).Error
	})
	if err != nil {
		return nil, translateWriteError(err)
	}
	return user, nil
}

// DeleteUser permanently removes a user and everything it owns.
func (s *userService) DeleteUser(id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findUser(tx, id); err != nil {
			return err
		}
		return deleteUserCascade(tx, id)
	})
	return translateWriteError(err)
}

func findUser(tx *gorm.DB, id string) (*models.User, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrUserNotFound
	}
	var user models.User
	if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "password is too long")
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return string(hash), nil
}
