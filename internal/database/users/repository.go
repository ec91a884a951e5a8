// Package users provides database operations for user rows.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByUsername("chef1")
package users

import (
	"gorm.io/gorm"

	"github.com/recipegram-app/recipegram/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user row. The password must already be hashed;
// profileImage is a stable media path or empty for no image.
func (r *Repository) CreateUser(username, passwordHash, profileImage string) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
		ProfileImage: profileImage,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetByUsername retrieves a user by username, matching case-insensitively.
// Returns gorm.ErrRecordNotFound when no user matches.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user. The foreign-key cascade deletes all recipes the
// user authored, and transitively their ingredients, steps and step photos.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.User{}, id).Error
}

// Count returns the number of registered users.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
