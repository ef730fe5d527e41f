package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/models"
)

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByIdentity reports whether a user already holds the given username or email.
func (r *UserRepository) ExistsByIdentity(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// TouchLastLogin records a successful login without rewriting the whole row.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Delete removes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// UserFilter narrows user listings.
type UserFilter struct {
	Search string // matched against username and email, case-insensitive
	Active *bool
	Page   int
	Limit  int
}

// List retrieves users matching the filter, newest first, with the total count.
func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]*models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := applyPage(q.Order("created_at DESC"), f.Page, f.Limit, 10).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
