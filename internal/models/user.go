package models

import (
	"database/sql"
	"time"
)

// User represents a registered account
type User struct {
	ID           int64        `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string       `gorm:"type:varchar(30);not null;uniqueIndex:cms_users_username_ux;column:username" json:"username"`
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex:cms_users_email_ux;column:email" json:"email"`
	PasswordHash string       `gorm:"type:varchar(100);not null;column:password_hash" json:"-"`
	Role         string       `gorm:"type:varchar(10);not null;default:'user';column:role" json:"role"`
	Avatar       string       `gorm:"type:varchar(1024);not null;default:'';column:avatar" json:"avatar"`
	Bio          string       `gorm:"type:varchar(500);not null;default:'';column:bio" json:"bio"`
	IsActive     bool         `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt  sql.NullTime `gorm:"column:last_login_at" json:"-"`
	CreatedAt    time.Time    `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null;column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "cms_users"
}

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether r is a recognized role value.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
