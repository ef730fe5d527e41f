package models

import (
	"database/sql"
	"time"
)

// Post represents a published or draft article
type Post struct {
	ID            int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title         string        `gorm:"type:varchar(200);not null;column:title" json:"title"`
	Slug          string        `gorm:"type:varchar(220);not null;uniqueIndex:cms_posts_slug_ux;column:slug" json:"slug"`
	Content       string        `gorm:"type:text;not null;column:content" json:"content,omitempty"`
	Excerpt       string        `gorm:"type:varchar(300);not null;default:'';column:excerpt" json:"excerpt"`
	Thumbnail     string        `gorm:"type:varchar(1024);not null;column:thumbnail" json:"thumbnail"`
	Tags          string        `gorm:"type:varchar(500);not null;default:'';column:tags" json:"tags"`
	CategoryID    int64         `gorm:"not null;index:cms_posts_category_ix;column:category_id" json:"categoryId"`
	SubCategoryID sql.NullInt64 `gorm:"index;column:subcategory_id" json:"-"`
	AuthorID      int64         `gorm:"not null;index;column:author_id" json:"authorId"`
	Status        string        `gorm:"type:varchar(10);not null;default:'draft';index:cms_posts_status_ix;column:status" json:"status"`
	Featured      bool          `gorm:"not null;default:false;column:featured" json:"featured"`
	Views         int64         `gorm:"not null;default:0;column:views" json:"views"`
	Likes         int64         `gorm:"not null;default:0;column:likes" json:"likes"`
	PublishedAt   sql.NullTime  `gorm:"column:published_at" json:"-"`
	CreatedAt     time.Time     `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"not null;column:updated_at" json:"updatedAt"`

	// Relationships
	Category    *Category    `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	SubCategory *SubCategory `gorm:"foreignKey:SubCategoryID;references:ID" json:"subCategory,omitempty"`
	Author      *User        `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "cms_posts"
}

// Post status constants
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// ValidPostStatus reports whether s is a recognized post status.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}
