package models

import "time"

// Category represents a top-level content category
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string    `gorm:"type:varchar(60);not null;uniqueIndex:cms_categories_name_ux;column:name" json:"name"`
	Slug        string    `gorm:"type:varchar(80);not null;uniqueIndex:cms_categories_slug_ux;column:slug" json:"slug"`
	Description string    `gorm:"type:varchar(500);not null;default:'';column:description" json:"description"`
	Icon        string    `gorm:"type:varchar(60);not null;default:'';column:icon" json:"icon"`
	Color       string    `gorm:"type:varchar(20);not null;default:'';column:color" json:"color"`
	SortOrder   int       `gorm:"not null;default:0;column:sort_order" json:"order"`
	IsActive    bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "cms_categories"
}

// SubCategory represents a second-level category scoped to a parent.
// The slug is unique only within its parent category, so identical
// subcategory names under different parents are allowed.
type SubCategory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string    `gorm:"type:varchar(60);not null;column:name" json:"name"`
	Slug        string    `gorm:"type:varchar(80);not null;uniqueIndex:cms_subcategories_cat_slug_ux;column:slug" json:"slug"`
	Description string    `gorm:"type:varchar(500);not null;default:'';column:description" json:"description"`
	CategoryID  int64     `gorm:"not null;uniqueIndex:cms_subcategories_cat_slug_ux;index;column:category_id" json:"categoryId"`
	SortOrder   int       `gorm:"not null;default:0;column:sort_order" json:"order"`
	IsActive    bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
}

// TableName specifies the table name for SubCategory
func (SubCategory) TableName() string {
	return "cms_subcategories"
}
