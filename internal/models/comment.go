package models

import (
	"database/sql"
	"time"
)

// Comment represents a reader comment on a post. Threading is one level
// deep: a comment either has no parent (a root comment) or references a
// root comment via ParentID. Replies are resolved at query time from
// ParentID; no reply list is maintained on the parent row.
type Comment struct {
	ID           int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Content      string        `gorm:"type:text;not null;column:content" json:"content"`
	AuthorID     int64         `gorm:"not null;index;column:author_id" json:"authorId"`
	PostID       int64         `gorm:"not null;index:cms_comments_post_ix;column:post_id" json:"postId"`
	ParentID     sql.NullInt64 `gorm:"index;column:parent_id" json:"-"`
	Status       string        `gorm:"type:varchar(10);not null;default:'pending';index:cms_comments_status_ix;column:status" json:"status"`
	ApprovedAt   sql.NullTime  `gorm:"column:approved_at" json:"-"`
	ApprovedByID sql.NullInt64 `gorm:"column:approved_by_id" json:"-"`
	CreatedAt    time.Time     `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"not null;column:updated_at" json:"updatedAt"`

	// Relationships
	Author  *User     `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Post    *Post     `gorm:"foreignKey:PostID;references:ID" json:"post,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID;references:ID" json:"replies,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "cms_comments"
}

// Moderation status constants
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

// ValidCommentStatus reports whether s is a recognized moderation status.
func ValidCommentStatus(s string) bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a comment may move from one moderation
// status to another. Pending comments may be approved or rejected, an
// admin may flip a decided comment between approved and rejected, and
// re-asserting the current decision is an idempotent overwrite; nothing
// ever returns to pending.
func CanTransition(from, to string) bool {
	if !ValidCommentStatus(from) || !ValidCommentStatus(to) {
		return false
	}
	return to != CommentStatusPending
}

// IsRoot reports whether the comment has no parent.
func (c *Comment) IsRoot() bool {
	return !c.ParentID.Valid
}
