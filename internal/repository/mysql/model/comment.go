package model

import (
	"time"

	"github.com/threadboard/comments/domain"
)

type Comment struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	Content    string    `gorm:"type:text;not null"`
	AuthorID   string    `gorm:"column:author_id;type:char(36);not null"`
	ParentID   *string   `gorm:"column:parent_id;type:char(36)"`
	Deleted    bool      `gorm:"not null;default:false"`
	Restorable bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"type:timestamp(6)"`
	UpdatedAt  time.Time `gorm:"type:timestamp(6)"`
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	var parentID *string
	if c.ParentID != "" {
		pid := c.ParentID
		parentID = &pid
	}
	return &Comment{
		ID:         c.ID,
		Content:    c.Content,
		AuthorID:   c.AuthorID,
		ParentID:   parentID,
		Deleted:    c.Deleted,
		Restorable: c.Restorable,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	var parentID string
	if m.ParentID != nil {
		parentID = *m.ParentID
	}
	return domain.Comment{
		ID:         m.ID,
		Content:    m.Content,
		AuthorID:   m.AuthorID,
		ParentID:   parentID,
		Deleted:    m.Deleted,
		Restorable: m.Restorable,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
