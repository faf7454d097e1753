package request

import "github.com/threadboard/comments/domain"

type CreateComment struct {
	Content  string `json:"content" binding:"required"`
	ParentID string `json:"parent_id"` // empty for a top-level comment
}

// ToDomain: Request -> Domain
func (r *CreateComment) ToDomain() domain.Comment {
	return domain.Comment{
		Content:  r.Content,
		ParentID: r.ParentID,
	}
}

type EditComment struct {
	Content string `json:"content" binding:"required"`
}
