package response

import "github.com/threadboard/comments/domain"

type Comment struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	ParentID  string `json:"parent_id,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	// Author 评论作者信息
	Author *User `json:"author,omitempty"`
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) *Comment {
	if c == nil {
		return nil
	}
	return &Comment{
		ID:        c.ID,
		Content:   c.Content,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt.Format(DateTimeFormat),
		UpdatedAt: c.UpdatedAt.Format(DateTimeFormat),
		Author:    NewUserFromDomain(c.Author),
	}
}

func NewCommentListFromDomain(comments []*domain.Comment) []*Comment {
	res := make([]*Comment, 0, len(comments))
	for _, c := range comments {
		res = append(res, NewCommentFromDomain(c))
	}
	return res
}
