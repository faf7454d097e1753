package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/threadboard/comments/domain"
	"github.com/threadboard/comments/internal/repository"
	"github.com/threadboard/comments/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	err := c.DB.WithContext(ctx).Create(model.NewCommentFromDomain(comment)).Error
	if err != nil {
		return err
	}
	return nil
}

func (c *commentRepository) FetchTopLevel(ctx context.Context, cursor string, limit int64) ([]*domain.Comment, error) {
	repository.PageVerify(&limit)

	query := c.DB.WithContext(ctx).
		Where("parent_id IS NULL AND deleted = ?", false)

	if cursor != "" {
		decodedCursor, err := repository.DecodeCursor(cursor)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		query = query.Where("created_at < ?", decodedCursor)
	}

	var comments []model.Comment
	err := query.
		Order("created_at DESC").
		Limit(int(limit)).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	res := make([]*domain.Comment, 0, len(comments))
	for _, comment := range comments {
		domainComment := comment.ToDomain()
		res = append(res, &domainComment)
	}
	return res, nil
}

func (c *commentRepository) FetchReplies(ctx context.Context, parentID string) ([]*domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Where("parent_id = ? AND deleted = ?", parentID, false).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	// a parent without replies is an empty list, not an error
	res := make([]*domain.Comment, 0, len(comments))
	for _, comment := range comments {
		domainComment := comment.ToDomain()
		res = append(res, &domainComment)
	}
	return res, nil
}

func (c *commentRepository) FindOwned(ctx context.Context, id, authorID string, state domain.CommentState) (*domain.Comment, error) {
	query := c.DB.WithContext(ctx).
		Where("id = ? AND author_id = ? AND deleted = ?", id, authorID, state.Deleted)
	if state.RequireRestorable {
		query = query.Where("restorable = ?", true)
	}

	var comment model.Comment
	if err := query.First(&comment).Error; err != nil {
		// absent, not owned and wrong state are indistinguishable on purpose
		return nil, domain.ErrNotFound
	}
	domainComment := comment.ToDomain()
	return &domainComment, nil
}

// UpdateContent is a single conditional UPDATE so the ownership/state check
// and the write cannot be interleaved by a concurrent delete.
func (c *commentRepository) UpdateContent(ctx context.Context, id, authorID, content string, now time.Time) error {
	result := c.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND author_id = ? AND deleted = ?", id, authorID, false).
		UpdateColumns(map[string]any{
			"content":    content,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkDeleted tombstones the comment; restorable is left untouched so the
// restoration clock starts from this updated_at bump.
func (c *commentRepository) MarkDeleted(ctx context.Context, id, authorID string, now time.Time) error {
	result := c.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND author_id = ? AND deleted = ?", id, authorID, false).
		UpdateColumns(map[string]any{
			"deleted":    true,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkRestored keeps the restoration-window check inside the conditional
// UPDATE: updated_at is the deletion timestamp and must not predate notBefore.
// Of two concurrent restores exactly one sees RowsAffected == 1.
func (c *commentRepository) MarkRestored(ctx context.Context, id, authorID string, now, notBefore time.Time) error {
	result := c.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND author_id = ? AND deleted = ? AND restorable = ? AND updated_at >= ?",
			id, authorID, true, true, notBefore).
		UpdateColumns(map[string]any{
			"deleted":    false,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error) {
	var ids []string
	err := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Select("id").
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Find(&ids).Error
	return ids, err
}
