package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/threadboard/comments/domain"
)

const topLevelCacheTTL = 30 * time.Second

// commentRepository 协调层，协调缓存和数据库
type commentRepository struct {
	db           domain.CommentRepository
	cache        domain.CommentCache
	userRepo     domain.UserRepository
	rebuildGroup singleflight.Group
}

var _ domain.CommentRepository = (*commentRepository)(nil)

// NewCommentRepository 创建协调层repository
func NewCommentRepository(db domain.CommentRepository, cache domain.CommentCache, userRepo domain.UserRepository) *commentRepository {
	return &commentRepository{
		db:       db,
		cache:    cache,
		userRepo: userRepo,
	}
}

// FetchTopLevel serves the first page from cache when possible. An expired
// entry is still served while a singleflight rebuild refreshes it. The
// cached page is always DefaultLimit long; other page sizes go to the db
// so a caller never gets more or fewer rows than requested.
func (r *commentRepository) FetchTopLevel(ctx context.Context, cursor string, limit int64) ([]*domain.Comment, error) {
	cacheable := cursor == "" && limit == DefaultLimit
	if cacheable {
		comments, expired, err := r.cache.GetTopLevel(ctx)
		if err == nil {
			if expired {
				go r.rebuildTopLevelCache(context.Background())
			}
			return comments, nil
		}
	}

	comments, err := r.db.FetchTopLevel(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	comments, err = r.fillAuthorDetails(ctx, comments)
	if err != nil {
		return nil, err
	}

	if cacheable {
		go func(data []*domain.Comment) {
			_ = r.cache.SetTopLevel(context.Background(), data, topLevelCacheTTL)
		}(comments)
	}

	return comments, nil
}

func (r *commentRepository) FetchReplies(ctx context.Context, parentID string) ([]*domain.Comment, error) {
	// replies are read on demand and never cached
	comments, err := r.db.FetchReplies(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return r.fillAuthorDetails(ctx, comments)
}

func (r *commentRepository) Store(ctx context.Context, c *domain.Comment) error {
	if err := r.db.Store(ctx, c); err != nil {
		return err
	}
	r.invalidateTopLevel(c.IsReply())
	return nil
}

func (r *commentRepository) FindOwned(ctx context.Context, id, authorID string, state domain.CommentState) (*domain.Comment, error) {
	return r.db.FindOwned(ctx, id, authorID, state)
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, authorID, content string, now time.Time) error {
	if err := r.db.UpdateContent(ctx, id, authorID, content, now); err != nil {
		return err
	}
	// the edited comment may sit on the cached first page
	r.invalidateTopLevel(false)
	return nil
}

func (r *commentRepository) MarkDeleted(ctx context.Context, id, authorID string, now time.Time) error {
	if err := r.db.MarkDeleted(ctx, id, authorID, now); err != nil {
		return err
	}
	r.invalidateTopLevel(false)
	return nil
}

func (r *commentRepository) MarkRestored(ctx context.Context, id, authorID string, now, notBefore time.Time) error {
	if err := r.db.MarkRestored(ctx, id, authorID, now, notBefore); err != nil {
		return err
	}
	r.invalidateTopLevel(false)
	return nil
}

func (r *commentRepository) FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

// invalidateTopLevel drops the cached first page. Mutations of replies
// never show up there, so those skip the round trip.
func (r *commentRepository) invalidateTopLevel(isReply bool) {
	if isReply {
		return
	}
	go func() {
		if err := r.cache.DeleteTopLevel(context.Background()); err != nil {
			logrus.Warnf("failed to invalidate top-level comment cache: %v", err)
		}
	}()
}

// rebuildTopLevelCache 异步重建首页缓存
func (r *commentRepository) rebuildTopLevelCache(ctx context.Context) {
	_, err, _ := r.rebuildGroup.Do("toplevel", func() (any, error) {
		comments, err := r.db.FetchTopLevel(ctx, "", DefaultLimit)
		if err != nil {
			logrus.Errorf("failed to rebuild top-level cache from db: %v", err)
			return nil, err
		}

		comments, err = r.fillAuthorDetails(ctx, comments)
		if err != nil {
			logrus.Errorf("failed to fill author details: %v", err)
			return nil, err
		}

		err = r.cache.SetTopLevel(ctx, comments, topLevelCacheTTL)
		if err != nil {
			logrus.Errorf("failed to set top-level cache: %v", err)
			return nil, err
		}

		return nil, nil
	})

	if err != nil {
		logrus.Errorf("rebuildTopLevelCache failed: %v", err)
	}
}

// fillAuthorDetails 批量填充作者信息
func (r *commentRepository) fillAuthorDetails(ctx context.Context, comments []*domain.Comment) ([]*domain.Comment, error) {
	if len(comments) == 0 {
		return comments, nil
	}

	// 收集所有不重复的AuthorID
	authorIDs := make([]string, 0, len(comments))
	existMap := make(map[string]bool)
	for _, item := range comments {
		if !existMap[item.AuthorID] {
			authorIDs = append(authorIDs, item.AuthorID)
			existMap[item.AuthorID] = true
		}
	}

	// 批量查询用户
	users, err := r.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	// 转成Map方便查找
	userMap := make(map[string]domain.User)
	for _, u := range users {
		userMap[u.ID] = u
	}

	// 填充回Comment
	for _, c := range comments {
		if u, ok := userMap[c.AuthorID]; ok {
			author := u
			c.Author = &author
		}
	}

	return comments, nil
}
