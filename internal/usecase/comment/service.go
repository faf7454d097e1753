package comment

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/threadboard/comments/domain"
	"github.com/threadboard/comments/internal/repository"
)

const bloomSeedBatch = 1000

// Service is the comment lifecycle engine: the single authority for the
// time-windowed and ownership rules. The clock is injected so every window
// decision is deterministic under test.
type Service struct {
	commentRepo    domain.CommentRepository
	bloomRepo      domain.BloomRepository
	activityWorker domain.ActivityWorker
	now            func() time.Time
}

var _ domain.CommentUsecase = (*Service)(nil)

// NewService will create a new comment service object
func NewService(commentRepo domain.CommentRepository, bloomRepo domain.BloomRepository, activityWorker domain.ActivityWorker) *Service {
	return &Service{
		commentRepo:    commentRepo,
		bloomRepo:      bloomRepo,
		activityWorker: activityWorker,
		now:            time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) mustExists(ctx context.Context, id string) error {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says comment %s does not exist", id)
		return domain.ErrNotFound
	}

	return nil
}

func (s *Service) FetchTopLevel(ctx context.Context, cursor string, num int64) ([]*domain.Comment, string, error) {
	res, err := s.commentRepo.FetchTopLevel(ctx, cursor, num)
	if err != nil {
		return []*domain.Comment{}, "", err
	}
	if len(res) == 0 {
		return []*domain.Comment{}, "", nil
	}

	return res, repository.EncodeCursor(res[len(res)-1].CreatedAt), nil
}

// FetchReplies lists the live replies of a parent. An unknown parent is
// indistinguishable from one without replies: both read as an empty list.
func (s *Service) FetchReplies(ctx context.Context, parentID string) ([]*domain.Comment, error) {
	return s.commentRepo.FetchReplies(ctx, parentID)
}

func (s *Service) Create(ctx context.Context, c *domain.Comment) error {
	if strings.TrimSpace(c.Content) == "" {
		return domain.ErrBadParamInput
	}
	if c.IsReply() {
		if err := s.mustExists(ctx, c.ParentID); err != nil {
			return err
		}
	}

	now := s.now()
	c.Deleted = false
	c.Restorable = true
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.commentRepo.Store(ctx, c); err != nil {
		return err
	}

	if err := s.bloomRepo.Add(ctx, c.ID); err != nil {
		logrus.Warnf("failed to add comment %s to bloom filter: %v", c.ID, err)
	}
	s.activityWorker.Send(c.AuthorID)
	return nil
}

// Edit replaces the content of an owned, live comment. The window is
// measured from CreatedAt and never resets: exactly EditWindow still
// passes, a moment later fails.
func (s *Service) Edit(ctx context.Context, id, actorID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrBadParamInput
	}

	c, err := s.commentRepo.FindOwned(ctx, id, actorID, domain.StateActive)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Sub(c.CreatedAt) > domain.EditWindow {
		return nil, domain.ErrWindowExpired
	}

	// the conditional update re-checks owner and state; a concurrent
	// delete makes this the losing side and it observes ErrNotFound
	if err := s.commentRepo.UpdateContent(ctx, id, actorID, content, now); err != nil {
		return nil, err
	}

	c.Content = content
	c.UpdatedAt = now
	s.activityWorker.Send(actorID)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	if _, err := s.commentRepo.FindOwned(ctx, id, actorID, domain.StateActive); err != nil {
		return err
	}

	if err := s.commentRepo.MarkDeleted(ctx, id, actorID, s.now()); err != nil {
		return err
	}
	s.activityWorker.Send(actorID)
	return nil
}

// Restore reverses a tombstone. The window is measured from UpdatedAt,
// which the delete bumped, so it is the time since deletion.
func (s *Service) Restore(ctx context.Context, id, actorID string) (*domain.Comment, error) {
	c, err := s.commentRepo.FindOwned(ctx, id, actorID, domain.StateTombstoned)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Sub(c.UpdatedAt) > domain.RestoreWindow {
		return nil, domain.ErrWindowExpired
	}

	// notBefore keeps the window check inside the atomic update, so of two
	// concurrent restores exactly one wins
	if err := s.commentRepo.MarkRestored(ctx, id, actorID, now, now.Add(-domain.RestoreWindow)); err != nil {
		return nil, err
	}

	c.Deleted = false
	c.UpdatedAt = now
	s.activityWorker.Send(actorID)
	return c, nil
}

// InitBloomFilter seeds the filter with every stored comment id.
func (s *Service) InitBloomFilter(ctx context.Context) error {
	cursor := ""
	for {
		ids, err := s.commentRepo.FetchIDs(ctx, cursor, bloomSeedBatch)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		cursor = ids[len(ids)-1]
	}
}
