package domain

import (
	"context"
	"time"
)

const (
	// EditWindow is how long after creation a comment stays editable.
	// The boundary is inclusive: an edit at exactly EditWindow still passes.
	EditWindow = 15 * time.Minute

	// RestoreWindow is how long after deletion a tombstone can be reversed,
	// measured from UpdatedAt (which the delete bumps). Inclusive as well.
	RestoreWindow = 15 * time.Minute
)

// Comment domain model. A comment with empty ParentID is top-level,
// otherwise it is a reply to the referenced comment.
type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Deleted    bool      `json:"deleted"`
	Restorable bool      `json:"restorable"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Author 评论作者信息
	Author *User `json:"author,omitempty"`
}

// IsReply reports whether the comment references a parent.
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}

// CommentState is the state predicate FindOwned matches against,
// in addition to id and author.
type CommentState struct {
	Deleted bool
	// RequireRestorable additionally demands restorable = true.
	// Only meaningful together with Deleted = true.
	RequireRestorable bool
}

var (
	// StateActive matches a live comment (edit and delete preconditions).
	StateActive = CommentState{Deleted: false}
	// StateTombstoned matches a restorable tombstone (restore precondition).
	StateTombstoned = CommentState{Deleted: true, RequireRestorable: true}
)

// CommentUsecase 业务逻辑接口
type CommentUsecase interface {
	// FetchTopLevel returns live top-level comments, newest first,
	// with author summaries filled in.
	FetchTopLevel(ctx context.Context, cursor string, num int64) ([]*Comment, string, error)

	// FetchReplies returns the live direct replies of a comment, newest
	// first. A parent without replies, or an unknown parent, yields an
	// empty slice, not an error.
	FetchReplies(ctx context.Context, parentID string) ([]*Comment, error)

	// Create stores a new comment or reply for the given author.
	// Returns ErrBadParamInput when the content trims to nothing.
	Create(ctx context.Context, c *Comment) error

	// Edit replaces the content of a comment owned by actorID.
	// Returns ErrNotFound when the comment is absent, not owned or deleted,
	// and ErrWindowExpired once EditWindow has elapsed since creation.
	Edit(ctx context.Context, id, actorID, content string) (*Comment, error)

	// Delete tombstones a comment owned by actorID.
	Delete(ctx context.Context, id, actorID string) error

	// Restore reverses a tombstone owned by actorID.
	// Returns ErrNotFound when there is no restorable tombstone to reverse,
	// and ErrWindowExpired once RestoreWindow has elapsed since the deletion.
	Restore(ctx context.Context, id, actorID string) (*Comment, error)
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	Store(ctx context.Context, c *Comment) error

	// FetchTopLevel 获取一级评论
	FetchTopLevel(ctx context.Context, cursor string, limit int64) ([]*Comment, error)
	// FetchReplies 获取指定父评论的所有直接回复
	FetchReplies(ctx context.Context, parentID string) ([]*Comment, error)

	// FindOwned is the sole authorization primitive: it returns the comment
	// iff it exists, belongs to authorID and matches the state predicate.
	// Any miss is ErrNotFound; callers must not learn which check failed.
	FindOwned(ctx context.Context, id, authorID string, state CommentState) (*Comment, error)

	// UpdateContent conditionally replaces content where the comment is
	// still owned and live; zero affected rows is ErrNotFound.
	UpdateContent(ctx context.Context, id, authorID, content string, now time.Time) error

	// MarkDeleted conditionally tombstones a live owned comment.
	MarkDeleted(ctx context.Context, id, authorID string, now time.Time) error

	// MarkRestored conditionally revives a restorable tombstone whose
	// deletion timestamp is not older than notBefore, so the window check
	// rides inside the same atomic update.
	MarkRestored(ctx context.Context, id, authorID string, now, notBefore time.Time) error

	// FetchIDs pages over all comment ids, used to seed the bloom filter.
	FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error)
}

// CommentCache caches the first page of the top-level listing.
type CommentCache interface {
	GetTopLevel(ctx context.Context) ([]*Comment, bool, error)
	SetTopLevel(ctx context.Context, comments []*Comment, ttl time.Duration) error
	DeleteTopLevel(ctx context.Context) error
}
