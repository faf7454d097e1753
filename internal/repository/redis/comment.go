package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/threadboard/comments/domain"
	"github.com/threadboard/comments/internal/repository/cache"
)

const (
	KeyTopLevelComments = "comments:toplevel"

	// a physical TTL well past the logical one keeps stale data servable
	// while a rebuild is in flight, but never forever
	physicalTTLFactor = 10
)

type commentCache struct {
	client *redis.Client
}

var _ domain.CommentCache = (*commentCache)(nil)

func NewCommentCache(client *redis.Client) *commentCache {
	return &commentCache{
		client,
	}
}

// GetTopLevel returns the cached first page and whether it is logically
// expired. A miss is domain.ErrCacheMiss.
func (c *commentCache) GetTopLevel(ctx context.Context) ([]*domain.Comment, bool, error) {
	data, err := c.client.Get(ctx, KeyTopLevelComments).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, domain.ErrCacheMiss
	} else if err != nil {
		return nil, false, err
	}

	var envelope cache.Envelope[[]*domain.Comment]
	if err = json.Unmarshal(data, &envelope); err != nil {
		return nil, false, err
	}
	return envelope.Data, envelope.IsLogicalExpired(), nil
}

func (c *commentCache) SetTopLevel(ctx context.Context, comments []*domain.Comment, ttl time.Duration) error {
	envelope := cache.NewEnvelope(comments, ttl)
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyTopLevelComments, data, physicalTTLFactor*ttl).Err()
}

func (c *commentCache) DeleteTopLevel(ctx context.Context) error {
	return c.client.Del(ctx, KeyTopLevelComments).Err()
}
