package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/threadboard/comments/domain"
)

const (
	flushInterval = 30 * time.Second
	batchSize     = 256
	flushTimeout  = 5 * time.Second
)

// syncActivityWorker batches "user did something" signals and writes
// users.last_activity_date off the request path.
type syncActivityWorker struct {
	UserRepo domain.UserRepository
	ch       chan string
}

var _ domain.ActivityWorker = (*syncActivityWorker)(nil)

func NewSyncActivityWorker(ur domain.UserRepository) *syncActivityWorker {
	return &syncActivityWorker{
		UserRepo: ur,
		ch:       make(chan string, 1024),
	}
}

// Send records activity for the given user. Never blocks the caller.
func (s *syncActivityWorker) Send(userID string) {
	select {
	case s.ch <- userID:
	default:
		logrus.Info("SyncActivityWorker's channel is full, signal dropped")
	}
}

func (s *syncActivityWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, batchSize)
	for {
		select {
		case userID := <-s.ch:
			batch = append(batch, userID)
			if len(batch) == batchSize {
				s.flush(ctx, batch)
				batch = make([]string, 0, batchSize)
			}
		case <-ticker.C:
			s.flush(ctx, batch)
			batch = make([]string, 0, batchSize)
		case <-ctx.Done():
			logrus.Info("shutting down SyncActivityWorker, flushing remaining signals...")
			// the parent context is already canceled at this point
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			s.flush(flushCtx, batch)
			cancel()
			return
		}
	}
}

func (s *syncActivityWorker) flush(ctx context.Context, batch []string) {
	if len(batch) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(batch))
	ids := make([]string, 0, len(batch))
	for _, id := range batch {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := s.UserRepo.TouchActivity(ctx, ids, time.Now()); err != nil {
		logrus.Errorf("failed to sync user activity: %v", err)
	}
}
