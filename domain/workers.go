package domain

import "context"

// ActivityWorker batches "this user did something today" signals so handlers
// never pay for the users table write on the request path.
type ActivityWorker interface {
	Start(ctx context.Context)

	// Send records activity for the given user. Non-blocking; signals are
	// droppable, last_activity_date is best effort by design of the column.
	Send(userID string)
}
