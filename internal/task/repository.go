package task

import "context"

// Repository persists the ordered task list as a whole.
type Repository interface {
	// LoadAll returns every persisted task in stored order. A missing store
	// loads as empty.
	LoadAll(ctx context.Context) ([]*Task, error)
	// Append adds one task to the end of the store without rewriting the
	// records before it.
	Append(ctx context.Context, t *Task) error
	// RewriteAll replaces the store with tasks, in order.
	RewriteAll(ctx context.Context, tasks []*Task) error
}
