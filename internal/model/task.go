package model

import "time"

// Task mirrors the 'tasks' table. A task belongs to exactly one user
// and the owner never changes after creation; every repository query
// filters on UserID so one user's tasks are invisible to everyone else.
type Task struct {
	ID          uint64    // tasks.id
	Description string    // tasks.description
	Completed   bool      // tasks.completed
	UserID      uint64    // tasks.user_id (owner, immutable)
	CreatedAt   time.Time // tasks.created_at
	UpdatedAt   time.Time // tasks.updated_at
}
