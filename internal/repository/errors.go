// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors. ErrTaskNotFound deliberately covers both a
// task that does not exist and a task owned by another user, so the
// handlers can never leak whether a foreign task exists.
package repository

import "errors"

// ErrEmailExists is returned when creating or updating a user would
// violate the unique index on users.email. Handlers translate this
// into an HTTP 400 response.
var ErrEmailExists = errors.New("email is in use")

// ErrUserNotFound is returned when no user matches the given id or email.
var ErrUserNotFound = errors.New("user not found")

// ErrTaskNotFound is returned when a task lookup scoped to an owner
// matches nothing, whether the id is unknown or the task belongs to
// someone else.
var ErrTaskNotFound = errors.New("task not found")

// ErrNoAvatar is returned when reading or clearing an avatar for a user
// that has none set.
var ErrNoAvatar = errors.New("no avatar set")
