package handler // handler defines http handlers

import (
	"context"
	"time"

	"github.com/meladattef/task-manager/internal/model"
	"github.com/meladattef/task-manager/internal/repository"
)

// The handlers depend on narrow store interfaces rather than the concrete
// *sql.DB repositories so they can be exercised in tests with in-memory
// fakes. The repository types satisfy all of them.

// UserStore is the credential store: account records, password hashing
// behind Create/Update, avatar bytes and the cascading delete.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, age int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Update(ctx context.Context, id uint64, upd repository.UserUpdate) (model.User, error)
	Delete(ctx context.Context, id uint64) error
	SetAvatar(ctx context.Context, id uint64, pngBytes []byte) error
	ClearAvatar(ctx context.Context, id uint64) error
	GetAvatar(ctx context.Context, id uint64) ([]byte, error)
}

// TokenStore manages the per-user token list backing revocation.
type TokenStore interface {
	Add(ctx context.Context, userID uint64, token string) error
	Remove(ctx context.Context, userID uint64, token string) error
	RemoveAll(ctx context.Context, userID uint64) error
}

// TaskStore owns task records; every operation is scoped to an owner id.
type TaskStore interface {
	Create(ctx context.Context, ownerID uint64, description string, completed bool) (model.Task, error)
	ListByOwner(ctx context.Context, ownerID uint64, q repository.TaskQuery) ([]model.Task, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Task, error)
	Update(ctx context.Context, id, ownerID uint64, upd repository.TaskUpdate) (model.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Task, error)
}

// Mailer is the one-way mail collaborator. Failures are the caller's to
// ignore; an email that cannot be queued never fails the request.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendCancellation(ctx context.Context, email, name string) error
}

// publicUser is the serialization used for every response containing a
// user. It strips the password hash, the token list and the avatar blob
// regardless of who is asking.
type publicUser struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPublicUser(u model.User) publicUser {
	return publicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// taskResp is the serialization for task responses.
type taskResp struct {
	ID          uint64    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Owner       uint64    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskResp(t model.Task) taskResp {
	return taskResp{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Owner:       t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second
