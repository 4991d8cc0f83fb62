package handler

import (
	"context"
	"sort"
	"time"

	"github.com/meladattef/task-manager/internal/model"
	"github.com/meladattef/task-manager/internal/repository"
	"github.com/meladattef/task-manager/internal/utils"
)

// fakeStore is an in-memory stand-in for the repositories and the mailer.
// It mirrors their contracts closely enough for handler tests: sentinel
// errors, email uniqueness, cascade on delete and real bcrypt hashes at
// the minimum cost so verification works.
type fakeStore struct {
	nextUserID uint64
	nextTaskID uint64
	users      map[uint64]model.User
	tokens     map[uint64][]string
	tasks      map[uint64]model.Task
	welcomed   []string
	cancelled  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[uint64]model.User{},
		tokens: map[uint64][]string{},
		tasks:  map[uint64]model.Task{},
	}
}

const fakeBcryptCost = 4

// ----- UserStore -----

func (f *fakeStore) Create(_ context.Context, name, email, password string, age int) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, fakeBcryptCost)
	if err != nil {
		return model.User{}, err
	}
	f.nextUserID++
	now := time.Now().UTC()
	u := model.User{ID: f.nextUserID, Name: name, Email: email, PasswordHash: hash, Age: age, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = utils.NormalizeEmail(email)
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) Update(_ context.Context, id uint64, upd repository.UserUpdate) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	if upd.Email != nil {
		for _, other := range f.users {
			if other.ID != id && other.Email == *upd.Email {
				return model.User{}, repository.ErrEmailExists
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Password != nil {
		hash, err := utils.HashPassword(*upd.Password, fakeBcryptCost)
		if err != nil {
			return model.User{}, err
		}
		u.PasswordHash = hash
	}
	if upd.Age != nil {
		u.Age = *upd.Age
	}
	u.UpdatedAt = time.Now().UTC()
	f.users[id] = u
	return u, nil
}

func (f *fakeStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	delete(f.tokens, id)
	for tid, t := range f.tasks {
		if t.UserID == id {
			delete(f.tasks, tid)
		}
	}
	return nil
}

func (f *fakeStore) SetAvatar(_ context.Context, id uint64, pngBytes []byte) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Avatar = pngBytes
	f.users[id] = u
	return nil
}

func (f *fakeStore) ClearAvatar(_ context.Context, id uint64) error {
	u, ok := f.users[id]
	if !ok || len(u.Avatar) == 0 {
		return repository.ErrNoAvatar
	}
	u.Avatar = nil
	f.users[id] = u
	return nil
}

func (f *fakeStore) GetAvatar(_ context.Context, id uint64) ([]byte, error) {
	u, ok := f.users[id]
	if !ok || len(u.Avatar) == 0 {
		return nil, repository.ErrNoAvatar
	}
	return u.Avatar, nil
}

// ----- TokenStore -----

func (f *fakeStore) Add(_ context.Context, userID uint64, token string) error {
	f.tokens[userID] = append(f.tokens[userID], token)
	return nil
}

func (f *fakeStore) Remove(_ context.Context, userID uint64, token string) error {
	list := f.tokens[userID]
	for i, t := range list {
		if t == token {
			f.tokens[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) RemoveAll(_ context.Context, userID uint64) error {
	f.tokens[userID] = nil
	return nil
}

func (f *fakeStore) Exists(_ context.Context, userID uint64, token string) (bool, error) {
	for _, t := range f.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

// ----- TaskStore -----

func (f *fakeStore) CreateTask(_ context.Context, ownerID uint64, description string, completed bool) (model.Task, error) {
	f.nextTaskID++
	now := time.Now().UTC()
	t := model.Task{ID: f.nextTaskID, Description: description, Completed: completed, UserID: ownerID, CreatedAt: now, UpdatedAt: now}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeStore) ListByOwner(_ context.Context, ownerID uint64, q repository.TaskQuery) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range f.tasks {
		if t.UserID != ownerID {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Desc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	if q.Skip > 0 {
		if q.Skip >= len(out) {
			out = nil
		} else {
			out = out[q.Skip:]
		}
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeStore) GetByIDAndOwner(_ context.Context, id, ownerID uint64) (model.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return model.Task{}, repository.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, id, ownerID uint64, upd repository.TaskUpdate) (model.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return model.Task{}, repository.ErrTaskNotFound
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	f.tasks[id] = t
	return t, nil
}

func (f *fakeStore) DeleteByIDAndOwner(_ context.Context, id, ownerID uint64) (model.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != ownerID {
		return model.Task{}, repository.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return t, nil
}

// fakeTaskStore adapts fakeStore to the TaskStore interface. The Create
// and Update names collide with UserStore's methods, so the task variants
// live behind this thin wrapper.
type fakeTaskStore struct{ *fakeStore }

func (f fakeTaskStore) Create(ctx context.Context, ownerID uint64, description string, completed bool) (model.Task, error) {
	return f.CreateTask(ctx, ownerID, description, completed)
}

func (f fakeTaskStore) Update(ctx context.Context, id, ownerID uint64, upd repository.TaskUpdate) (model.Task, error) {
	return f.UpdateTask(ctx, id, ownerID, upd)
}

// ----- Mailer -----

func (f *fakeStore) SendWelcome(_ context.Context, email, _ string) error {
	f.welcomed = append(f.welcomed, email)
	return nil
}

func (f *fakeStore) SendCancellation(_ context.Context, email, _ string) error {
	f.cancelled = append(f.cancelled, email)
	return nil
}
