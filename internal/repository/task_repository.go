package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/meladattef/task-manager/internal/model"
)

// TaskRepo owns the tasks table. Every query is scoped to an owner id;
// there is no code path that reads or writes a task without one.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

// TaskQuery defines filter, sort and pagination for listing tasks.
// Completed is nil when the list is unfiltered. Limit<=0 means no limit
// and Skip<=0 means no offset, which is also what the handler produces
// for absent or non-numeric query parameters.
type TaskQuery struct {
	Completed *bool
	SortBy    string // createdAt | updatedAt | description | completed
	Desc      bool
	Limit     int
	Skip      int
}

// TaskUpdate carries the fields of a partial task update; nil pointers
// leave the column untouched.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// sortColumns whitelists the sortable fields, mapping the query-string
// names onto columns. Anything else falls back to insertion order.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// Create inserts a task for the owner and returns the stored row.
func (r *TaskRepo) Create(ctx context.Context, ownerID uint64, description string, completed bool) (model.Task, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (description, completed, user_id) VALUES (?,?,?)",
		description, completed, ownerID)
	if err != nil {
		return model.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return r.GetByIDAndOwner(ctx, uint64(id), ownerID)
}

// buildListQuery renders the SELECT for ListByOwner. Split out so the
// clause logic (sort whitelist, the OFFSET-without-LIMIT workaround) can
// be tested without a database.
func buildListQuery(ownerID uint64, q TaskQuery) (string, []any) {
	sqlStr := "SELECT id,description,completed,user_id,created_at,updated_at FROM tasks WHERE user_id=?"
	args := []any{ownerID}

	if q.Completed != nil {
		sqlStr += " AND completed=?"
		args = append(args, *q.Completed)
	}

	order := "id"
	if col, ok := sortColumns[q.SortBy]; ok {
		order = col
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	sqlStr += " ORDER BY " + order + " " + dir

	switch {
	case q.Limit > 0:
		sqlStr += " LIMIT ?"
		args = append(args, q.Limit)
		if q.Skip > 0 {
			sqlStr += " OFFSET ?"
			args = append(args, q.Skip)
		}
	case q.Skip > 0:
		// MySQL has no OFFSET without LIMIT; the documented idiom is an
		// effectively unbounded limit.
		sqlStr += " LIMIT 18446744073709551615 OFFSET ?"
		args = append(args, q.Skip)
	}
	return sqlStr, args
}

// ListByOwner returns the owner's tasks, optionally filtered by
// completion, sorted and paginated. Tasks of other users can never
// appear in the result because the owner predicate is part of the query.
func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID uint64, q TaskQuery) ([]model.Task, error) {
	sqlStr, args := buildListQuery(ownerID, q)
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOwner fetches one task scoped to its owner. A missing id and
// a foreign owner both come back as ErrTaskNotFound.
func (r *TaskRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Task, error) {
	var t model.Task
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,description,completed,user_id,created_at,updated_at FROM tasks WHERE id=? AND user_id=? LIMIT 1",
		id, ownerID).
		Scan(&t.ID, &t.Description, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Task{}, ErrTaskNotFound
	}
	return t, err
}

// Update applies a partial update after verifying ownership, then
// returns the stored row.
func (r *TaskRepo) Update(ctx context.Context, id, ownerID uint64, upd TaskUpdate) (model.Task, error) {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return model.Task{}, err
	}
	set := []string{}
	args := []any{}
	if upd.Description != nil {
		set = append(set, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.Completed != nil {
		set = append(set, "completed=?")
		args = append(args, *upd.Completed)
	}
	if len(set) == 0 {
		return r.GetByIDAndOwner(ctx, id, ownerID)
	}
	args = append(args, id, ownerID)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(set, ", ")+" WHERE id=? AND user_id=?", args...); err != nil {
		return model.Task{}, err
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// DeleteByIDAndOwner removes the task and returns what was deleted, so
// the handler can echo it back the way the API always has.
func (r *TaskRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (model.Task, error) {
	t, err := r.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return model.Task{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM tasks WHERE id=? AND user_id=?", id, ownerID)
	if err != nil {
		return model.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Task{}, ErrTaskNotFound
	}
	return t, nil
}
