package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/meladattef/task-manager/internal/model"
	"github.com/meladattef/task-manager/internal/utils"
)

// UserRepo owns the users table: account creation, lookups, partial
// updates, avatar bytes and the cascading account delete. Password
// hashing happens here, at the storage boundary, so no caller can
// persist a plaintext password by accident.
type UserRepo struct {
	DB   *sql.DB
	Cost int // bcrypt cost applied to every hash
}

func NewUserRepo(db *sql.DB, cost int) *UserRepo { return &UserRepo{DB: db, Cost: cost} }

// UserUpdate carries the fields of a partial profile update. A nil
// pointer means the field was absent from the request and must not be
// touched; in particular the password is rehashed only when Password
// is non-nil.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// Create hashes the password and inserts the user. The email is stored
// exactly as validated (lowercased, trimmed); a duplicate hits the
// unique index and comes back as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, age int) (model.User, error) {
	hash, err := utils.HashPassword(password, r.Cost)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, age) VALUES (?,?,?,?)",
		name, email, hash, age)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,age,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		utils.NormalizeEmail(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Age, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id. The avatar blob is not selected here;
// it is only ever read through GetAvatar.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,age,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Age, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// Update applies a partial update built from the already-validated
// fields. Only the columns whose pointers are set end up in the SET
// clause; the password is hashed here if and only if it was supplied.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) (model.User, error) {
	set := []string{}
	args := []any{}
	if upd.Name != nil {
		set = append(set, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		set = append(set, "email=?")
		args = append(args, *upd.Email)
	}
	if upd.Password != nil {
		hash, err := utils.HashPassword(*upd.Password, r.Cost)
		if err != nil {
			return model.User{}, err
		}
		set = append(set, "password_hash=?")
		args = append(args, hash)
	}
	if upd.Age != nil {
		set = append(set, "age=?")
		args = append(args, *upd.Age)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	// Zero affected rows is ambiguous in MySQL (missing row or unchanged
	// values), so existence is settled by the follow-up read.
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the user and everything it owns in one transaction.
// Tasks go first, then the token list, then the user row, so a crash
// mid-way can orphan at most a user without tasks, never tasks without
// a user.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return tx.Commit()
}

// SetAvatar stores the normalized PNG bytes for the user.
func (r *UserRepo) SetAvatar(ctx context.Context, id uint64, pngBytes []byte) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET avatar=? WHERE id=?", pngBytes, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ClearAvatar removes the avatar and fails with ErrNoAvatar when none
// was set, so the handler can answer 404 instead of a silent no-op.
func (r *UserRepo) ClearAvatar(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar=NULL WHERE id=? AND avatar IS NOT NULL", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoAvatar
	}
	return nil
}

// GetAvatar returns the stored PNG bytes. A missing user and a user
// without an avatar are both reported as ErrNoAvatar; the public
// endpoint answers 404 either way.
func (r *UserRepo) GetAvatar(ctx context.Context, id uint64) ([]byte, error) {
	var avatar []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT avatar FROM users WHERE id=? LIMIT 1", id).Scan(&avatar)
	if err == sql.ErrNoRows {
		return nil, ErrNoAvatar
	}
	if err != nil {
		return nil, err
	}
	if len(avatar) == 0 {
		return nil, ErrNoAvatar
	}
	return avatar, nil
}

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
