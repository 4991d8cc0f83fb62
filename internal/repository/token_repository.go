package repository

import (
	"context"
	"database/sql"
)

// TokenRepo persists the per-user token list in the 'user_tokens' table.
// Auto-increment ids keep issue order (most recent last) and the row
// operations give the per-user serialization the login/logout paths need.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Add appends a freshly issued token to the user's list.
func (r *TokenRepo) Add(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_tokens (user_id, token) VALUES (?,?)",
		userID, token)
	return err
}

// Remove deletes exactly one matching token row (logout of the current
// session). Removing a token that is already gone is not an error.
func (r *TokenRepo) Remove(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_tokens WHERE user_id=? AND token=? LIMIT 1",
		userID, token)
	return err
}

// RemoveAll clears the user's entire token list (logout of all sessions).
func (r *TokenRepo) RemoveAll(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_tokens WHERE user_id=?", userID)
	return err
}

// Exists reports whether the token is still in the user's list. The auth
// middleware calls this on every protected request; a signed token whose
// row was deleted is refused even though its signature still verifies.
func (r *TokenRepo) Exists(ctx context.Context, userID uint64, token string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM user_tokens WHERE user_id=? AND token=? LIMIT 1",
		userID, token).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
