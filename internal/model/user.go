package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers define
// separate response types that strip the password hash, the token
// list and the avatar blob from every response.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name, trimmed, never empty.
//  Email        – unique email address, stored lowercased and trimmed.
//  PasswordHash – bcrypt hashed password; the plaintext is never stored.
//  Age          – optional age, zero when not provided.
//  Avatar       – normalized 250x250 PNG bytes, nil when no avatar is set.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Age          int       // users.age
	Avatar       []byte    // users.avatar (nullable MEDIUMBLOB)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// AuthToken models an entry in the `user_tokens` table. Every login
// appends one row; logout deletes exactly one row and logout-all
// deletes every row for the user. A signed token is only accepted by
// the auth middleware while its row still exists, which is what makes
// revocation effective even though the signature itself stays valid.
//
// Fields:
//  ID        – primary key; ascending IDs preserve issue order.
//  UserID    – owner of the token.
//  Token     – the signed token string as handed to the client.
//  CreatedAt – timestamp of issue.
type AuthToken struct {
	ID        uint64    // user_tokens.id
	UserID    uint64    // user_tokens.user_id
	Token     string    // user_tokens.token
	CreatedAt time.Time // user_tokens.created_at
}
