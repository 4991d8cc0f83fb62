package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel error for rejected tokens
    "time"   // issued-at timestamps

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by ParseAuthToken for any token whose
// signature, signing method or claims cannot be verified.  Callers never
// learn which of those checks failed.
var ErrInvalidToken = errors.New("invalid auth token")

// NewAuthToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret and the user ID and returns the serialized token string.
// The JWT carries the subject (sub) and issued at (iat) claims and no
// expiration: a token stays valid until the server deletes it from the
// user's token list, so revocation is immediate and entirely server-side.
func NewAuthToken(secret string, userID uint64) (string, error) {
    claims := jwt.MapClaims{
        "sub": userID,
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return "", err
    }
    return signed, nil
}

// ParseAuthToken verifies the signature of a token issued by NewAuthToken
// and returns the user ID from its subject claim.  Tokens signed with a
// different method or a different secret are rejected with ErrInvalidToken.
func ParseAuthToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrInvalidToken
    }
    // JWT numeric values decode as float64.
    sub, ok := claims["sub"].(float64)
    if !ok || sub <= 0 {
        return 0, ErrInvalidToken
    }
    return uint64(sub), nil
}
