package utils

// validate.go holds the pure field validation helpers used by the user
// handlers.  The rules run before anything is persisted so that a bad
// field never reaches the database and the whole mutation can be rejected
// atomically.  Email syntax checking is delegated to go-playground/validator.

import (
    "errors"
    "strings"

    "github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validation errors returned to handlers.  The texts are the ones clients
// see in the JSON error body.
var (
    ErrNameRequired    = errors.New("name is required")
    ErrInvalidEmail    = errors.New("you must provide a valid email")
    ErrPasswordLength  = errors.New("password must be at least 6 characters")
    ErrPasswordBanned  = errors.New("password cannot contain the word 'password'")
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Every email is normalized this way before validation, lookup or storage
// so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
    return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks that a display name is non-empty after trimming and
// returns the trimmed value.
func ValidateName(name string) (string, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return "", ErrNameRequired
    }
    return name, nil
}

// ValidateEmail normalizes the address and checks its syntax.  The
// normalized form is returned so callers store exactly what was checked.
func ValidateEmail(email string) (string, error) {
    email = NormalizeEmail(email)
    if err := validate.Var(email, "required,email"); err != nil {
        return "", ErrInvalidEmail
    }
    return email, nil
}

// ValidatePassword enforces the password rules: at least 6 characters and
// never containing the word "password" in any casing.  The value returned
// is trimmed; hashing happens later, at the storage boundary.
func ValidatePassword(password string) (string, error) {
    password = strings.TrimSpace(password)
    if len(password) < 6 {
        return "", ErrPasswordLength
    }
    if strings.Contains(strings.ToLower(password), "password") {
        return "", ErrPasswordBanned
    }
    return password, nil
}
