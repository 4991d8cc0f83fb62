package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  medo  ")
	require.NoError(t, err)
	assert.Equal(t, "medo", name)

	_, err = ValidateName("   ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestValidateEmail(t *testing.T) {
	email, err := ValidateEmail("  Medo@GMAIL.com ")
	require.NoError(t, err)
	assert.Equal(t, "medo@gmail.com", email)

	for _, bad := range []string{"", "plain", "a@", "@b.com", "a b@c.com"} {
		_, err := ValidateEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", bad)
	}
}

func TestValidatePassword(t *testing.T) {
	pw, err := ValidatePassword("12345678")
	require.NoError(t, err)
	assert.Equal(t, "12345678", pw)

	_, err = ValidatePassword("12345")
	assert.ErrorIs(t, err, ErrPasswordLength)

	// The ban is case-insensitive and matches anywhere in the string.
	for _, bad := range []string{"password", "Password1", "myPASSWORD!"} {
		_, err := ValidatePassword(bad)
		assert.ErrorIs(t, err, ErrPasswordBanned, "password %q", bad)
	}
}
