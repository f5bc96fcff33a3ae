package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingVerifier struct {
	calls int
	err   error
}

func (v *countingVerifier) Compare(hashedPassword, password string) error {
	v.calls++
	return v.err
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	creds := NewCredentials("student", hash, nil)

	assert.NoError(t, creds.Check("student", "correct horse"))
	assert.ErrorIs(t, creds.Check("student", "battery staple"), ErrInvalidCredentials)
	assert.ErrorIs(t, creds.Check("admin", "correct horse"), ErrInvalidCredentials)
	assert.ErrorIs(t, creds.Check("", ""), ErrInvalidCredentials)
}

func TestCredentialsAlwaysComparesPassword(t *testing.T) {
	t.Parallel()

	v := &countingVerifier{err: errors.New("mismatch")}
	creds := NewCredentials("student", "hash", v)

	assert.ErrorIs(t, creds.Check("someone-else", "pw"), ErrInvalidCredentials)
	assert.Equal(t, 1, v.calls)

	v.err = nil
	assert.ErrorIs(t, creds.Check("someone-else", "pw"), ErrInvalidCredentials)
	assert.NoError(t, creds.Check("student", "pw"))
}
