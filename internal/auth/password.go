package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashPassword returns the bcrypt hash of password, for provisioning the
// configured login.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Credentials checks a login against the single configured account.
type Credentials struct {
	username string
	hash     string
	verifier PasswordVerifier
}

// NewCredentials creates a Credentials checker. A nil verifier means bcrypt.
func NewCredentials(username, passwordHash string, verifier PasswordVerifier) *Credentials {
	if verifier == nil {
		verifier = NewBcryptVerifier()
	}
	return &Credentials{username: username, hash: passwordHash, verifier: verifier}
}

// Check returns ErrInvalidCredentials unless both username and password
// match. The password is compared even when the username is wrong.
func (c *Credentials) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passErr := c.verifier.Compare(c.hash, password)
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
