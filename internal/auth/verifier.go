package auth

import (
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks an operator's credentials.
type Verifier interface {
	Verify(username, password string) error
}

type BcryptVerifier struct {
	username string
	hash     []byte
}

// NewBcryptVerifier accepts either a bcrypt hash or, when hash is empty, a
// plaintext password that is hashed once here.
func NewBcryptVerifier(username, hash, plaintext string) (*BcryptVerifier, error) {
	if username == "" {
		return nil, errors.New("admin username is empty")
	}
	if hash == "" {
		if plaintext == "" {
			return nil, errors.New("admin password or password hash must be configured")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "hash admin password")
		}
		hash = string(h)
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, errors.Wrap(err, "admin password hash")
	}
	return &BcryptVerifier{username: username, hash: []byte(hash)}, nil
}

func (v *BcryptVerifier) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passErr := bcrypt.CompareHashAndPassword(v.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
