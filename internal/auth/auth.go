// Package auth verifies login credentials for the session gate.
//
// The controller depends only on the [Verifier] interface, so the single
// credential pair lives in configuration rather than in controller logic.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Iron-Ham/elitectl/internal/errors"
)

// Default credential pair used when nothing is configured.
const (
	DefaultUsername = "azfla"
	DefaultPassword = "manusia"
)

// Verifier checks a username/password pair.
type Verifier interface {
	// Verify returns nil if the pair is accepted, or an error wrapping
	// errors.ErrInvalidCredentials.
	Verify(ctx context.Context, username, password string) error
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, username, password string) error

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, username, password string) error {
	return f(ctx, username, password)
}

// Credentials is the single accepted pair. If PasswordHash is set it is a
// bcrypt hash and takes precedence over Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// StaticVerifier accepts exactly one configured credential pair.
type StaticVerifier struct {
	username []byte
	password []byte
	hash     []byte
}

// NewStaticVerifier builds a verifier for creds. The username is required,
// and so is one of Password or PasswordHash.
func NewStaticVerifier(creds Credentials) (*StaticVerifier, error) {
	if creds.Username == "" {
		return nil, errors.NewValidationError("username is required").WithField("auth.username")
	}

	v := &StaticVerifier{username: []byte(creds.Username)}
	switch {
	case creds.PasswordHash != "":
		if _, err := bcrypt.Cost([]byte(creds.PasswordHash)); err != nil {
			return nil, errors.NewValidationError("password_hash is not a bcrypt hash").
				WithField("auth.password_hash").
				WithCause(err)
		}
		v.hash = []byte(creds.PasswordHash)
	case creds.Password != "":
		v.password = []byte(creds.Password)
	default:
		return nil, errors.NewValidationError("password or password_hash is required").WithField("auth.password")
	}
	return v, nil
}

// Verify compares both fields exactly. No trimming or case folding is applied.
func (v *StaticVerifier) Verify(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCanceled, err.Error())
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), v.username) == 1

	var passOK bool
	if v.hash != nil {
		passOK = bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), v.password) == 1
	}

	if !userOK || !passOK {
		return errors.NewAuthError("access denied", errors.ErrInvalidCredentials).WithUsername(username)
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for auth.password_hash.
func HashPassword(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.NewValidationError("password must not be empty").WithField("password")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
