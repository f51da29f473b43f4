package users

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// User is a registered household account.
type User struct {
	GUID         string
	Firstname    string
	Lastname     string
	Email        string
	PasswordHash string
	Salt         string
}

// Validate checks the user's required fields.
func (u User) Validate() error {
	if u.GUID == "" {
		return ErrEmptyGUID
	}
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if u.PasswordHash == "" || u.Salt == "" {
		return ErrMissingCredentials
	}
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. Comparison is constant time.
func (u User) CheckPassword(password string) bool {
	computed := HashPassword(password, u.Salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(u.PasswordHash)) == 1
}

// NewGUID generates a random user identifier.
func NewGUID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return hex.EncodeToString(buf[:])
	}
	// UUIDv4 formatting (without external dependency).
	buf[6] = (buf[6] & 0x0f) | 0x40
	buf[8] = (buf[8] & 0x3f) | 0x80
	return hex.EncodeToString(buf[:])
}

// NewSalt generates a random password salt.
func NewSalt() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// HashPassword derives the stored password hash from a plaintext password
// and salt.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// NormalizeEmail lowercases and trims an email for lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Repository persists users.
type Repository interface {
	GetByGUID(ctx context.Context, guid string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
}
