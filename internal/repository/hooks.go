package repository

import (
	"fmt"

	"github.com/worldatlas/worldatlas-go/internal/model"
)

// PasswordHasher produces a salted one-way hash of a plaintext password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BeforeSave validates u and, when a plaintext password is staged, replaces
// it with a fresh hash. An unchanged password is never re-hashed, since
// hashing the stored hash would lock the user out. Every store runs it
// before writing a user.
func BeforeSave(u *model.User, hasher PasswordHasher) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.FavoriteCountries == nil {
		u.FavoriteCountries = []string{}
	}
	if !u.PasswordModified() {
		return nil
	}

	hash, err := hasher.Hash(u.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = hash
	u.Password = ""
	return nil
}
