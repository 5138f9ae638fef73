package model

import (
	"strings"
	"time"
)

// User represents a user in the credential store.
//
// Password holds a plaintext password that has been set or changed and not
// yet saved. The store hashes it into PasswordHash on save and clears it, so
// an empty Password means the stored hash is current. A user with an ID is
// already persisted and may carry neither, as FindByID leaves the hash out.
type User struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name" validate:"required"`
	Email             string    `json:"email" validate:"required"`
	Password          string    `json:"-" validate:"required_without_all=ID PasswordHash,maxbytes=72"`
	PasswordHash      string    `json:"-"`
	FavoriteCountries []string  `json:"favoriteCountries"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NewUser returns an unsaved user with the given plaintext password.
func NewUser(name, email, password string) *User {
	u := &User{
		Name:              name,
		Email:             email,
		FavoriteCountries: []string{},
	}
	u.SetPassword(password)
	return u
}

// SetPassword stages a new plaintext password for hashing on the next save.
func (u *User) SetPassword(password string) {
	u.Password = password
}

// PasswordModified reports whether a plaintext password is waiting to be hashed.
func (u *User) PasswordModified() bool {
	return u.Password != ""
}

// Public returns the fields of u that are safe to expose.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	PublicUser
	Token string `json:"token"`
}

// ErrorResponse is the body of every non-2xx response. Stack is null outside
// development mode.
type ErrorResponse struct {
	Message string  `json:"message"`
	Stack   *string `json:"stack"`
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects field failures. Its message is every field
// message joined by ", ".
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, ", ")
}

// Has reports whether field failed validation.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}
