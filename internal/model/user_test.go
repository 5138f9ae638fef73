package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("Test User", "test@example.com", "password123")

	if u.FavoriteCountries == nil || len(u.FavoriteCountries) != 0 {
		t.Errorf("FavoriteCountries = %v, want empty slice", u.FavoriteCountries)
	}
	if !u.PasswordModified() {
		t.Error("PasswordModified() = false for a new user")
	}
	if u.PasswordHash != "" {
		t.Error("PasswordHash should be empty before the first save")
	}
}

func TestPasswordModified(t *testing.T) {
	u := &User{Name: "n", Email: "e", PasswordHash: "$2a$10$existing"}
	if u.PasswordModified() {
		t.Error("PasswordModified() = true without a staged password")
	}

	u.SetPassword("new-password")
	if !u.PasswordModified() {
		t.Error("PasswordModified() = false after SetPassword")
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name       string
		user       User
		wantFields []string
	}{
		{
			name: "valid new user",
			user: User{Name: "Test User", Email: "test@example.com", Password: "password123"},
		},
		{
			name: "valid saved user",
			user: User{Name: "Test User", Email: "test@example.com", PasswordHash: "$2a$10$hash"},
		},
		{
			name: "persisted user loaded without hash",
			user: User{ID: "665f1c2e9b1d4a3f8c0e7b21", Name: "Test User", Email: "test@example.com"},
		},
		{
			name:       "password over bcrypt limit",
			user:       User{Name: "Test User", Email: "test@example.com", Password: strings.Repeat("a", 73)},
			wantFields: []string{"password"},
		},
		{
			name:       "missing name",
			user:       User{Email: "test@example.com", Password: "password123"},
			wantFields: []string{"name"},
		},
		{
			name:       "missing email",
			user:       User{Name: "Test User", Password: "password123"},
			wantFields: []string{"email"},
		},
		{
			name:       "missing password",
			user:       User{Name: "Test User", Email: "test@example.com"},
			wantFields: []string{"password"},
		},
		{
			name:       "missing everything",
			user:       User{},
			wantFields: []string{"name", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want ValidationErrors", err)
			}
			if len(verrs) != len(tt.wantFields) {
				t.Fatalf("got %d field errors, want %d: %v", len(verrs), len(tt.wantFields), verrs)
			}
			for _, f := range tt.wantFields {
				if !verrs.Has(f) {
					t.Errorf("expected field error for %q in %v", f, verrs)
				}
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	err := (&User{}).Validate()
	want := "name is required, email is required, password is required"
	if err == nil || err.Error() != want {
		t.Errorf("Error() = %v, want %q", err, want)
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	err := RegisterRequest{Name: "n", Password: "p"}.Validate()
	if err == nil || err.Error() != "email is required" {
		t.Errorf("Validate() = %v, want %q", err, "email is required")
	}

	if err := (RegisterRequest{Name: "n", Email: "e", Password: "p"}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestRegisterRequestPasswordLimit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "at limit", password: strings.Repeat("a", MaxPasswordBytes)},
		{name: "one over", password: strings.Repeat("a", MaxPasswordBytes+1), wantErr: true},
		{name: "eighty bytes", password: strings.Repeat("a", 80), wantErr: true},
		{name: "multibyte under limit", password: strings.Repeat("é", 36)},
		{name: "multibyte over limit in bytes", password: strings.Repeat("é", 40), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RegisterRequest{Name: "n", Email: "e", Password: tt.password}.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			want := "password must be at most 72 bytes"
			if err == nil || err.Error() != want {
				t.Errorf("Validate() = %v, want %q", err, want)
			}
		})
	}
}

func TestPublicProjectionOmitsSecrets(t *testing.T) {
	u := &User{
		ID:           "665f1c2e9b1d4a3f8c0e7b21",
		Name:         "Test User",
		Email:        "test@example.com",
		Password:     "password123",
		PasswordHash: "$2a$10$hash",
	}

	data, err := json.Marshal(AuthResponse{PublicUser: u.Public(), Token: "tok"})
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	for _, key := range []string{"_id", "name", "email", "token"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
	if len(fields) != 4 {
		t.Errorf("expected exactly 4 keys, got %s", data)
	}
	if strings.Contains(string(data), "password") || strings.Contains(string(data), "$2a$") {
		t.Errorf("response leaks password material: %s", data)
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := NewUser("Ada", "ada@example.com", "plain")
	u.PasswordHash = "$2a$10$hash"

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if strings.Contains(string(data), "plain") || strings.Contains(string(data), "$2a$") {
		t.Errorf("user JSON leaks password material: %s", data)
	}
}
