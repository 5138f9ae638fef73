package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/worldatlas/worldatlas-go/internal/crypto"
	"github.com/worldatlas/worldatlas-go/internal/model"
)

type countingHasher struct {
	calls int
	err   error
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func TestBeforeSaveHashesStagedPassword(t *testing.T) {
	hasher := &countingHasher{}
	u := model.NewUser("Ada", "ada@example.com", "s3cret")

	if err := BeforeSave(u, hasher); err != nil {
		t.Fatalf("BeforeSave() unexpected error: %v", err)
	}
	if u.PasswordHash != "hashed:s3cret" {
		t.Errorf("PasswordHash = %q, want %q", u.PasswordHash, "hashed:s3cret")
	}
	if u.Password != "" {
		t.Error("plaintext password should be cleared after hashing")
	}
	if hasher.calls != 1 {
		t.Errorf("hasher calls = %d, want 1", hasher.calls)
	}
}

func TestBeforeSaveDoesNotRehash(t *testing.T) {
	hasher := &countingHasher{}
	u := model.NewUser("Ada", "ada@example.com", "s3cret")

	if err := BeforeSave(u, hasher); err != nil {
		t.Fatalf("first BeforeSave() unexpected error: %v", err)
	}
	stored := u.PasswordHash

	u.Name = "Ada Lovelace"
	if err := BeforeSave(u, hasher); err != nil {
		t.Fatalf("second BeforeSave() unexpected error: %v", err)
	}
	if hasher.calls != 1 {
		t.Errorf("hasher calls = %d, want 1", hasher.calls)
	}
	if u.PasswordHash != stored {
		t.Errorf("PasswordHash changed to %q without a password change", u.PasswordHash)
	}
}

func TestBeforeSaveRehashesChangedPassword(t *testing.T) {
	hasher := &countingHasher{}
	u := model.NewUser("Ada", "ada@example.com", "first")
	if err := BeforeSave(u, hasher); err != nil {
		t.Fatalf("BeforeSave() unexpected error: %v", err)
	}

	u.SetPassword("second")
	if err := BeforeSave(u, hasher); err != nil {
		t.Fatalf("BeforeSave() unexpected error: %v", err)
	}
	if u.PasswordHash != "hashed:second" {
		t.Errorf("PasswordHash = %q, want %q", u.PasswordHash, "hashed:second")
	}
	if hasher.calls != 2 {
		t.Errorf("hasher calls = %d, want 2", hasher.calls)
	}
}

func TestBeforeSaveValidation(t *testing.T) {
	hasher := &countingHasher{}
	u := &model.User{Email: "ada@example.com", Password: "pw"}

	err := BeforeSave(u, hasher)
	var verrs model.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("BeforeSave() error = %v, want ValidationErrors", err)
	}
	if !verrs.Has("name") {
		t.Errorf("expected name to fail validation, got %v", verrs)
	}
	if hasher.calls != 0 {
		t.Error("hasher should not run for an invalid user")
	}
}

func TestBeforeSaveDefaultsFavorites(t *testing.T) {
	u := &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h"}
	if err := BeforeSave(u, &countingHasher{}); err != nil {
		t.Fatalf("BeforeSave() unexpected error: %v", err)
	}
	if u.FavoriteCountries == nil || len(u.FavoriteCountries) != 0 {
		t.Errorf("FavoriteCountries = %#v, want empty slice", u.FavoriteCountries)
	}
}

func TestBeforeSaveHashError(t *testing.T) {
	boom := errors.New("boom")
	u := model.NewUser("Ada", "ada@example.com", "pw")

	err := BeforeSave(u, &countingHasher{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("BeforeSave() error = %v, want wrapped %v", err, boom)
	}
	if u.PasswordHash != "" {
		t.Error("PasswordHash should stay empty when hashing fails")
	}
}

func TestBeforeSaveRoundTripWithRealHasher(t *testing.T) {
	for _, algorithm := range []string{crypto.AlgorithmBcrypt, crypto.AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			hasher, err := crypto.NewHasher(algorithm)
			if err != nil {
				t.Fatalf("NewHasher(%q) error: %v", algorithm, err)
			}
			u := model.NewUser("Ada", "ada@example.com", "correct horse")

			if err := BeforeSave(u, hasher); err != nil {
				t.Fatalf("BeforeSave() unexpected error: %v", err)
			}
			if u.PasswordHash == "correct horse" {
				t.Fatal("password stored in plaintext")
			}

			ok, err := hasher.Compare(u.PasswordHash, "correct horse")
			if err != nil || !ok {
				t.Errorf("Compare(right password) = %v, %v; want true, nil", ok, err)
			}
			ok, err = hasher.Compare(u.PasswordHash, "wrong horse")
			if err != nil || ok {
				t.Errorf("Compare(wrong password) = %v, %v; want false, nil", ok, err)
			}

			// A later save without a new password keeps the hash verifiable.
			u.Name = "Ada Lovelace"
			if err := BeforeSave(u, hasher); err != nil {
				t.Fatalf("second BeforeSave() unexpected error: %v", err)
			}
			if ok, _ := hasher.Compare(u.PasswordHash, "correct horse"); !ok {
				t.Error("password no longer verifies after an unrelated save")
			}
		})
	}
}

func TestBeforeSaveRejectsOverlongPassword(t *testing.T) {
	hasher := &countingHasher{}
	u := model.NewUser("Ada", "ada@example.com", strings.Repeat("x", 80))

	err := BeforeSave(u, hasher)
	var verrs model.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("BeforeSave() error = %v, want ValidationErrors", err)
	}
	if !verrs.Has("password") {
		t.Errorf("expected password to fail validation, got %v", verrs)
	}
	if hasher.calls != 0 {
		t.Error("hasher should not run for an overlong password")
	}
}
