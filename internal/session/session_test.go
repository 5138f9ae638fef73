package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldatlas/worldatlas-go/internal/model"
)

func sampleUser() model.AuthResponse {
	return model.AuthResponse{
		PublicUser: model.PublicUser{ID: "665f1c2e9b1d4a3f8c0e7b21", Name: "Ada", Email: "ada@example.com"},
		Token:      "header.payload.sig",
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	store := NewFileStore(path)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	user := sampleUser()
	require.NoError(t, store.Save(&user))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "ada@example.com", doc["user"]["email"])
	assert.Equal(t, "665f1c2e9b1d4a3f8c0e7b21", doc["user"]["_id"])
	assert.Equal(t, "header.payload.sig", doc["user"]["token"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user, *got)

	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, store.Clear())
}

func TestFileStoreClearKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user":{"token":"t"},"theme":null}`), 0o600))

	require.NoError(t, NewFileStore(path).Clear())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"user"`)
	assert.Contains(t, string(raw), `"theme"`)
}

func TestSessionLifecycle(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))

	s, err := New(store)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Token())

	require.NoError(t, s.Save(sampleUser()))
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "header.payload.sig", s.Token())

	// A fresh session sees the stored blob without contacting the server.
	reloaded, err := New(store)
	require.NoError(t, err)
	user, ok := reloaded.User()
	require.True(t, ok)
	assert.Equal(t, "Ada", user.Name)

	require.NoError(t, reloaded.Clear())
	assert.False(t, reloaded.LoggedIn())

	again, err := New(store)
	require.NoError(t, err)
	assert.False(t, again.LoggedIn())
}

func TestSessionCorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user":`), 0o600))

	s, err := New(NewFileStore(path))
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt file should be removed")
}

func TestSessionIgnoresBlobWithoutToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user":{"_id":"1","name":"Ada","email":"a@b.c"}}`), 0o600))

	s, err := New(NewFileStore(path))
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}
