package session

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUser() *UserData {
	return &UserData{
		Email:           "tan@example.com",
		UserName:        "tan",
		Role:            "ROLE_USER",
		AccessToken:     "access",
		RefreshToken:    "refresh",
		IsAuthenticated: true,
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, err := Load(s)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, IsGuest(s))

	require.NoError(t, Save(s, sampleUser()))
	got, err := Load(s)
	require.NoError(t, err)
	assert.Equal(t, sampleUser(), got)

	updated := sampleUser()
	updated.AccessToken = "access-2"
	require.NoError(t, Save(s, updated))
	got, err = Load(s)
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)
	assert.Equal(t, "access-2", Tokens{Store: s}.AccessToken())

	require.NoError(t, SetGuest(s, true))
	assert.True(t, IsGuest(s))
	require.NoError(t, SetGuest(s, false))
	assert.False(t, IsGuest(s))

	require.NoError(t, Clear(s))
	_, err = Load(s)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, Tokens{Store: s}.AccessToken())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path))

	require.NoError(t, Save(NewFileStore(path), sampleUser()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second store on the same file sees the same record.
	got, err := Load(NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, "tan@example.com", got.Email)
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	master := bytes.Repeat([]byte{9}, 32)

	s, err := NewEncryptedFileStore(path, master)
	require.NoError(t, err)
	exerciseStore(t, s)

	require.NoError(t, Save(s, sampleUser()))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tan@example.com")

	_, err = Load(NewFileStore(path))
	assert.Error(t, err)

	wrong, err := NewEncryptedFileStore(path, bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	_, err = Load(wrong)
	assert.Error(t, err)

	_, err = NewEncryptedFileStore(path, []byte("short"))
	assert.Error(t, err)
}

func TestLoadCorruptRecord(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.SetItem(KeyUserData, "{not json"))
	_, err := Load(s)
	assert.Error(t, err)
}
