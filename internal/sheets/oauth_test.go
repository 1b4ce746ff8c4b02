package sheets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, loaded.Expiry.Equal(token.Expiry))
}

func TestLoadToken_Errors(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))
	_, err = LoadToken(path)
	assert.Error(t, err)
}

type staticSource struct {
	token *oauth2.Token
	calls int
}

func (s *staticSource) Token() (*oauth2.Token, error) {
	s.calls++
	return s.token, nil
}

func TestPersistingSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	base := &staticSource{token: &oauth2.Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)}}
	src := &persistingSource{base: base, path: path, current: "stale"}

	token, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)

	saved, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken)

	require.NoError(t, os.Remove(path))
	_, err = src.Token()
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist, "unchanged token should not be rewritten")
}
