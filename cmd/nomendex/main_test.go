package main

import (
	"path/filepath"
	"testing"

	"github.com/firstloop/nomendex"
	"github.com/firstloop/nomendex/internal/assert"
)

func TestGetDataDirectory(t *testing.T) {
	t.Setenv("NOMENDEX_DATA_DIR", "")
	t.Setenv("XDG_DATA_HOME", "/xdg")

	dir, err := getDataDirectory("/from-flag")
	assert.Nil(t, err)
	assert.Equal(t, dir, "/from-flag")

	dir, err = getDataDirectory("")
	assert.Nil(t, err)
	assert.Equal(t, dir, filepath.Join("/xdg", appName))

	t.Setenv("NOMENDEX_DATA_DIR", "/from-env")
	dir, err = getDataDirectory("")
	assert.Nil(t, err)
	assert.Equal(t, dir, "/from-env")
}

func TestGetKeysDirectory(t *testing.T) {
	t.Setenv("NOMENDEX_KEYS_DIR", "")

	assert.Equal(t, getKeysDirectory("/keys", "/data"), "/keys")
	assert.Equal(t, getKeysDirectory("", "/data"), filepath.Join("/data", "keys"))

	t.Setenv("NOMENDEX_KEYS_DIR", "/env-keys")
	assert.Equal(t, getKeysDirectory("", "/data"), "/env-keys")
}

func TestGetDefaultIdentity(t *testing.T) {
	keysDir := t.TempDir()
	assert.Equal(t, getDefaultIdentity(keysDir), "")

	_, _, privatePath, err := nomendex.GenerateNewEncryptionPair(keysDir)
	assert.Nil(t, err)
	assert.Equal(t, getDefaultIdentity(keysDir), privatePath)
}

func TestResolveFile(t *testing.T) {
	t.Setenv("NOMENDEX_IDENTITIES_FILE", "/env/key.txt")

	assert.Equal(t, resolveFile("/flag/key.txt", "NOMENDEX_IDENTITIES_FILE"), "/flag/key.txt")
	assert.Equal(t, resolveFile("", "NOMENDEX_IDENTITIES_FILE"), "/env/key.txt")
}
