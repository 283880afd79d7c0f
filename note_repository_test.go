package nomendex_test

import (
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"filippo.io/age"

	"github.com/firstloop/nomendex"
	"github.com/firstloop/nomendex/internal/assert"
)

func setupNoteRepository(t *testing.T, files map[string]string) (*nomendex.NoteRepository, *nomendex.RootManager) {
	t.Helper()

	rm := setupRootManager(t)
	writeFiles(t, rm, files)

	nr := nomendex.NewNoteRepository(rm, nomendex.DefaultDataConfig)
	assert.Nil(t, nr.Initialize())

	return nr, rm
}

// newTestIdentity returns an encryption manager holding a fresh identity and the recipient
// that encrypts to it.
func newTestIdentity(t *testing.T) (*nomendex.EncryptionManager, age.Recipient) {
	t.Helper()

	identity, err := age.GenerateX25519Identity()
	assert.Nil(t, err)

	identityFile := filepath.Join(t.TempDir(), nomendex.IdentityFileName)
	assert.Nil(t, os.WriteFile(identityFile, []byte(identity.String()+"\n"), 0600))

	em := nomendex.NewEncryptionManager()
	assert.Nil(t, em.LoadIdentities(identityFile))

	return em, identity.Recipient()
}

func encryptForTest(t *testing.T, recipient age.Recipient, content string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	assert.Nil(t, err)
	_, err = io.WriteString(w, content)
	assert.Nil(t, err)
	assert.Nil(t, w.Close())

	return buf.Bytes()
}

func TestNoteRepository_Notes(t *testing.T) {
	t.Parallel()
	nr, _ := setupNoteRepository(t, map[string]string{
		"notes/zebra.md":              "z",
		"notes/apple.md":              "a",
		"notes/work/plan.md":          "p",
		"notes/archive/2024/old.md":   "o",
		"notes/work/ignored.txt":      "x",
		"todos/not-a-note.md":         "---\ntitle: t\n---\n",
		"notes/personal/diary.md.age": "age-encryption.org/v1\n...",
	})

	notes := nr.Notes()
	paths := make([]string, 0, len(notes))
	for _, note := range notes {
		paths = append(paths, path.Join(note.FolderPath, note.FileName))
	}

	assert.Equal(t, paths, []string{
		"apple.md",
		"zebra.md",
		"archive/2024/old.md",
		"personal/diary.md",
		"work/plan.md",
	})

	diary := notes[3]
	assert.Equal(t, diary.FileName, "diary.md")
	assert.Equal(t, diary.FolderPath, "personal")
	assert.Equal(t, diary.Path, "notes/personal/diary.md.age")
	assert.True(t, diary.Encrypted)
	assert.Equal(t, notes[2].FolderPath, "archive/2024")
}

func TestNoteRepository_SearchNotes(t *testing.T) {
	t.Parallel()
	nr, _ := setupNoteRepository(t, map[string]string{
		"notes/shopping.md":     "# Shopping\n\nbuy milk\nbuy eggs\r\nmilk again",
		"notes/work/standup.md": "no dairy here",
		"notes/work/milk.md":    "",
	})

	results := nr.SearchNotes("milk")
	assert.Equal(t, len(results), 2)

	assert.Equal(t, results[0].ID, "shopping.md")
	assert.Equal(t, results[0].FolderPath, "")
	assert.Equal(t, results[0].Matches, []nomendex.MatchSpan{
		{Line: 3, Start: 4, End: 8, Text: "buy milk"},
		{Line: 5, Start: 0, End: 4, Text: "milk again"},
	})

	assert.Equal(t, results[1].ID, "milk.md")
	assert.Equal(t, results[1].FolderPath, "work")
	assert.Equal(t, results[1].Matches[0].Line, 0)

	assert.Equal(t, len(nr.SearchNotes("  ")), 0)
}

func TestNoteRepository_ReloadCaches(t *testing.T) {
	t.Parallel()
	nr, rm := setupNoteRepository(t, map[string]string{"notes/one.md": "one"})
	assert.Equal(t, len(nr.Notes()), 1)

	writeFiles(t, rm, map[string]string{"notes/two.md": "two"})

	// Fresh cache is not reloaded
	nr.ReloadIfStale(time.Hour)
	assert.Equal(t, len(nr.Notes()), 1)

	nr.ReloadIfStale(0)
	assert.Equal(t, len(nr.Notes()), 2)
}

func TestNoteRepository_EncryptedNotes(t *testing.T) {
	t.Parallel()
	em, recipient := newTestIdentity(t)

	encrypted := encryptForTest(t, recipient, "secret plan: buy milk")
	assert.True(t, nomendex.IsAgeEncrypted(encrypted))

	rm := setupRootManager(t)
	assert.Nil(t, rm.WriteFile("notes/private/plan.md.age", encrypted, 0600))
	writeFiles(t, rm, map[string]string{"notes/public.md": "milk for everyone"})

	// Without keys the encrypted note is skipped
	nr := nomendex.NewNoteRepository(rm, nomendex.DefaultDataConfig)
	results := nr.SearchNotes("milk")
	assert.Equal(t, len(results), 1)
	assert.Equal(t, results[0].ID, "public.md")

	nr.SetEncryptionManager(em)
	results = nr.SearchNotes("milk")
	assert.Equal(t, len(results), 2)
	assert.Equal(t, results[1].ID, "plan.md")
	assert.Equal(t, results[1].FolderPath, "private")
	assert.Equal(t, results[1].Matches[0].Text, "secret plan: buy milk")

	notes := nr.Notes()
	assert.Equal(t, len(notes), 2)
	assert.Equal(t, notes[1].Path, "notes/private/plan.md.age")
	content, err := nr.ReadNote(notes[1])
	assert.Nil(t, err)
	assert.Equal(t, content, "secret plan: buy milk")
}

func TestEncryptionManager_Errors(t *testing.T) {
	t.Parallel()
	em := nomendex.NewEncryptionManager()

	assert.False(t, em.CanDecrypt())

	_, err := em.Decrypt([]byte("age-encryption.org/v1"))
	assert.NotNil(t, err)

	badKey := filepath.Join(t.TempDir(), "bad.txt")
	assert.Nil(t, os.WriteFile(badKey, []byte("not a key\n"), 0600))
	assert.NotNil(t, em.LoadIdentities(badKey))
	assert.NotNil(t, em.LoadIdentities(""))
	assert.NotNil(t, em.LoadIdentities(filepath.Join(t.TempDir(), "missing.txt")))
	assert.False(t, em.CanDecrypt())

	_, recipient := newTestIdentity(t)
	encrypted := encryptForTest(t, recipient, "hello")

	wrongKeys, _ := newTestIdentity(t)
	_, err = wrongKeys.Decrypt(encrypted)
	assert.NotNil(t, err)
}

func TestGenerateNewEncryptionPair(t *testing.T) {
	t.Parallel()
	keysDir := filepath.Join(t.TempDir(), "keys")

	publicKey, publicPath, privatePath, err := nomendex.GenerateNewEncryptionPair(keysDir)
	assert.Nil(t, err)
	assert.Equal(t, privatePath, filepath.Join(keysDir, nomendex.IdentityFileName))
	assert.Equal(t, publicPath, filepath.Join(keysDir, nomendex.PublicKeyFileName))

	em := nomendex.NewEncryptionManager()
	assert.Nil(t, em.LoadIdentities(privatePath))
	assert.True(t, em.CanDecrypt())

	recipient, err := age.ParseX25519Recipient(publicKey)
	assert.Nil(t, err)
	plain, err := em.Decrypt(encryptForTest(t, recipient, "round trip"))
	assert.Nil(t, err)
	assert.Equal(t, plain, "round trip")

	// Existing keys are kept
	_, _, _, err = nomendex.GenerateNewEncryptionPair(keysDir)
	assert.NotNil(t, err)
	again := nomendex.NewEncryptionManager()
	assert.Nil(t, again.LoadIdentities(privatePath))
	plain, err = again.Decrypt(encryptForTest(t, recipient, "still mine"))
	assert.Nil(t, err)
	assert.Equal(t, plain, "still mine")

	_, _, _, err = nomendex.GenerateNewEncryptionPair(" ")
	assert.NotNil(t, err)
}
