package nomendex

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"slices"
	"strings"
	"sync"
	"time"
)

// DataConfig holds the layout of the data directory.
type DataConfig struct {
	NotesDirectory string
	TodosDirectory string
}

// DefaultDataConfig provides the default data directory layout.
var DefaultDataConfig = DataConfig{
	NotesDirectory: "notes",
	TodosDirectory: "todos",
}

// NoteRepository lists the notes in the notes directory and feeds them to the search engine.
// The list of files is cached; note content is always read from disk.
type NoteRepository struct {
	config        DataConfig
	rootManager   *RootManager
	encryption    *EncryptionManager
	cacheMux      sync.RWMutex
	lastCacheTime time.Time
	noteCache     []NoteInfo
}

// NewNoteRepository creates a NoteRepository and loads the note cache.
func NewNoteRepository(rootManager *RootManager, config DataConfig) *NoteRepository {
	nr := &NoteRepository{
		config:      config,
		rootManager: rootManager,
	}

	nr.ReloadCaches()

	return nr
}

// SetEncryptionManager sets the manager used to read encrypted notes.
func (nr *NoteRepository) SetEncryptionManager(manager *EncryptionManager) {
	nr.cacheMux.Lock()
	defer nr.cacheMux.Unlock()
	nr.encryption = manager
}

// Initialize makes sure the notes directory exists.
func (nr *NoteRepository) Initialize() error {
	if err := nr.rootManager.CreateDirectoryIfNotExists(nr.config.NotesDirectory); err != nil {
		return fmt.Errorf("error creating notes directory %s: %w", nr.config.NotesDirectory, err)
	}
	return nil
}

// Notes returns the cached notes ordered by folder, root folder first, then by file name.
func (nr *NoteRepository) Notes() []NoteInfo {
	nr.cacheMux.RLock()
	defer nr.cacheMux.RUnlock()
	return slices.Clone(nr.noteCache)
}

// ReadNote returns the plain text content of a note, decrypting it when needed.
func (nr *NoteRepository) ReadNote(note NoteInfo) (string, error) {
	content, err := nr.rootManager.ReadFile(note.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read note %s: %w", note.Path, err)
	}

	if !note.Encrypted && !IsAgeEncrypted(content) {
		return string(content), nil
	}

	nr.cacheMux.RLock()
	encryption := nr.encryption
	nr.cacheMux.RUnlock()

	if encryption == nil || !encryption.CanDecrypt() {
		return "", fmt.Errorf("note %s is encrypted and no identity is loaded", note.Path)
	}

	text, err := encryption.Decrypt(content)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt note %s: %w", note.Path, err)
	}

	return text, nil
}

// Units reads every cached note and returns it as a searchable unit.
// Notes that cannot be read are logged and skipped.
func (nr *NoteRepository) Units() []SearchableUnit {
	notes := nr.Notes()
	units := make([]SearchableUnit, 0, len(notes))

	for _, note := range notes {
		content, err := nr.ReadNote(note)
		if err != nil {
			log.Printf("Skipping note in search: %v", err)
			continue
		}
		units = append(units, NewSearchableUnit(note.FileName, note.FolderPath, content))
	}

	return units
}

// SearchNotes searches the names and content of all notes.
func (nr *NoteRepository) SearchNotes(query string) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return Search(query, nr.Units())
}

// ReloadCaches rescans the notes directory.
func (nr *NoteRepository) ReloadCaches() {
	notes := nr.scanNotes()

	nr.cacheMux.Lock()
	defer nr.cacheMux.Unlock()
	nr.noteCache = notes
	nr.lastCacheTime = time.Now()
	log.Printf("Note cache refreshed with %d notes", len(notes))
}

// ReloadIfStale rescans the notes directory if the cache is older than maxAge.
func (nr *NoteRepository) ReloadIfStale(maxAge time.Duration) {
	nr.cacheMux.RLock()
	age := time.Since(nr.lastCacheTime)
	nr.cacheMux.RUnlock()

	if age > maxAge {
		nr.ReloadCaches()
	}
}

// scanNotes finds all markdown notes (plain or encrypted) under the notes directory.
func (nr *NoteRepository) scanNotes() []NoteInfo {
	if !nr.rootManager.FileExists(nr.config.NotesDirectory) {
		return nil
	}

	results, err := nr.rootManager.Scan(nr.config.NotesDirectory, func(p string, d fs.DirEntry) bool {
		return !d.IsDir() && isNoteFile(d.Name())
	})
	if err != nil {
		log.Printf("Error scanning notes directory: %v", err)
		return nil
	}

	notes := make([]NoteInfo, 0, len(results))
	for _, result := range results {
		notes = append(notes, noteInfoFromScan(result))
	}

	slices.SortFunc(notes, func(a, b NoteInfo) int {
		// Root notes come before any folder
		if a.FolderPath == "" && b.FolderPath != "" {
			return -1
		}
		if a.FolderPath != "" && b.FolderPath == "" {
			return 1
		}
		if a.FolderPath != b.FolderPath {
			return strings.Compare(a.FolderPath, b.FolderPath)
		}
		return strings.Compare(a.FileName, b.FileName)
	})

	return notes
}

func isNoteFile(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".md"+EncryptedNoteExt)
}

func noteInfoFromScan(result ScanResult) NoteInfo {
	folder := path.Dir(result.RelativePath)
	if folder == "." {
		folder = ""
	}

	encrypted := strings.HasSuffix(result.Name, EncryptedNoteExt)
	return NoteInfo{
		FileName:   strings.TrimSuffix(result.Name, EncryptedNoteExt),
		FolderPath: folder,
		Path:       result.Path,
		Encrypted:  encrypted,
	}
}
