package nomendex

// NoteInfo describes a note file under the notes directory
type NoteInfo struct {
	FileName   string // File name shown to the user, e.g. "shopping.md" (no .age suffix)
	FolderPath string // Folder relative to the notes directory, "" for the root
	Path       string // Path relative to the data directory
	Encrypted  bool   // True if the file is age encrypted
}
