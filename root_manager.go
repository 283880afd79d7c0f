package nomendex

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// RootManager confines filesystem access to the data directory using os.Root.
type RootManager struct {
	path string
}

// NewRootManager creates a new RootManager for the given directory path, creating it if needed.
func NewRootManager(path string) (*RootManager, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	// Test that we can open the directory as a root
	testRoot, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory as root %s: %w", path, err)
	}
	_ = testRoot.Close()

	return &RootManager{path: path}, nil
}

// withRoot executes a function with a safely opened os.Root
func (rm *RootManager) withRoot(fn func(*os.Root) error) error {
	root, err := os.OpenRoot(rm.path)
	if err != nil {
		return fmt.Errorf("failed to open root: %w", err)
	}
	defer func(root *os.Root) {
		_ = root.Close()
	}(root)

	return fn(root)
}

// ReadFile reads the contents of a file
func (rm *RootManager) ReadFile(filename string) ([]byte, error) {
	var content []byte
	err := rm.withRoot(func(root *os.Root) error {
		var err error
		content, err = root.ReadFile(filename)
		return err
	})
	return content, err
}

// WriteFile writes content to a file, creating its parent directories
func (rm *RootManager) WriteFile(filename string, content []byte, perm os.FileMode) error {
	return rm.withRoot(func(root *os.Root) error {
		if dir := path.Dir(filename); dir != "." {
			if err := root.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		return root.WriteFile(filename, content, perm)
	})
}

// WriteString writes a string to a file
func (rm *RootManager) WriteString(filename string, content string) error {
	return rm.WriteFile(filename, []byte(content), 0644)
}

// FileExists checks if a file exists
func (rm *RootManager) FileExists(filename string) bool {
	_, err := rm.Stat(filename)
	return err == nil
}

// Stat returns file info
func (rm *RootManager) Stat(filename string) (os.FileInfo, error) {
	var info os.FileInfo
	err := rm.withRoot(func(root *os.Root) error {
		var err error
		info, err = root.Stat(filename)
		return err
	})
	return info, err
}

// MkdirAll creates a directory and any necessary parent directories
func (rm *RootManager) MkdirAll(dir string, perm os.FileMode) error {
	return rm.withRoot(func(root *os.Root) error {
		return root.MkdirAll(dir, perm)
	})
}

// CreateDirectoryIfNotExists creates a directory if it doesn't exist
func (rm *RootManager) CreateDirectoryIfNotExists(dir string) error {
	info, err := rm.Stat(dir)
	if os.IsNotExist(err) {
		return rm.MkdirAll(dir, 0755)
	}
	if err != nil {
		return fmt.Errorf("failed to check directory %s: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", dir)
	}

	return nil
}

// ScanResult holds information about a scanned file or directory
type ScanResult struct {
	Path         string // Path relative to the data directory, slash separated
	Name         string
	IsDir        bool
	RelativePath string // Path relative to the scanned directory
}

// Scan walks the directory tree starting from dir, keeping the entries accepted by filter.
// Unreadable entries are skipped. Results come back in lexical walk order.
func (rm *RootManager) Scan(dir string, filter func(string, fs.DirEntry) bool) ([]ScanResult, error) {
	var results []ScanResult

	err := rm.withRoot(func(root *os.Root) error {
		return fs.WalkDir(root.FS(), dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Continue walking despite errors
			}

			if filter != nil && !filter(p, d) {
				return nil
			}

			relativePath := p
			if dir != "." && dir != "" {
				relativePath = strings.TrimPrefix(p, dir+"/")
			}

			results = append(results, ScanResult{
				Path:         p,
				Name:         d.Name(),
				IsDir:        d.IsDir(),
				RelativePath: relativePath,
			})

			return nil
		})
	})

	return results, err
}
