package nomendex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"filippo.io/age"
)

const (
	// EncryptedNoteExt is the suffix of age-encrypted notes, e.g. "journal.md.age".
	EncryptedNoteExt = ".age"

	// IdentityFileName and PublicKeyFileName are the key files looked up in the keys directory.
	IdentityFileName  = "key.txt"
	PublicKeyFileName = "key.pub"
)

// EncryptionManager decrypts notes with age identities
type EncryptionManager struct {
	identities []age.Identity
	mu         sync.RWMutex
}

// NewEncryptionManager creates a new encryption manager without keys
func NewEncryptionManager() *EncryptionManager {
	return &EncryptionManager{}
}

// LoadIdentities loads the identities from an age identity file.
func (em *EncryptionManager) LoadIdentities(identitiesFile string) error {
	if identitiesFile == "" {
		return fmt.Errorf("no identity file specified")
	}

	file, err := os.Open(identitiesFile)
	if err != nil {
		return fmt.Errorf("failed to open identity file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return fmt.Errorf("failed to load identity file %s: %w", identitiesFile, err)
	}

	em.mu.Lock()
	defer em.mu.Unlock()
	em.identities = append(em.identities, identities...)
	return nil
}

// CanDecrypt returns true if at least one identity is loaded
func (em *EncryptionManager) CanDecrypt() bool {
	em.mu.RLock()
	defer em.mu.RUnlock()
	return len(em.identities) > 0
}

// Decrypt decrypts encrypted content using the configured identities
func (em *EncryptionManager) Decrypt(encryptedContent []byte) (string, error) {
	em.mu.RLock()
	defer em.mu.RUnlock()

	if len(em.identities) == 0 {
		return "", fmt.Errorf("no identities configured for decryption")
	}

	decryptReader, err := age.Decrypt(bytes.NewReader(encryptedContent), em.identities...)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, decryptReader); err != nil {
		return "", fmt.Errorf("failed to read decrypted content: %w", err)
	}

	return buf.String(), nil
}

// IsAgeEncrypted checks if content is age encrypted by looking for the format header
func IsAgeEncrypted(content []byte) bool {
	return bytes.HasPrefix(content, []byte("age-encryption.org/v1"))
}

// GenerateNewEncryptionPair generates a new X25519 key pair in keysDir as key.txt and key.pub,
// the private key readable only by the owner. Existing keys are never overwritten.
// Notes are encrypted outside the sidecar, e.g. `age -R key.pub -o note.md.age note.md`.
func GenerateNewEncryptionPair(keysDir string) (publicKey, publicPath, privatePath string, err error) {
	if strings.TrimSpace(keysDir) == "" {
		return "", "", "", fmt.Errorf("keys directory must be specified")
	}

	publicPath = filepath.Join(keysDir, PublicKeyFileName)
	privatePath = filepath.Join(keysDir, IdentityFileName)

	for _, p := range []string{privatePath, publicPath} {
		if _, err := os.Stat(p); err == nil {
			return "", "", "", fmt.Errorf("key file %s already exists", p)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", "", "", fmt.Errorf("failed to check key file %s: %w", p, err)
		}
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate identity: %w", err)
	}

	if err := os.MkdirAll(keysDir, 0700); err != nil {
		return "", "", "", fmt.Errorf("failed to create keys directory: %w", err)
	}

	publicKey = identity.Recipient().String()
	if err := os.WriteFile(publicPath, []byte(publicKey+"\n"), 0644); err != nil {
		return "", "", "", fmt.Errorf("failed to save public key: %w", err)
	}

	privateContent := fmt.Sprintf("# age identity file\n# generated: %s\n# public key: %s\n%s\n",
		time.Now().Format("2006-01-02 15:04:05"), publicKey, identity.String())
	if err := os.WriteFile(privatePath, []byte(privateContent), 0600); err != nil {
		return "", "", "", fmt.Errorf("failed to save private key: %w", err)
	}

	return publicKey, publicPath, privatePath, nil
}
