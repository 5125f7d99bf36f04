// Package settings persists cross-session UI preferences as a single JSON
// object file. Callers own individual fields; the store preserves every
// field it does not understand, so independent writers never clobber each
// other's keys.
package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFileName is the well-known settings file name.
const DefaultFileName = "appsettings.json"

// Blob is the decoded settings object. Values stay raw so sibling fields
// written by other components round-trip untouched.
type Blob map[string]json.RawMessage

// Store reads and writes the persisted settings blob.
type Store interface {
	// Load returns the current blob. On any read failure (absent file,
	// unreadable, malformed JSON) it returns an empty blob along with the
	// underlying error so callers can choose to observe the failure.
	Load() (Blob, error)
	// Merge performs a read-modify-write: the given fields replace their
	// keys in the persisted blob, all other keys are preserved.
	Merge(fields Blob) error
}

// FileStore is the production Store backed by one JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store for the given path. An empty path places the
// file in the user config directory, falling back to the OS temp directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		path = filepath.Join(base, "lumen", DefaultFileName)
	}
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore) Merge(fields Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A corrupt or missing file must not block writes: start from empty.
	blob, _ := s.readLocked()
	for k, v := range fields {
		blob[k] = v
	}
	return s.writeLocked(blob)
}

func (s *FileStore) readLocked() (Blob, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Blob{}, err
	}
	if err != nil {
		return Blob{}, err
	}
	if len(data) == 0 {
		return Blob{}, nil
	}
	blob := Blob{}
	if err := json.Unmarshal(data, &blob); err != nil {
		return Blob{}, err
	}
	return blob, nil
}

func (s *FileStore) writeLocked(blob Blob) error {
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, ".appsettings-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// String returns the string value stored under key, if present and valid.
func (b Blob) String(key string) (string, bool) {
	raw, ok := b[key]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// SetString encodes a string value under key.
func (b Blob) SetString(key, value string) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	b[key] = data
}
