package system

import (
	"fmt"
	"os"
	"sync"
)

// MockFileSystem is an in-memory FileSystemManager for testing. It captures
// written files and modes, serves reads from its Files map, and reports a
// configurable amount of free space.
type MockFileSystem struct {
	mu        sync.Mutex
	Files     map[string][]byte
	Modes     map[string]os.FileMode
	Dirs      []string
	Writes    []string // Paths in write order, one entry per WriteFile call
	Backups   []string
	FreeBytes uint64
	WriteErr  error
	BackupErr error
}

// NewMockFileSystem creates a new MockFileSystem with ample free space.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:     make(map[string][]byte),
		Modes:     make(map[string]os.FileMode),
		FreeBytes: 1 << 40,
	}
}

// FileExists reports whether the path is present in the Files map.
func (m *MockFileSystem) FileExists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[path]
	return ok, nil
}

// FileSize returns the length of the captured content.
func (m *MockFileSystem) FileSize(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[path]
	if !ok {
		return 0, fmt.Errorf("failed to stat file %s: %w", path, os.ErrNotExist)
	}
	return int64(len(data)), nil
}

// ReadFile serves the captured content.
func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: %w", path, os.ErrNotExist)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile captures the content that would be written to a file.
func (m *MockFileSystem) WriteFile(path string, content []byte, perms os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	stored := make([]byte, len(content))
	copy(stored, content)
	m.Files[path] = stored
	m.Modes[path] = perms
	m.Writes = append(m.Writes, path)
	return nil
}

// Chmod records the new mode.
func (m *MockFileSystem) Chmod(path string, perms os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Modes[path] = perms
	return nil
}

// CopyFile duplicates captured content.
func (m *MockFileSystem) CopyFile(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[src]
	if !ok {
		return fmt.Errorf("failed to open %s: %w", src, os.ErrNotExist)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.Files[dst] = stored
	return nil
}

// BackupFile records a backup copy with a fixed suffix.
func (m *MockFileSystem) BackupFile(path string) (string, error) {
	if m.BackupErr != nil {
		return "", m.BackupErr
	}
	exists, _ := m.FileExists(path)
	if !exists {
		return "", nil
	}
	backupPath := path + ".backup.test"
	if err := m.CopyFile(path, backupPath); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.Backups = append(m.Backups, backupPath)
	m.mu.Unlock()
	return backupPath, nil
}

// Remove deletes captured content.
func (m *MockFileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, path)
	delete(m.Modes, path)
	return nil
}

// EnsureDirectory records the directory creation.
func (m *MockFileSystem) EnsureDirectory(path string, perms os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dirs = append(m.Dirs, path)
	return nil
}

// FreeSpace reports the configured free space.
func (m *MockFileSystem) FreeSpace(path string) (uint64, error) {
	return m.FreeBytes, nil
}
