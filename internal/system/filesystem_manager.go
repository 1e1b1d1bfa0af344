package system

import "os"

// FileSystemManager defines the interface for file system operations used by
// the provisioning steps. This allows for mocking the file system in tests.
type FileSystemManager interface {
	FileExists(path string) (bool, error)
	FileSize(path string) (int64, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte, perms os.FileMode) error
	Chmod(path string, perms os.FileMode) error
	CopyFile(src, dst string) error
	BackupFile(path string) (string, error)
	Remove(path string) error
	EnsureDirectory(path string, perms os.FileMode) error
	FreeSpace(path string) (uint64, error)
}
