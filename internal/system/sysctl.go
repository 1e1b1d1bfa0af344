package system

import (
	"fmt"
	"os"
)

// SysctlManager persists and applies kernel tunables via sysctl drop-in files.
type SysctlManager struct {
	runner CommandRunner
	fs     FileSystemManager
}

// NewSysctlManager creates a new SysctlManager instance
func NewSysctlManager(runner CommandRunner, fs FileSystemManager) *SysctlManager {
	return &SysctlManager{runner: runner, fs: fs}
}

// PersistSwappiness overwrites the drop-in file with a single
// vm.swappiness assignment. Full overwrite, never append, so repeated runs
// leave the file byte-identical.
func (s *SysctlManager) PersistSwappiness(value int, dropInPath string) error {
	content := fmt.Sprintf("vm.swappiness=%d\n", value)
	if err := s.fs.WriteFile(dropInPath, []byte(content), os.FileMode(0644)); err != nil {
		return fmt.Errorf("failed to write sysctl drop-in %s: %w", dropInPath, err)
	}
	return nil
}

// ApplySystem reloads all sysctl configuration files
func (s *SysctlManager) ApplySystem() error {
	output, err := s.runner.Run("sysctl", "--system")
	if err != nil {
		return fmt.Errorf("sysctl --system failed: %w\nOutput: %s", err, output)
	}
	return nil
}

// SetSwappiness sets the runtime value directly. Fallback for hosts whose
// sysctl does not support --system.
func (s *SysctlManager) SetSwappiness(value int) error {
	output, err := s.runner.Run("sysctl", "-w", fmt.Sprintf("vm.swappiness=%d", value))
	if err != nil {
		return fmt.Errorf("sysctl -w failed: %w\nOutput: %s", err, output)
	}
	return nil
}
