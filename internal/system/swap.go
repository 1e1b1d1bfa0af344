package system

import (
	"fmt"
	"strings"
)

// SwapManager wraps the swap-related system commands (swapon, mkswap,
// fallocate, dd, blkid).
type SwapManager struct {
	runner CommandRunner
}

// NewSwapManager creates a new SwapManager instance
func NewSwapManager(runner CommandRunner) *SwapManager {
	return &SwapManager{runner: runner}
}

// IsActive reports whether the given path is listed as an active swap device
func (s *SwapManager) IsActive(path string) (bool, error) {
	output, err := s.runner.Run("swapon", "--show=NAME", "--noheadings")
	if err != nil {
		return false, fmt.Errorf("failed to list active swap devices: %w", err)
	}

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == path {
			return true, nil
		}
	}
	return false, nil
}

// IsFormatted reports whether the file at path already carries a swap
// signature. Probe failures are treated as "not formatted" (best effort).
func (s *SwapManager) IsFormatted(path string) bool {
	output, err := s.runner.Run("blkid", "-o", "value", "-s", "TYPE", path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(output) == "swap"
}

// Format initializes the file as swap space
func (s *SwapManager) Format(path string) error {
	output, err := s.runner.Run("mkswap", path)
	if err != nil {
		return fmt.Errorf("mkswap %s failed: %w\nOutput: %s", path, err, output)
	}
	return nil
}

// Enable activates the file as swap
func (s *SwapManager) Enable(path string) error {
	output, err := s.runner.Run("swapon", path)
	if err != nil {
		return fmt.Errorf("swapon %s failed: %w\nOutput: %s", path, err, output)
	}
	return nil
}

// Allocate creates a file of the given size, preferring fast preallocation
// and falling back to a block-by-block zero fill when fallocate is
// unavailable or fails (e.g. on filesystems without extent support).
func (s *SwapManager) Allocate(path string, sizeBytes int64) error {
	if _, err := s.runner.Run("fallocate", "-l", fmt.Sprintf("%d", sizeBytes), path); err == nil {
		return nil
	}

	blocks := sizeBytes / (1 << 20)
	output, err := s.runner.Run("dd", "if=/dev/zero", "of="+path, "bs=1M",
		fmt.Sprintf("count=%d", blocks))
	if err != nil {
		return fmt.Errorf("dd zero-fill of %s failed: %w\nOutput: %s", path, err, output)
	}
	return nil
}

// ActiveSummary returns the output of swapon --show
func (s *SwapManager) ActiveSummary() (string, error) {
	output, err := s.runner.Run("swapon", "--show")
	if err != nil {
		return "", fmt.Errorf("failed to get swap status: %w", err)
	}
	return output, nil
}

// MemorySummary returns the output of free -h
func (s *SwapManager) MemorySummary() (string, error) {
	output, err := s.runner.Run("free", "-h")
	if err != nil {
		return "", fmt.Errorf("failed to get memory summary: %w", err)
	}
	return output, nil
}
