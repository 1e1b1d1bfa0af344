package system

import (
	"fmt"
	"strings"
)

// aptEnv keeps apt from blocking on debconf prompts during unattended runs
var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// AptManager wraps the Debian package manager (apt-get, dpkg-query).
type AptManager struct {
	runner CommandRunner
}

// NewAptManager creates a new AptManager instance
func NewAptManager(runner CommandRunner) *AptManager {
	return &AptManager{runner: runner}
}

// HasApt reports whether apt-get is available on this host
func (a *AptManager) HasApt() bool {
	return a.runner.LookPath("apt-get")
}

// Update refreshes the package index
func (a *AptManager) Update() error {
	output, err := a.runner.RunEnv(aptEnv, "apt-get", "update")
	if err != nil {
		return fmt.Errorf("apt-get update failed: %w\nOutput: %s", err, output)
	}
	return nil
}

// Install installs the given packages non-interactively
func (a *AptManager) Install(packages ...string) error {
	args := append([]string{"install", "-y"}, packages...)
	output, err := a.runner.RunEnv(aptEnv, "apt-get", args...)
	if err != nil {
		return fmt.Errorf("apt-get install %s failed: %w\nOutput: %s",
			strings.Join(packages, " "), err, output)
	}
	return nil
}

// IsInstalled checks if a package is installed. dpkg-query exits non-zero for
// unknown packages, which simply means "not installed".
func (a *AptManager) IsInstalled(packageName string) bool {
	output, err := a.runner.Run("dpkg-query", "-W", "-f=${Status}", packageName)
	if err != nil {
		return false
	}
	return strings.Contains(output, "install ok installed")
}

// InstalledVersion returns the version of an installed package
func (a *AptManager) InstalledVersion(packageName string) (string, error) {
	output, err := a.runner.Run("dpkg-query", "-W", "-f=${Version}", packageName)
	if err != nil {
		return "", fmt.Errorf("failed to get version for %s: %w", packageName, err)
	}
	return strings.TrimSpace(output), nil
}
