package system

import (
	"fmt"
	"strings"
)

// DockerManager wraps docker CLI and compose detection.
type DockerManager struct {
	runner CommandRunner
}

// NewDockerManager creates a new DockerManager instance
func NewDockerManager(runner CommandRunner) *DockerManager {
	return &DockerManager{runner: runner}
}

// CLIVersion returns the docker CLI version string, verifying that the CLI is
// reachable at all.
func (d *DockerManager) CLIVersion() (string, error) {
	output, err := d.runner.Run("docker", "--version")
	if err != nil {
		return "", fmt.Errorf("docker CLI not reachable: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// ComposePluginVersion checks the native compose plugin and returns its
// version output.
func (d *DockerManager) ComposePluginVersion() (string, error) {
	output, err := d.runner.Run("docker", "compose", "version")
	if err != nil {
		return "", fmt.Errorf("docker compose plugin not working: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// ComposeStandaloneVersion checks the standalone docker-compose binary and
// returns its version output.
func (d *DockerManager) ComposeStandaloneVersion() (string, error) {
	output, err := d.runner.Run("docker-compose", "--version")
	if err != nil {
		return "", fmt.Errorf("docker-compose not working: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// ComposeCommand returns the compose invocation to use, preferring the native
// plugin over the standalone binary.
func (d *DockerManager) ComposeCommand() (string, error) {
	if _, err := d.ComposePluginVersion(); err == nil {
		return "docker compose", nil
	}
	if _, err := d.ComposeStandaloneVersion(); err == nil {
		return "docker-compose", nil
	}
	return "", fmt.Errorf("neither the compose plugin nor docker-compose is available")
}
