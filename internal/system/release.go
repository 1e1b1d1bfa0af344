package system

import (
	"fmt"
	"strings"
)

const osReleaseDefaultPath = "/etc/os-release"

// Release derives host OS identity: distribution, codename, CPU architecture.
type Release struct {
	runner        CommandRunner
	fs            FileSystemManager
	osReleasePath string
}

// NewRelease creates a new Release instance
func NewRelease(runner CommandRunner, fs FileSystemManager) *Release {
	return &Release{
		runner:        runner,
		fs:            fs,
		osReleasePath: osReleaseDefaultPath,
	}
}

// parseOSRelease parses os-release style KEY=VALUE data, stripping quotes
func parseOSRelease(data []byte) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		values[strings.TrimSpace(parts[0])] = value
	}
	return values
}

func (r *Release) osRelease() (map[string]string, error) {
	data, err := r.fs.ReadFile(r.osReleasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.osReleasePath, err)
	}
	return parseOSRelease(data), nil
}

// DistroID returns the distribution identifier (e.g. "ubuntu", "debian")
func (r *Release) DistroID() (string, error) {
	values, err := r.osRelease()
	if err != nil {
		return "", err
	}

	id := values["ID"]
	if id == "" {
		return "", fmt.Errorf("no ID field in %s", r.osReleasePath)
	}
	return id, nil
}

// Codename returns the release codename (e.g. "jammy", "bookworm"), reading
// os-release first and falling back to lsb_release on older hosts.
func (r *Release) Codename() (string, error) {
	if values, err := r.osRelease(); err == nil {
		if codename := values["VERSION_CODENAME"]; codename != "" {
			return codename, nil
		}
	}

	output, err := r.runner.Run("lsb_release", "-cs")
	if err != nil {
		return "", fmt.Errorf("could not determine release codename: %w", err)
	}

	codename := strings.TrimSpace(output)
	if codename == "" {
		return "", fmt.Errorf("could not determine release codename")
	}
	return codename, nil
}

// Architecture returns the package architecture (e.g. "amd64", "arm64")
func (r *Release) Architecture() (string, error) {
	output, err := r.runner.Run("dpkg", "--print-architecture")
	if err != nil {
		return "", fmt.Errorf("failed to get architecture: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// KernelName returns the kernel name from uname -s (e.g. "Linux")
func (r *Release) KernelName() (string, error) {
	output, err := r.runner.Run("uname", "-s")
	if err != nil {
		return "", fmt.Errorf("failed to get kernel name: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// Machine returns the machine hardware name from uname -m (e.g. "x86_64")
func (r *Release) Machine() (string, error) {
	output, err := r.runner.Run("uname", "-m")
	if err != nil {
		return "", fmt.Errorf("failed to get machine type: %w", err)
	}
	return strings.TrimSpace(output), nil
}
