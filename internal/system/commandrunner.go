// Package system provides low-level system operations for the provisioning
// tool: command execution, filesystem access, swap and sysctl handling, apt
// package management, systemd service control, user/group management, OS
// release detection, docker runtime detection, and HTTP fetching. Everything
// that touches the OS is encapsulated here behind small, mockable seams.
package system

import (
	"os"
	"os/exec"
)

// CommandRunner defines an interface for running system commands. It is the
// main seam between provisioning logic and the host, so step logic can be
// tested with a scripted fake instead of real OS mutation.
type CommandRunner interface {
	// Run executes a command and returns its combined output.
	Run(name string, args ...string) (string, error)
	// RunEnv executes a command with extra environment variables appended
	// to the current environment.
	RunEnv(env []string, name string, args ...string) (string, error)
	// LookPath reports whether a command is available in PATH.
	LookPath(name string) bool
}

// ExecCommandRunner executes commands on the local host.
type ExecCommandRunner struct{}

// NewCommandRunner returns a default command runner implementation.
func NewCommandRunner() CommandRunner {
	return &ExecCommandRunner{}
}

// Run executes a command and returns its combined output.
func (r *ExecCommandRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// RunEnv executes a command with extra environment variables.
func (r *ExecCommandRunner) RunEnv(env []string, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// LookPath reports whether a command is available in PATH.
func (r *ExecCommandRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
