package system

import (
	"fmt"
	"os"
	"os/user"
	"strings"
)

// UserManager wraps user and group management. Lookups go through the command
// runner (id, getent) rather than os/user so that step logic can be tested
// with a scripted fake.
type UserManager struct {
	runner CommandRunner
}

// NewUserManager creates a new UserManager instance
func NewUserManager(runner CommandRunner) *UserManager {
	return &UserManager{runner: runner}
}

// Exists checks if a user exists
func (u *UserManager) Exists(username string) bool {
	_, err := u.runner.Run("id", "-u", username)
	return err == nil
}

// GroupExists checks if a group exists
func (u *UserManager) GroupExists(groupName string) bool {
	_, err := u.runner.Run("getent", "group", groupName)
	return err == nil
}

// IsInGroup checks if a user is in a specific group
func (u *UserManager) IsInGroup(username, groupName string) (bool, error) {
	output, err := u.runner.Run("id", "-nG", username)
	if err != nil {
		return false, fmt.Errorf("failed to get groups for %s: %w", username, err)
	}

	for _, g := range strings.Fields(output) {
		if g == groupName {
			return true, nil
		}
	}
	return false, nil
}

// AddToGroup adds a user to a supplementary group
func (u *UserManager) AddToGroup(username, groupName string) error {
	output, err := u.runner.Run("usermod", "-aG", groupName, username)
	if err != nil {
		return fmt.Errorf("failed to add user %s to group %s: %w\nOutput: %s",
			username, groupName, err, output)
	}
	return nil
}

// InvokingUser returns the pre-privilege-escalation user: $SUDO_USER when the
// tool was invoked through sudo, otherwise the current non-root user. Returns
// an empty string when neither applies.
func InvokingUser() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		return sudoUser
	}

	if u, err := user.Current(); err == nil && u.Username != "" && u.Username != "root" {
		return u.Username
	}

	return ""
}
