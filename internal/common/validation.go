// Package common provides input validation helpers shared by the CLI layer
// and the provisioning steps.
package common

import (
	"fmt"
	"path/filepath"
)

// ValidateUsername validates a Unix username
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) > 32 {
		return fmt.Errorf("username too long (max 32 characters): %s", username)
	}

	firstChar := username[0]
	if !((firstChar >= 'a' && firstChar <= 'z') || (firstChar >= 'A' && firstChar <= 'Z') || firstChar == '_') {
		return fmt.Errorf("username must start with a letter or underscore: %s", username)
	}

	for i := 1; i < len(username); i++ {
		c := username[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return fmt.Errorf("username contains invalid character %q: %s", c, username)
		}
	}

	return nil
}

// ValidatePath validates that a path is absolute
func ValidatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	return nil
}

// ValidateSwappiness validates a vm.swappiness value (0-100)
func ValidateSwappiness(value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("swappiness must be between 0 and 100, got: %d", value)
	}
	return nil
}

// ValidateSwapSizeGiB validates a swap file size in GiB
func ValidateSwapSizeGiB(size int) error {
	if size < 1 {
		return fmt.Errorf("swap size must be at least 1 GiB, got: %d", size)
	}
	if size > 256 {
		return fmt.Errorf("swap size larger than 256 GiB is almost certainly a mistake: %d", size)
	}
	return nil
}
