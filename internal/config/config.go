// Package config provides thread-safe configuration management for the
// provisioning tool: a plain key=value file holding the operator's chosen
// defaults (swap size, swappiness, docker user). All writes are atomic.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Config manages vps-setup configuration with thread-safe operations
type Config struct {
	filePath string
	data     map[string]string
	loaded   bool // Track if configuration has been loaded from disk
	mu       sync.RWMutex
}

// New creates a new Config instance. An empty filePath selects the default
// location under the invoking user's home directory.
func New(filePath string) *Config {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "/root" // This tool runs with elevated privileges
		}
		filePath = filepath.Join(home, ".vps-setup.conf")
	}

	return &Config{
		filePath: filePath,
		data:     make(map[string]string),
	}
}

// ensureLoaded loads configuration data from disk once before read operations.
// This method must only be called while holding c.mu.RLock or c.mu.Lock.
func (c *Config) ensureLoaded() error {
	if c.loaded {
		return nil
	}
	return c.Load()
}

// Load reads configuration from file
func (c *Config) Load() error {
	// If file doesn't exist, that's okay - we'll create it on Save
	if _, err := os.Stat(c.filePath); os.IsNotExist(err) {
		c.loaded = true
		return nil
	}

	file, err := os.Open(c.filePath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			c.data[key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	c.loaded = true
	return nil
}

// Save writes configuration to file using atomic write pattern
func (c *Config) Save() error {
	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create temporary file in the same directory for atomic rename
	tmpFile, err := os.CreateTemp(dir, ".vps-setup.conf.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // Cleanup on error

	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}

	fmt.Fprintln(tmpFile, "# vps-setup configuration")
	fmt.Fprintf(tmpFile, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintln(tmpFile, "")

	for key, value := range c.data {
		fmt.Fprintf(tmpFile, "%s=%s\n", key, value)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file to config: %w", err)
	}

	return nil
}

// Get retrieves a configuration value (thread-safe)
func (c *Config) Get(key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.ensureLoaded(); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	value, exists := c.data[key]
	if !exists {
		return "", fmt.Errorf("config key not found: %s", key)
	}
	return value, nil
}

// GetOrDefault retrieves a value or returns a default if not found (thread-safe).
// First checks the config file, then the Defaults table, then the provided fallback.
func (c *Config) GetOrDefault(key, defaultValue string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.ensureLoaded(); err != nil {
		return defaultValue
	}
	if value, exists := c.data[key]; exists {
		return value
	}
	if tableDefault, exists := Defaults[key]; exists {
		return tableDefault
	}
	return defaultValue
}

// Set sets a configuration value and saves the file (thread-safe)
func (c *Config) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Load existing configuration first to avoid overwriting
	if !c.loaded {
		if err := c.Load(); err != nil {
			return fmt.Errorf("failed to load existing config before set: %w", err)
		}
	}

	c.data[key] = value
	return c.Save()
}

// Exists checks if a key exists (thread-safe)
func (c *Config) Exists(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.ensureLoaded(); err != nil {
		return false
	}
	_, exists := c.data[key]
	return exists
}

// GetAll returns a copy of all configuration data (thread-safe)
func (c *Config) GetAll() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.ensureLoaded(); err != nil {
		return map[string]string{}
	}
	result := make(map[string]string, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

// Delete removes a configuration key (thread-safe)
func (c *Config) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		if err := c.Load(); err != nil {
			return fmt.Errorf("failed to load existing config before delete: %w", err)
		}
	}

	delete(c.data, key)
	return c.Save()
}

// FilePath returns the configuration file path
func (c *Config) FilePath() string {
	return c.filePath
}
