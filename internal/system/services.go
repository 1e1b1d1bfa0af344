package system

import "fmt"

// ServiceManager wraps systemd service control.
type ServiceManager struct {
	runner CommandRunner
}

// NewServiceManager creates a new ServiceManager instance
func NewServiceManager(runner CommandRunner) *ServiceManager {
	return &ServiceManager{runner: runner}
}

// EnableNow enables a service for boot and starts it immediately
func (s *ServiceManager) EnableNow(serviceName string) error {
	output, err := s.runner.Run("systemctl", "enable", "--now", serviceName)
	if err != nil {
		return fmt.Errorf("failed to enable and start service %s: %w\nOutput: %s",
			serviceName, err, output)
	}
	return nil
}

// IsActive checks if a service is currently active
func (s *ServiceManager) IsActive(serviceName string) bool {
	_, err := s.runner.Run("systemctl", "is-active", "--quiet", serviceName)
	return err == nil
}

// IsEnabled checks if a service is enabled to start on boot
func (s *ServiceManager) IsEnabled(serviceName string) bool {
	_, err := s.runner.Run("systemctl", "is-enabled", "--quiet", serviceName)
	return err == nil
}

// Status returns the status output for a service. systemctl status returns
// non-zero for inactive services; the output is still useful then.
func (s *ServiceManager) Status(serviceName string) string {
	output, _ := s.runner.Run("systemctl", "status", serviceName, "--no-pager", "-l")
	return output
}
