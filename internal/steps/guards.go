package steps

import (
	"os"

	"github.com/mlopez-dev/vps-setup/internal/system"
)

// geteuid is a variable so privilege checks can be exercised in tests
var geteuid = os.Geteuid

// requireRoot ensures the procedure runs with elevated privileges
func requireRoot() Result {
	if geteuid() != 0 {
		return fatal(nil, "this command must be run as root (re-run with sudo)")
	}
	return successf("running with root privileges")
}

// requireApt ensures the Debian package manager is present
func requireApt(apt *system.AptManager) Result {
	if !apt.HasApt() {
		return fatal(nil, "apt-get not found; this tool supports Debian/Ubuntu hosts only")
	}
	return successf("apt-get is available")
}
