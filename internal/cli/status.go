package cli

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mlopez-dev/vps-setup/internal/config"
	"github.com/mlopez-dev/vps-setup/internal/steps"
	"github.com/mlopez-dev/vps-setup/internal/system"
)

// ShowStatus reports the live state of both procedures by inspecting the
// host, not by consulting any saved markers.
func ShowStatus(ctx *SetupContext) error {
	u := ctx.UI
	u.Header("Provisioning Status")

	swapFile := ctx.Config.GetOrDefault(config.KeySwapFile, "/swapfile")
	swap := system.NewSwapManager(ctx.Runner)

	u.Step("Swap")
	if active, err := swap.IsActive(swapFile); err != nil {
		u.Warningf("could not query active swap: %v", err)
	} else if active {
		u.Successf("%s is active as swap", swapFile)
	} else {
		u.Infof("%s is not active as swap", swapFile)
	}

	if exists, _ := ctx.FS.FileExists(swapFile); exists {
		if size, err := ctx.FS.FileSize(swapFile); err == nil {
			u.Infof("Swap file size: %s", humanize.IBytes(uint64(size)))
		}
	} else {
		u.Infof("Swap file %s does not exist", swapFile)
	}

	entry := steps.SwapFstabLine(swapFile)
	if data, err := ctx.FS.ReadFile("/etc/fstab"); err == nil {
		if containsLine(string(data), entry) {
			u.Successf("/etc/fstab contains the swap entry")
		} else {
			u.Infof("/etc/fstab has no entry for %s", swapFile)
		}
	}

	wantSwappiness := ctx.Config.GetOrDefault(config.KeySwappiness, "10")
	if data, err := ctx.FS.ReadFile("/etc/sysctl.d/99-swappiness.conf"); err == nil {
		if containsLine(string(data), "vm.swappiness="+wantSwappiness) {
			u.Successf("vm.swappiness=%s is persisted", wantSwappiness)
		} else {
			u.Warningf("sysctl drop-in present but does not match vm.swappiness=%s", wantSwappiness)
		}
	} else {
		u.Infof("No sysctl drop-in for swappiness")
	}

	u.Step("Docker")
	docker := system.NewDockerManager(ctx.Runner)
	services := system.NewServiceManager(ctx.Runner)

	if version, err := docker.CLIVersion(); err != nil {
		u.Infof("docker CLI not available")
	} else {
		u.Successf("%s", version)
		if services.IsActive("docker") {
			u.Success("docker service is active")
		} else {
			u.Warning("docker service is not active")
		}
	}

	if composeCmd, err := docker.ComposeCommand(); err != nil {
		u.Infof("compose not available")
	} else {
		u.Successf("compose available via '%s'", composeCmd)
	}

	dockerUser := ctx.Config.GetOrDefault(config.KeyDockerUser, "")
	if dockerUser != "" {
		users := system.NewUserManager(ctx.Runner)
		if in, err := users.IsInGroup(dockerUser, "docker"); err == nil && in {
			u.Successf("user %s is in the docker group", dockerUser)
		} else {
			u.Infof("user %s is not in the docker group", dockerUser)
		}
	}

	u.Print("")
	return nil
}

// containsLine reports whether content has a line exactly equal to want,
// ignoring surrounding whitespace
func containsLine(content, want string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}
