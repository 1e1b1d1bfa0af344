// Package cli provides the command-line interface layer for the provisioning
// tool, including step dispatch and the interactive menu. It wires the system
// collaborators into the provisioning steps.
package cli

import (
	"fmt"

	"github.com/mlopez-dev/vps-setup/internal/config"
	"github.com/mlopez-dev/vps-setup/internal/steps"
	"github.com/mlopez-dev/vps-setup/internal/system"
	"github.com/mlopez-dev/vps-setup/internal/ui"
)

// SetupContext holds all dependencies needed for provisioning operations
type SetupContext struct {
	Config *config.Config
	UI     *ui.UI
	Runner system.CommandRunner
	FS     system.FileSystemManager
	Fetch  system.Fetcher
}

// NewSetupContext creates a new SetupContext with all dependencies initialized
func NewSetupContext() (*SetupContext, error) {
	return NewSetupContextWithOptions(false)
}

// NewSetupContextWithOptions creates a new SetupContext with custom options
func NewSetupContextWithOptions(nonInteractive bool) (*SetupContext, error) {
	cfg := config.New("")
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	uiInstance := ui.New()
	uiInstance.SetNonInteractive(nonInteractive)

	return &SetupContext{
		Config: cfg,
		UI:     uiInstance,
		Runner: system.NewCommandRunner(),
		FS:     system.NewFileSystem(),
		Fetch:  system.NewHTTPFetcher(),
	}, nil
}

// StepInfo contains metadata about a provisioning step
type StepInfo struct {
	Name        string
	ShortName   string
	Description string
}

// GetAllSteps returns information about all steps in order
func GetAllSteps() []StepInfo {
	return []StepInfo{
		{Name: "Swap Provisioning", ShortName: "swap", Description: "Create and activate a swap file, persist swappiness"},
		{Name: "Docker Installation", ShortName: "docker", Description: "Install Docker Engine and Compose from the vendor repository"},
	}
}

// NewSwapProvisioner wires up the swap provisioning step
func NewSwapProvisioner(ctx *SetupContext) *steps.SwapProvisioner {
	swap := system.NewSwapManager(ctx.Runner)
	sysctl := system.NewSysctlManager(ctx.Runner, ctx.FS)
	return steps.NewSwapProvisioner(ctx.FS, swap, sysctl, ctx.Config, ctx.UI)
}

// NewDockerInstaller wires up the docker installation step for a target user.
// An empty username triggers the resolution chain (invoking user, saved
// choice, default).
func NewDockerInstaller(ctx *SetupContext, username string) *steps.DockerInstaller {
	resolved := steps.ResolveDockerUser(username, ctx.Config)
	return steps.NewDockerInstaller(ctx.FS, ctx.Runner, ctx.Fetch, ctx.Config, ctx.UI, resolved)
}

// RunStep executes a specific step by short name
func RunStep(ctx *SetupContext, shortName string) error {
	switch shortName {
	case "swap":
		return NewSwapProvisioner(ctx).Run()
	case "docker":
		return RunDocker(ctx, "")
	default:
		return fmt.Errorf("unknown step: %s", shortName)
	}
}

// RunDocker executes the docker installation step with an explicit username
func RunDocker(ctx *SetupContext, username string) error {
	return NewDockerInstaller(ctx, username).Run()
}

// RunAll runs both procedures in order
func RunAll(ctx *SetupContext, dockerUser string) error {
	if err := NewSwapProvisioner(ctx).Run(); err != nil {
		return fmt.Errorf("swap provisioning failed: %w", err)
	}
	if err := RunDocker(ctx, dockerUser); err != nil {
		return fmt.Errorf("docker installation failed: %w", err)
	}

	ctx.UI.Success("All provisioning steps completed successfully!")
	return nil
}
