package main

import (
	"fmt"
	"strconv"

	"github.com/mlopez-dev/vps-setup/internal/cli"
	"github.com/mlopez-dev/vps-setup/internal/common"
	"github.com/mlopez-dev/vps-setup/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Flags for non-interactive mode
	nonInteractive bool
	swapFilePath   string
	swapSizeGiB    int
	swappiness     int
	dockerUser     string
)

var runCmd = &cobra.Command{
	Use:   "run [swap|docker|all] [username]",
	Short: "Run provisioning procedures",
	Long: `Run one or both provisioning procedures.

Procedures:
  all     - Run swap provisioning, then docker installation
  swap    - Swap file, fstab entry, and swappiness
  docker  - Docker Engine, Compose, service, and user access

The optional username argument applies to the docker procedure and names
the user to grant docker access (defaults to the invoking user).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runProvisioning,
}

func init() {
	runCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Run in non-interactive mode")
	runCmd.Flags().StringVar(&swapFilePath, "swap-file", "", "Path of the swap file")
	runCmd.Flags().IntVar(&swapSizeGiB, "swap-size", 0, "Swap file size in GiB")
	runCmd.Flags().IntVar(&swappiness, "swappiness", -1, "vm.swappiness value to persist")
	runCmd.Flags().StringVar(&dockerUser, "docker-user", "", "User to grant docker access")

	rootCmd.AddCommand(runCmd)
}

func runProvisioning(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewSetupContextWithOptions(nonInteractive)
	if err != nil {
		return fmt.Errorf("failed to initialize setup context: %w", err)
	}

	if err := applyRunFlags(cmd, ctx); err != nil {
		return err
	}

	username := dockerUser
	if len(args) == 2 {
		username = args[1]
	}
	if username != "" {
		if err := common.ValidateUsername(username); err != nil {
			return err
		}
	}

	switch args[0] {
	case "all":
		return cli.RunAll(ctx, username)
	case "swap":
		return cli.RunStep(ctx, "swap")
	case "docker":
		return cli.RunDocker(ctx, username)
	default:
		return fmt.Errorf("unknown procedure: %s", args[0])
	}
}

// applyRunFlags validates and persists any provided flag values so they
// become the defaults for future runs
func applyRunFlags(cmd *cobra.Command, ctx *cli.SetupContext) error {
	if cmd.Flags().Changed("swap-file") {
		if err := common.ValidatePath(swapFilePath); err != nil {
			return err
		}
		if err := ctx.Config.Set(config.KeySwapFile, swapFilePath); err != nil {
			return fmt.Errorf("failed to save swap file path: %w", err)
		}
	}

	if cmd.Flags().Changed("swap-size") {
		if err := common.ValidateSwapSizeGiB(swapSizeGiB); err != nil {
			return err
		}
		if err := ctx.Config.Set(config.KeySwapSizeGiB, strconv.Itoa(swapSizeGiB)); err != nil {
			return fmt.Errorf("failed to save swap size: %w", err)
		}
	}

	if cmd.Flags().Changed("swappiness") {
		if err := common.ValidateSwappiness(swappiness); err != nil {
			return err
		}
		if err := ctx.Config.Set(config.KeySwappiness, strconv.Itoa(swappiness)); err != nil {
			return fmt.Errorf("failed to save swappiness: %w", err)
		}
	}

	return nil
}
