package main

import (
	"fmt"
	"os"

	"github.com/mlopez-dev/vps-setup/internal/cli"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear saved configuration",
	Long: `Remove the saved configuration file. The host itself is not touched:
existing swap files, fstab entries, and installed packages stay in place.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewSetupContextWithOptions(resetYes)
	if err != nil {
		return fmt.Errorf("failed to initialize setup context: %w", err)
	}

	path := ctx.Config.FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		ctx.UI.Info("No saved configuration to remove")
		return nil
	}

	confirmed, err := ctx.UI.PromptYesNo(fmt.Sprintf("Remove %s?", path), resetYes)
	if err != nil {
		return fmt.Errorf("failed to prompt: %w", err)
	}
	if !confirmed {
		ctx.UI.Info("Reset cancelled")
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	ctx.UI.Successf("Removed %s", path)
	return nil
}
