package main

import (
	"fmt"

	"github.com/mlopez-dev/vps-setup/internal/cli"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show provisioning status",
	Long:  `Inspect the host and report the current state of swap and docker provisioning.`,
	RunE:  showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewSetupContext()
	if err != nil {
		return fmt.Errorf("failed to initialize setup context: %w", err)
	}

	return cli.ShowStatus(ctx)
}
