package main

import (
	"fmt"
	"os"

	"github.com/mlopez-dev/vps-setup/internal/cli"
	"github.com/mlopez-dev/vps-setup/pkg/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vps-setup",
	Short: "Debian/Ubuntu VPS provisioning tool",
	Long: `A provisioning tool for freshly installed Debian/Ubuntu hosts.

Two procedures are available:
- swap: create and activate a fixed-size swap file, register it in
  /etc/fstab, and persist vm.swappiness via a sysctl drop-in
- docker: install Docker Engine, CLI, and Compose from Docker's apt
  repository, start the service, and grant a user docker access

Both procedures are idempotent and must be run as root.

Run without arguments to launch the interactive menu.`,
	SilenceUsage:  true, // We handle errors manually, but silence usage on error
	SilenceErrors: true, // We format errors ourselves for consistent output
	RunE:          runInteractiveMenu,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Launch interactive menu",
	Long:  `Launch the interactive menu interface for provisioning.`,
	RunE:  runInteractiveMenu,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(menuCmd)
}

func runInteractiveMenu(cmd *cobra.Command, args []string) error {
	ctx, err := cli.NewSetupContext()
	if err != nil {
		return fmt.Errorf("failed to initialize setup context: %w", err)
	}

	return cli.ShowMenu(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
