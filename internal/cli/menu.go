package cli

import "fmt"

// menu option labels, in display order
var menuOptions = []string{
	"Provision swap",
	"Install Docker",
	"Run everything",
	"Show status",
	"Exit",
}

// ShowMenu runs the interactive menu loop until the operator exits
func ShowMenu(ctx *SetupContext) error {
	if ctx.UI.IsNonInteractive() {
		return fmt.Errorf("the menu is not available in non-interactive mode; use 'run' instead")
	}

	ctx.UI.Header("VPS Setup")

	for {
		choice, err := ctx.UI.PromptSelect("What would you like to do?", menuOptions)
		if err != nil {
			return fmt.Errorf("failed to read menu selection: %w", err)
		}

		switch choice {
		case 0:
			if err := RunStep(ctx, "swap"); err != nil {
				ctx.UI.Errorf("swap provisioning failed: %v", err)
			}
		case 1:
			if err := RunStep(ctx, "docker"); err != nil {
				ctx.UI.Errorf("docker installation failed: %v", err)
			}
		case 2:
			if err := RunAll(ctx, ""); err != nil {
				ctx.UI.Errorf("provisioning failed: %v", err)
			}
		case 3:
			if err := ShowStatus(ctx); err != nil {
				ctx.UI.Errorf("status check failed: %v", err)
			}
		default:
			return nil
		}
	}
}
