// Package steps implements the provisioning procedures as ordered lists of
// typed actions. Each action returns a Result tagged Success, Warning, or
// Fatal; the driver halts on Fatal and logs-and-continues on Warning. There
// are no retries and no rollback: an aborted run leaves the host in whatever
// state the last completed command produced.
package steps

import (
	"errors"
	"fmt"

	"github.com/mlopez-dev/vps-setup/internal/ui"
)

// Severity classifies an action outcome
type Severity int

const (
	// Success means the action converged the host to the desired state
	Success Severity = iota
	// Warning means the action could not fully succeed but the procedure
	// may safely continue (best-effort steps)
	Warning
	// Fatal means the procedure must stop immediately
	Fatal
)

// Result is the outcome of a single action
type Result struct {
	Severity Severity
	Message  string
	Err      error
}

// Action is one named unit of a provisioning procedure
type Action struct {
	Name string
	Run  func() Result
}

func successf(format string, args ...interface{}) Result {
	return Result{Severity: Success, Message: fmt.Sprintf(format, args...)}
}

func warningf(format string, args ...interface{}) Result {
	return Result{Severity: Warning, Message: fmt.Sprintf(format, args...)}
}

func fatal(err error, format string, args ...interface{}) Result {
	return Result{Severity: Fatal, Message: fmt.Sprintf(format, args...), Err: err}
}

// runActions executes actions in order, reporting each outcome through the
// UI. A Warning is logged and the sequence continues; a Fatal halts the
// sequence and is returned as an error.
func runActions(u *ui.UI, actions []Action) error {
	for _, action := range actions {
		u.Step(action.Name)

		result := action.Run()
		switch result.Severity {
		case Success:
			if result.Message != "" {
				u.Success(result.Message)
			}
		case Warning:
			u.Warning(result.Message)
		case Fatal:
			u.Error(result.Message)
			if result.Err != nil {
				return fmt.Errorf("%s: %w", result.Message, result.Err)
			}
			return errors.New(result.Message)
		}
	}
	return nil
}
