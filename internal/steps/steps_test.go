package steps

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mlopez-dev/vps-setup/internal/system"
	"github.com/mlopez-dev/vps-setup/internal/ui"
)

func TestRunActions(t *testing.T) {
	t.Run("warning continues the sequence", func(t *testing.T) {
		var order []string
		actions := []Action{
			{Name: "first", Run: func() Result { order = append(order, "first"); return successf("ok") }},
			{Name: "second", Run: func() Result { order = append(order, "second"); return warningf("degraded") }},
			{Name: "third", Run: func() Result { order = append(order, "third"); return successf("ok") }},
		}

		if err := runActions(ui.NewWithWriter(&bytes.Buffer{}), actions); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 3 {
			t.Errorf("executed %d actions, want 3: %v", len(order), order)
		}
	})

	t.Run("fatal halts the sequence", func(t *testing.T) {
		var order []string
		actions := []Action{
			{Name: "first", Run: func() Result { order = append(order, "first"); return successf("ok") }},
			{Name: "second", Run: func() Result { order = append(order, "second"); return fatal(errScripted, "broken") }},
			{Name: "third", Run: func() Result { order = append(order, "third"); return successf("ok") }},
		}

		err := runActions(ui.NewWithWriter(&bytes.Buffer{}), actions)
		if err == nil {
			t.Fatal("expected an error from the fatal action")
		}
		if !strings.Contains(err.Error(), "broken") {
			t.Errorf("error = %q, want it to carry the fatal message", err)
		}
		if len(order) != 2 {
			t.Errorf("executed %d actions, want 2 (halt after fatal): %v", len(order), order)
		}
	})

	t.Run("fatal without cause still errors", func(t *testing.T) {
		actions := []Action{
			{Name: "guard", Run: func() Result { return fatal(nil, "not allowed") }},
		}
		err := runActions(ui.NewWithWriter(&bytes.Buffer{}), actions)
		if err == nil || err.Error() != "not allowed" {
			t.Errorf("error = %v, want %q", err, "not allowed")
		}
	})
}

func TestRequireRoot(t *testing.T) {
	orig := geteuid
	t.Cleanup(func() { geteuid = orig })

	geteuid = func() int { return 0 }
	if res := requireRoot(); res.Severity != Success {
		t.Errorf("as root: severity = %v, want Success", res.Severity)
	}

	geteuid = func() int { return 1000 }
	if res := requireRoot(); res.Severity != Fatal {
		t.Errorf("as non-root: severity = %v, want Fatal", res.Severity)
	}
}

func TestRequireApt(t *testing.T) {
	runner := system.NewMockCommandRunner()
	if res := requireApt(system.NewAptManager(runner)); res.Severity != Success {
		t.Errorf("with apt-get: severity = %v, want Success", res.Severity)
	}

	runner.MissingCommands["apt-get"] = true
	if res := requireApt(system.NewAptManager(runner)); res.Severity != Fatal {
		t.Errorf("without apt-get: severity = %v, want Fatal", res.Severity)
	}
}

func TestNewSwapProvisionerDefaults(t *testing.T) {
	fs := system.NewMockFileSystem()
	runner := system.NewMockCommandRunner()

	s := newTestSwap(t, fs, runner)
	if s.SwapFile != "/swapfile" {
		t.Errorf("SwapFile = %q, want /swapfile", s.SwapFile)
	}
	if s.SizeBytes != 2<<30 {
		t.Errorf("SizeBytes = %d, want %d", s.SizeBytes, 2<<30)
	}
	if s.Swappiness != 10 {
		t.Errorf("Swappiness = %d, want 10", s.Swappiness)
	}
}

func TestNewDockerInstallerDefaults(t *testing.T) {
	f := newTestDocker(t, "deploy")
	if f.installer.Username != "deploy" {
		t.Errorf("Username = %q, want deploy", f.installer.Username)
	}
	if f.installer.ComposeVersion != "v2.27.0" {
		t.Errorf("ComposeVersion = %q, want v2.27.0", f.installer.ComposeVersion)
	}
}
