package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputPrefixes(t *testing.T) {
	var buf bytes.Buffer
	u := NewWithWriter(&buf)

	u.Info("hello")
	u.Successf("done in %d steps", 3)
	u.Warning("careful")
	u.Error("broken")
	u.Step("Checking things")

	out := buf.String()
	for _, want := range []string{
		"[INFO] hello",
		"[✓] done in 3 steps",
		"[WARNING] careful",
		"[ERROR] broken",
		"==> Checking things",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNonInteractivePrompts(t *testing.T) {
	u := NewWithWriter(&bytes.Buffer{})
	u.SetNonInteractive(true)

	yes, err := u.PromptYesNo("continue?", true)
	if err != nil || !yes {
		t.Errorf("PromptYesNo = (%v, %v), want (true, nil)", yes, err)
	}

	got, err := u.PromptInput("username?", "deploy")
	if err != nil || got != "deploy" {
		t.Errorf("PromptInput = (%q, %v), want (deploy, nil)", got, err)
	}

	// Selection has no sensible default; non-interactive mode must refuse
	if _, err := u.PromptSelect("pick", []string{"a", "b"}); err == nil {
		t.Error("PromptSelect should fail in non-interactive mode")
	}
}
