package cmd

import (
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "treescout" {
		t.Errorf("expected Use %q, got %q", "treescout", cmd.Use)
	}
	if !cmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}

	expected := []string{"analyze", "suggest", "comments", "history"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Version == "" {
		t.Error("expected a version to be set")
	}
}
