package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/thoreinstein/dotkeep/internal/config"
)

func TestRunList_NumbersItems(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "x")
	seedItem(t, cfg.SourceRoot, ".bashrc", "", "alias ll='ls -l'")

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, cfg); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}

	output := buf.String()
	// Sorted: .bashrc (file) before nvim (dir, trailing slash).
	if !strings.Contains(output, "1. .bashrc") {
		t.Errorf("output = %q", output)
	}
	if strings.Contains(output, ".bashrc/") {
		t.Errorf("file should not carry a dir marker: %q", output)
	}
	if !strings.Contains(output, "2. nvim/") {
		t.Errorf("output = %q", output)
	}
}

func TestRunList_EmptySourceRoot(t *testing.T) {
	cfg := testConfig(t)

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, cfg); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No items found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunList_MissingSourceRoot(t *testing.T) {
	cfg := &config.Config{
		SourceRoot: "/nonexistent/dotkeep-test-source",
		BackupRoot: t.TempDir(),
		Retention:  config.DefaultRetention,
	}

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, cfg); err == nil {
		t.Fatal("expected error for missing source root")
	}
}
