package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/dotkeep/internal/config"
)

// testConfig builds a config over fresh temp source and backup roots.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SourceRoot: t.TempDir(),
		BackupRoot: t.TempDir(),
		Retention:  config.DefaultRetention,
	}
}

func seedItem(t *testing.T, sourceRoot, item, file, content string) {
	t.Helper()
	path := filepath.Join(sourceRoot, item)
	if file != "" {
		path = filepath.Join(path, file)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBackupCommand_Metadata(t *testing.T) {
	if backupCmd.Use != "backup [item...]" {
		t.Errorf("Use = %q", backupCmd.Use)
	}
	for _, flag := range []string{"all", "interactive", "keep"} {
		if backupCmd.Flags().Lookup(flag) == nil {
			t.Errorf("--%s flag should be defined", flag)
		}
	}
}

func TestRunBackup_CreatesGenerationAndMirror(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "vim.opt.number = true")

	var buf bytes.Buffer
	if err := runBackupWithWriter(&buf, cfg, []string{"nvim"}, cfg.Retention); err != nil {
		t.Fatalf("runBackupWithWriter() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "✓ nvim") {
		t.Errorf("output missing success marker: %q", output)
	}
	if !strings.Contains(output, "Backed up 1 item(s)") {
		t.Errorf("output missing summary: %q", output)
	}

	// One generation exists on disk.
	entries, err := os.ReadDir(filepath.Join(cfg.BackupRoot, "nvim"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d generations, want 1", len(entries))
	}

	// The mirror holds the item payload.
	mirrored := filepath.Join(cfg.BackupRoot, "for-git", "nvim", "init.lua")
	if _, err := os.Stat(mirrored); err != nil {
		t.Errorf("mirror payload missing: %v", err)
	}
}

func TestRunBackup_FailedItemDoesNotAbortBatch(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "tmux", "tmux.conf", "set -g mouse on")

	var buf bytes.Buffer
	err := runBackupWithWriter(&buf, cfg, []string{"missing", "tmux"}, cfg.Retention)
	if err == nil {
		t.Fatal("expected error when an item fails")
	}

	output := buf.String()
	if !strings.Contains(output, "✗ missing") {
		t.Errorf("output missing failure marker: %q", output)
	}
	if !strings.Contains(output, "✓ tmux") {
		t.Errorf("later item should still be backed up: %q", output)
	}
	if !strings.Contains(output, "Backed up 1 item(s), 1 failed") {
		t.Errorf("output missing mixed summary: %q", output)
	}
}

func TestRunBackup_KeepOverridesRetention(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "x")

	// Back up several times with retention 2. Batches get distinct
	// timestamps via the collision suffix even within one second.
	for i := 0; i < 4; i++ {
		var buf bytes.Buffer
		if err := runBackupWithWriter(&buf, cfg, []string{"nvim"}, 2); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(cfg.BackupRoot, "nvim"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d generations, want 2 retained", len(entries))
	}
}
