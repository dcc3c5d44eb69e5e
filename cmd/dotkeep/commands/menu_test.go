package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMenu_QuitImmediately(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "x")

	in := strings.NewReader("q\n")
	var out bytes.Buffer
	require.NoError(t, runMenuWithIO(in, &out, cfg))
	require.Contains(t, out.String(), "Bye.")
}

func TestRunMenu_BackupByNumberThenStop(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "x")
	seedItem(t, cfg.SourceRoot, "tmux", "tmux.conf", "y")

	// Items list sorted: 1=nvim, 2=tmux. Select 2, then decline more.
	in := strings.NewReader("2\nn\n")
	var out bytes.Buffer
	require.NoError(t, runMenuWithIO(in, &out, cfg))

	output := out.String()
	require.Contains(t, output, "1. nvim/")
	require.Contains(t, output, "2. tmux/")
	require.Contains(t, output, "✓ tmux")
	require.NotContains(t, output, "✓ nvim")

	_, err := os.Stat(filepath.Join(cfg.BackupRoot, "tmux"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.BackupRoot, "nvim"))
	require.True(t, os.IsNotExist(err), "nvim should not be backed up")
}

func TestRunMenu_AllThenHistoryThenQuit(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "x")
	seedItem(t, cfg.SourceRoot, "tmux", "tmux.conf", "y")

	// Back up everything, continue, view history, quit.
	in := strings.NewReader("all\ny\nh\nq\n")
	var out bytes.Buffer
	require.NoError(t, runMenuWithIO(in, &out, cfg))

	output := out.String()
	require.Contains(t, output, "Backed up 2 item(s)")
	require.Contains(t, output, "Item: nvim")
	require.Contains(t, output, "Item: tmux")
	require.Contains(t, output, "Mirror (for-git):")
}

func TestRunMenu_InvalidInputReprompts(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "x")

	in := strings.NewReader("zebra\n99\n1\nn\n")
	var out bytes.Buffer
	require.NoError(t, runMenuWithIO(in, &out, cfg))

	output := out.String()
	require.Contains(t, output, "Not a number")
	require.Contains(t, output, "Out of range")
	require.Contains(t, output, "✓ nvim")
}

func TestRunMenu_EOFExitsCleanly(t *testing.T) {
	cfg := testConfig(t)
	seedItem(t, cfg.SourceRoot, "nvim", "init.lua", "x")

	in := strings.NewReader("")
	var out bytes.Buffer
	require.NoError(t, runMenuWithIO(in, &out, cfg))
	require.Contains(t, out.String(), "Bye.")
}
