package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/paths"
	"github.com/thoreinstein/dotkeep/internal/snapshot"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// humanSize formats a byte count for display.
func humanSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.2f GB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// generationTime formats a generation ID as a local timestamp for display.
// Collision-suffixed IDs (20060102_150405_2) share the base timestamp.
func generationTime(id string) string {
	base := id
	if len(base) > len(snapshot.TimestampLayout) {
		base = base[:len(snapshot.TimestampLayout)]
	}
	t, err := time.ParseInLocation(snapshot.TimestampLayout, base, time.Local)
	if err != nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// validateItemNames rejects names that would escape the backup tree or
// collide with the mirror folder.
func validateItemNames(names []string) error {
	for _, name := range names {
		switch {
		case name == "" || name == "." || name == "..":
			return errors.Newf("invalid item name %q", name)
		case strings.ContainsAny(name, "/\\"):
			return errors.Newf("invalid item name %q: must be a plain entry name", name)
		case name == paths.MirrorDirName:
			return errors.Newf("%q is reserved for the mirror folder", name)
		}
	}
	return nil
}
