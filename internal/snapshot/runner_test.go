package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thoreinstein/dotkeep/internal/logging"
	"github.com/thoreinstein/dotkeep/internal/paths"
)

// stepClock returns a sequence of times one minute apart, so every batch in
// a test gets a distinct timestamp.
type stepClock struct {
	current time.Time
}

func newStepClock() *stepClock {
	return &stepClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	t := c.current
	c.current = c.current.Add(time.Minute)
	return t
}

func TestRunner_RunBatch_SharedTimestamp(t *testing.T) {
	backupRoot := t.TempDir()
	srcRoot := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "nvim", "init.lua"), "-- init\n")
	writeFile(t, filepath.Join(srcRoot, "bashrc"), "export A=1\n")

	r := NewRunner(backupRoot,
		WithClock(newStepClock()),
		WithLogger(logging.ForTest(t)))

	sum := r.RunBatch(srcRoot, []string{"nvim", "bashrc"})

	if sum.Succeeded != 2 || sum.Failed != 0 {
		t.Fatalf("Succeeded=%d Failed=%d, want 2/0", sum.Succeeded, sum.Failed)
	}
	if sum.Timestamp != "20250101_120000" {
		t.Errorf("Timestamp = %q", sum.Timestamp)
	}
	for _, res := range sum.Results {
		if res.GenerationID != sum.Timestamp {
			t.Errorf("item %s generation %q, want batch timestamp %q",
				res.Item, res.GenerationID, sum.Timestamp)
		}
	}
}

func TestRunner_RunBatch_BatchIndependence(t *testing.T) {
	backupRoot := t.TempDir()
	srcRoot := t.TempDir()
	// Item A does not exist; item B does.
	writeFile(t, filepath.Join(srcRoot, "b-item", "b.conf"), "b\n")

	r := NewRunner(backupRoot,
		WithClock(newStepClock()),
		WithLogger(logging.ForTest(t)))

	sum := r.RunBatch(srcRoot, []string{"a-item", "b-item"})

	if sum.Succeeded != 1 || sum.Failed != 1 {
		t.Fatalf("Succeeded=%d Failed=%d, want 1/1", sum.Succeeded, sum.Failed)
	}

	if !sum.Results[0].Failed() {
		t.Error("missing item should be a failure")
	}
	if sum.Results[1].Failed() {
		t.Errorf("existing item failed: %v", sum.Results[1].Err)
	}

	// B's generation and mirror exist normally.
	genPayload := filepath.Join(backupRoot, "b-item", sum.Timestamp, "b-item", "b.conf")
	if _, err := os.Stat(genPayload); err != nil {
		t.Errorf("b-item generation missing: %v", err)
	}
	mirrorPayload := filepath.Join(backupRoot, paths.MirrorDirName, "b-item", "b.conf")
	if _, err := os.Stat(mirrorPayload); err != nil {
		t.Errorf("b-item mirror missing: %v", err)
	}

	// A must have no item folder at all.
	if _, err := os.Stat(filepath.Join(backupRoot, "a-item")); !os.IsNotExist(err) {
		t.Error("failed item left folder behind")
	}
}

func TestRunner_RetentionBound(t *testing.T) {
	backupRoot := t.TempDir()
	srcRoot := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "nvim", "init.lua"), "-- init\n")

	clock := newStepClock()
	r := NewRunner(backupRoot,
		WithRetention(5),
		WithClock(clock),
		WithLogger(logging.ForTest(t)))

	var stamps []string
	for i := 0; i < 7; i++ {
		sum := r.RunBatch(srcRoot, []string{"nvim"})
		if sum.Failed != 0 {
			t.Fatalf("batch %d failed: %+v", i+1, sum.Results)
		}
		stamps = append(stamps, sum.Timestamp)
	}

	gens, err := r.Store().ListGenerations("nvim")
	if err != nil {
		t.Fatal(err)
	}

	// Exactly the 5 newest of the 7 remain, newest first.
	want := []string{stamps[6], stamps[5], stamps[4], stamps[3], stamps[2]}
	if len(gens) != len(want) {
		t.Fatalf("got %d generations, want %d", len(gens), len(want))
	}
	for i, id := range want {
		if gens[i].ID != id {
			t.Errorf("gens[%d] = %q, want %q", i, gens[i].ID, id)
		}
	}

	// The two oldest are gone from disk.
	for _, id := range stamps[:2] {
		if _, err := os.Stat(filepath.Join(backupRoot, "nvim", id)); !os.IsNotExist(err) {
			t.Errorf("evicted generation %s still on disk", id)
		}
	}
}

func TestRunner_SingleFileItemLayout(t *testing.T) {
	backupRoot := t.TempDir()
	srcRoot := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "bashrc"), "export A=1\n")

	r := NewRunner(backupRoot,
		WithClock(newStepClock()),
		WithLogger(logging.ForTest(t)))

	sum := r.RunBatch(srcRoot, []string{"bashrc"})
	if sum.Succeeded != 1 {
		t.Fatalf("batch failed: %+v", sum.Results)
	}

	genPayload := filepath.Join(backupRoot, "bashrc", sum.Timestamp, "bashrc")
	info, err := os.Stat(genPayload)
	if err != nil {
		t.Fatalf("generation payload missing: %v", err)
	}
	if info.IsDir() {
		t.Error("generation payload should be a file")
	}

	mirrorPayload := filepath.Join(backupRoot, paths.MirrorDirName, "bashrc")
	data, err := os.ReadFile(mirrorPayload)
	if err != nil {
		t.Fatalf("mirror payload missing: %v", err)
	}
	if string(data) != "export A=1\n" {
		t.Errorf("mirror content = %q", data)
	}
}

func TestRunner_MirrorSurvivesRetention(t *testing.T) {
	backupRoot := t.TempDir()
	srcRoot := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "app", "a.conf"), "a\n")

	r := NewRunner(backupRoot,
		WithRetention(2),
		WithClock(newStepClock()),
		WithLogger(logging.ForTest(t)))

	for i := 0; i < 4; i++ {
		if sum := r.RunBatch(srcRoot, []string{"app"}); sum.Failed != 0 {
			t.Fatalf("batch %d failed", i+1)
		}
	}

	// Retention pruned generations, but never the mirror.
	if _, err := os.Stat(filepath.Join(backupRoot, paths.MirrorDirName, "app", "a.conf")); err != nil {
		t.Errorf("mirror pruned by retention: %v", err)
	}

	gens, err := r.Store().ListGenerations("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 2 {
		t.Errorf("got %d generations, want 2", len(gens))
	}
}

func TestRunner_Prune(t *testing.T) {
	backupRoot := t.TempDir()
	srcRoot := t.TempDir()
	writeFile(t, filepath.Join(srcRoot, "app", "a.conf"), "a\n")

	clock := newStepClock()
	// Build history with a generous retention first.
	builder := NewRunner(backupRoot, WithRetention(10), WithClock(clock))
	for i := 0; i < 6; i++ {
		if sum := builder.RunBatch(srcRoot, []string{"app"}); sum.Failed != 0 {
			t.Fatalf("batch %d failed", i+1)
		}
	}

	pruner := NewRunner(backupRoot, WithRetention(3), WithLogger(logging.ForTest(t)))
	deleted, err := pruner.Prune([]string{"app"})
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	gens, err := pruner.Store().ListGenerations("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 3 {
		t.Errorf("got %d generations after prune, want 3", len(gens))
	}
}
