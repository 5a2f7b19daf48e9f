package indexer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckpointSaveLoadResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "checkpoint.json")
	cs := NewCheckpointStore(path, true)

	if _, ok, err := cs.Load(); err != nil || ok {
		t.Fatalf("missing file should load as absent, got ok=%v err=%v", ok, err)
	}

	if err := cs.Save(1499); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after save")
	}

	cp, ok, err := cs.Load()
	if err != nil || !ok {
		t.Fatalf("reload failed: ok=%v err=%v", ok, err)
	}
	if cp.LastProcessedBlock != 1499 {
		t.Fatalf("last processed block = %d, want 1499", cp.LastProcessedBlock)
	}
	if cp.UpdatedAt == "" {
		t.Fatal("updated_at not recorded")
	}

	if got := resumeFrom(1000, cp, ok); got != 1500 {
		t.Fatalf("resume position = %d, want 1500", got)
	}
	// A checkpoint behind the configured start never rewinds the scan.
	if got := resumeFrom(2000, cp, ok); got != 2000 {
		t.Fatalf("resume position = %d, want 2000", got)
	}
}

func TestCheckpointOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	cs := NewCheckpointStore(path, true)

	if err := cs.Save(100); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := cs.Save(200); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	cp, ok, err := cs.Load()
	if err != nil || !ok {
		t.Fatalf("reload failed: ok=%v err=%v", ok, err)
	}
	if cp.LastProcessedBlock != 200 {
		t.Fatalf("last processed block = %d, want 200", cp.LastProcessedBlock)
	}
}

func TestCheckpointDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	cs := NewCheckpointStore(path, false)

	if err := cs.Save(5); err != nil {
		t.Fatalf("disabled save should be a no-op: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("disabled store wrote a file")
	}

	cp, ok, err := cs.Load()
	if err != nil || ok {
		t.Fatalf("disabled load should report absent, got ok=%v err=%v", ok, err)
	}
	if got := resumeFrom(7, cp, ok); got != 7 {
		t.Fatalf("resume position = %d, want 7", got)
	}
}
