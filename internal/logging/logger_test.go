package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewWithoutPathIsNop(t *testing.T) {
	log, err := New("", false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// Must be safe to use and close.
	log.PatchApplied(1, 0, time.Millisecond)
	log.PatchFailed("reason", time.Millisecond)
	if err := log.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpatch.log")
	log, err := New(path, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.PatchApplied(3, 1, 5*time.Millisecond)
	log.Info("run complete")
	_ = log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "patch applied") {
		t.Errorf("log missing patch applied entry:\n%s", content)
	}
	if !strings.Contains(content, `"files":3`) {
		t.Errorf("log missing files field:\n%s", content)
	}
}
