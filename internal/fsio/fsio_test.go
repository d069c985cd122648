package fsio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	fs := New(t.TempDir(), nil)

	if err := fs.Write("a.txt", "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	content, err := fs.Read("a.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content != "hello" {
		t.Errorf("content = %q, want %q", content, "hello")
	}
}

func TestReadMissingFileErrors(t *testing.T) {
	fs := New(t.TempDir(), nil)
	if _, err := fs.Read("nope.txt"); err == nil {
		t.Error("Read of missing file should fail")
	}
}

func TestWriteCreatesParentDirectories(t *testing.T) {
	root := t.TempDir()
	fs := New(root, nil)

	if err := fs.Write("deep/nested/dir/f.txt", "x"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "deep/nested/dir/f.txt"))
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(data) != "x" {
		t.Errorf("content = %q, want %q", data, "x")
	}
}

func TestWriteAbsolutePathIsNoOp(t *testing.T) {
	root := t.TempDir()
	fs := New(root, nil)
	target := filepath.Join(t.TempDir(), "abs.txt")

	if err := fs.Write(target, "never"); err != nil {
		t.Fatalf("absolute write must not error, got: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("absolute write must not create the file")
	}
}

func TestWritePreservesExistingMode(t *testing.T) {
	root := t.TempDir()
	fs := New(root, nil)
	path := filepath.Join(root, "x.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := fs.Write("x.sh", "#!/bin/sh\necho hi\n"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755 preserved", info.Mode().Perm())
	}
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	fs := New(root, nil)

	if err := fs.Remove("ghost.txt"); err == nil {
		t.Error("Remove of missing file should fail")
	}

	if err := fs.Write("gone.txt", "x"); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove("gone.txt"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "gone.txt")); !os.IsNotExist(err) {
		t.Error("file still exists after Remove")
	}
}
