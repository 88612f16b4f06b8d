package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/todddeluca/daemoncmd/internal/fileutil"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a", "b", "c")
		if err := fileutil.EnsureDir(path); err != nil {
			t.Fatalf("EnsureDir: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if !info.IsDir() {
			t.Error("created path is not a directory")
		}
	})

	t.Run("existing directory is not an error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := fileutil.EnsureDir(dir); err != nil {
			t.Errorf("EnsureDir on existing dir: %v", err)
		}
	})

	t.Run("path occupied by a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "occupied")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("fixture: %v", err)
		}
		if err := fileutil.EnsureDir(path); err == nil {
			t.Error("EnsureDir succeeded over an existing file")
		}
	})
}

func TestEnsureDirForFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "logs", "daemon.log")
	if err := fileutil.EnsureDirForFile(file); err != nil {
		t.Fatalf("EnsureDirForFile: %v", err)
	}

	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Errorf("file not creatable after EnsureDirForFile: %v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates with content and mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out")
		if err := fileutil.WriteFileAtomic(path, []byte("1234\n"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(data) != "1234\n" {
			t.Errorf("content = %q, want %q", data, "1234\n")
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != 0o644 {
			t.Errorf("mode = %o, want 644", info.Mode().Perm())
		}
	})

	t.Run("replaces existing content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out")
		if err := fileutil.WriteFileAtomic(path, []byte("old"), 0o644); err != nil {
			t.Fatalf("first write: %v", err)
		}
		if err := fileutil.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
			t.Fatalf("second write: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(data) != "new" {
			t.Errorf("content = %q, want %q", data, "new")
		}
	})

	t.Run("missing parent directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "out")
		if err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
			t.Error("WriteFileAtomic succeeded without parent directory")
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out")
		if err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "out" {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("directory contains %v, want only [out]", names)
		}
	})
}
