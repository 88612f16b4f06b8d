package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename. On POSIX systems rename is atomic, so a concurrent
// reader sees either the old content or the new content, never a partial
// write. The temp file is removed on any failure.
//
// The fsync before rename ensures data durability: without it, a crash could
// leave the renamed file with incomplete contents.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) (retErr error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-write-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	writePath := tmpFile.Name()
	defer func() {
		if retErr != nil {
			_ = os.Remove(writePath)
		}
	}()

	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync: %w", err)
	}

	// Close explicitly before rename so the file content is flushed.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(writePath, path); err != nil {
		return fmt.Errorf("rename temp file to destination: %w", err)
	}

	return nil
}
