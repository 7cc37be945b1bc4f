package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// commitFile streams write's output into a temp file next to path and renames
// it into place only when everything succeeded. No file is left behind on
// failure.
func commitFile(path string, perm os.FileMode, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir report dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(perm); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp report: %w", err)
	}
	if err := write(tmpFile); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp report: %w", err)
	}
	cleanup = false
	return nil
}

// mirrorWriter writes to primary and copies successful writes to mirror.
// Mirror failures are ignored: the console is best effort, the file is not.
type mirrorWriter struct {
	primary io.Writer
	mirror  io.Writer
}

func (m mirrorWriter) Write(p []byte) (int, error) {
	n, err := m.primary.Write(p)
	if m.mirror != nil && n > 0 {
		_, _ = m.mirror.Write(p[:n])
	}
	return n, err
}
