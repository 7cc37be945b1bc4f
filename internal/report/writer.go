package report

import (
	"io"
	"path/filepath"
	"time"

	"github.com/vchilikov/keyoverlap/internal/compare"
	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
)

// WriteText writes the text report for res into dir as FileName(prefix, now),
// mirroring every line to console as it is written. It returns the final
// path. On failure no report file exists.
func WriteText(dir, prefix string, now time.Time, res compare.Result, console io.Writer) (string, error) {
	path := filepath.Join(dir, FileName(prefix, now))
	err := commitFile(path, 0o644, func(w io.Writer) error {
		return Render(mirrorWriter{primary: w, mirror: console}, res, now)
	})
	if err != nil {
		return "", kerrors.New(kerrors.ReportWrite, "write report "+filepath.Base(path), err).WithPath(path)
	}
	return path, nil
}

// CompanionDir is where machine-readable companions go. It is hidden so it
// never counts as input.
func CompanionDir(workDir string) string {
	return filepath.Join(workDir, ".keyoverlap", "reports")
}
