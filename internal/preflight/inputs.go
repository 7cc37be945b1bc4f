package preflight

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
)

// Input is a candidate document found in the working directory.
type Input struct {
	Name      string
	Path      string
	SizeBytes uint64
	ModTime   time.Time
}

// DiscoverInputs lists top-level regular files in dir whose extension matches
// ext case-insensitively. Symlinks count when they resolve to a regular file.
// Hidden files and directories are skipped. The result is sorted by name.
func DiscoverInputs(dir, ext string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var inputs []Input
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}

		fullPath := filepath.Join(dir, entry.Name())
		info, err := os.Stat(fullPath)
		if errors.Is(err, os.ErrNotExist) {
			// dangling symlink
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", fullPath, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		inputs = append(inputs, Input{
			Name:      entry.Name(),
			Path:      fullPath,
			SizeBytes: uint64(info.Size()),
			ModTime:   info.ModTime().UTC(),
		})
	}

	slices.SortFunc(inputs, func(a, b Input) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return inputs, nil
}

// SelectPair returns the two inputs of a run. Any other count is a
// DiscoveryCount error whose details list the names found.
func SelectPair(inputs []Input, ext string) (Input, Input, error) {
	if len(inputs) == 2 {
		return inputs[0], inputs[1], nil
	}

	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	var msg string
	if len(inputs) < 2 {
		msg = fmt.Sprintf("found fewer than two %s files (%d)", ext, len(inputs))
	} else {
		msg = fmt.Sprintf("found more than two %s files (%d)", ext, len(inputs))
	}
	return Input{}, Input{}, kerrors.New(kerrors.DiscoveryCount, msg, nil).WithDetails(names)
}

// FoundNames extracts the file names attached to a DiscoveryCount error.
func FoundNames(err error) []string {
	var kerr *kerrors.Error
	if !errors.As(err, &kerr) || kerr.Code != kerrors.DiscoveryCount {
		return nil
	}
	names, _ := kerr.Details.([]string)
	return names
}
