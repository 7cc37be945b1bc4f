//go:build windows

package preflight

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// availableDisk returns the bytes the current user may still write on the
// volume holding path.
func availableDisk(path string) (uint64, error) {
	dir, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("encode path %q: %w", path, err)
	}

	var free uint64
	if err := windows.GetDiskFreeSpaceEx(dir, &free, nil, nil); err != nil {
		return 0, fmt.Errorf("query free space for %q: %w", path, err)
	}
	return free, nil
}
