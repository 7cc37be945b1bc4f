package preflight

import (
	"fmt"

	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
)

// minReportBytes is the floor for the space a run needs.
const minReportBytes = 64 * 1024

type SpaceCheck struct {
	AvailableBytes uint64
	RequiredBytes  uint64
	Enough         bool
}

var availableDiskFn = availableDisk

// CheckDiskSpace estimates the bytes needed to write the reports for inputs
// and compares them with the free space under path.
func CheckDiskSpace(path string, inputs []Input) (SpaceCheck, error) {
	available, err := availableDiskFn(path)
	if err != nil {
		return SpaceCheck{}, err
	}

	required := estimateRequiredBytes(inputs)
	return SpaceCheck{
		AvailableBytes: available,
		RequiredBytes:  required,
		Enough:         available >= required,
	}, nil
}

// InsufficientSpaceError describes a failed SpaceCheck.
func InsufficientSpaceError(space SpaceCheck) error {
	return kerrors.New(kerrors.InsufficientSpace, fmt.Sprintf(
		"not enough disk space for the report: available=%s, required=%s",
		FormatBytes(space.AvailableBytes), FormatBytes(space.RequiredBytes),
	), nil)
}

// Every input element lands in at most one list of a block, and the JSON and
// XLSX companions repeat it once each.
func estimateRequiredBytes(inputs []Input) uint64 {
	var total uint64
	for _, in := range inputs {
		if ^uint64(0)/3-total < in.SizeBytes {
			return ^uint64(0)
		}
		total += in.SizeBytes
	}
	return max(addMargin(total*3), minReportBytes)
}

func addMargin(v uint64) uint64 {
	extra := v / 10
	if v%10 != 0 {
		extra++
	}
	if ^uint64(0)-v < extra {
		return ^uint64(0)
	}
	return v + extra
}

func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
