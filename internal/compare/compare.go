// Package compare computes per-key set overlap between two documents.
package compare

import (
	"strings"

	"github.com/vchilikov/keyoverlap/internal/document"
)

// KeyComparison is the outcome for one key present in both documents.
// All element slices are de-duplicated and sorted with document.Compare.
type KeyComparison struct {
	Key          string
	Intersection []document.Value
	LeftOnly     []document.Value
	RightOnly    []document.Value
	UnionSize    int
	Percentage   float64
}

// Result holds every common key in lexicographic order.
type Result struct {
	LeftName  string
	RightName string
	Keys      []KeyComparison
	// Keys present in one document only, sorted.
	LeftOnlyKeys  []string
	RightOnlyKeys []string
}

// HasCommonKeys reports whether any key appears in both documents.
func (r Result) HasCommonKeys() bool {
	return len(r.Keys) > 0
}

// Compare intersects the key sets of left and right and compares the value
// sets of every common key.
func Compare(left, right document.Document) Result {
	leftKeys := keySet(left)
	rightKeys := keySet(right)

	res := Result{
		LeftName:      left.Name,
		RightName:     right.Name,
		LeftOnlyKeys:  leftKeys.diff(rightKeys).sorted(strings.Compare),
		RightOnlyKeys: rightKeys.diff(leftKeys).sorted(strings.Compare),
	}
	for _, key := range leftKeys.intersect(rightKeys).sorted(strings.Compare) {
		res.Keys = append(res.Keys, CompareLists(key, left.Entries[key], right.Entries[key]))
	}
	return res
}

// CompareLists de-duplicates both lists and computes their overlap.
func CompareLists(key string, left, right []document.Value) KeyComparison {
	a := newSet(left...)
	b := newSet(right...)
	inter := a.intersect(b)
	union := a.unionSize(b)

	return KeyComparison{
		Key:          key,
		Intersection: inter.sorted(document.Compare),
		LeftOnly:     a.diff(b).sorted(document.Compare),
		RightOnly:    b.diff(a).sorted(document.Compare),
		UnionSize:    union,
		Percentage:   Overlap(len(inter), union),
	}
}

// Overlap returns 100 * intersection / union, or 100 for an empty union.
func Overlap(intersection, union int) float64 {
	if union <= 0 {
		return 100.0
	}
	if intersection <= 0 {
		return 0
	}
	if intersection >= union {
		return 100.0
	}
	return float64(intersection) / float64(union) * 100
}

func keySet(d document.Document) set[string] {
	s := make(set[string], len(d.Entries))
	for k := range d.Entries {
		s[k] = struct{}{}
	}
	return s
}
