// Package report renders comparison results and writes them to disk.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/vchilikov/keyoverlap/internal/compare"
	"github.com/vchilikov/keyoverlap/internal/document"
)

const (
	headerTimeLayout   = "2006-01-02 15:04:05"
	fileNameTimeLayout = "2006-01-02_15-04-05"

	doubleRule = "==========================================="
	singleRule = "----------------------------------------"

	noCommonKeys = "No common keys found."
)

// FileName returns "<prefix>_<YYYY-MM-DD_HH-MM-SS>.txt".
func FileName(prefix string, now time.Time) string {
	return Stem(prefix, now) + ".txt"
}

// Stem returns the report name without extension.
func Stem(prefix string, now time.Time) string {
	return prefix + "_" + now.Format(fileNameTimeLayout)
}

// lineWriter keeps the first write error so rendering code stays linear.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) printf(format string, args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(lw.w, format, args...)
}

// Render writes the full text report for res to w.
func Render(w io.Writer, res compare.Result, generatedAt time.Time) error {
	lw := &lineWriter{w: w}
	renderHeader(lw, res, generatedAt)
	if !res.HasCommonKeys() {
		lw.printf("%s\n", noCommonKeys)
		return lw.err
	}
	lw.printf("Analysis for %d common keys:\n", len(res.Keys))
	for _, kc := range res.Keys {
		renderBlock(lw, res, kc)
	}
	return lw.err
}

func renderHeader(lw *lineWriter, res compare.Result, generatedAt time.Time) {
	lw.printf("List analysis report by common keys\n")
	lw.printf("%s\n", doubleRule)
	lw.printf("Generated at: %s\n", generatedAt.Format(headerTimeLayout))
	lw.printf("File 1: %s\n", res.LeftName)
	lw.printf("File 2: %s\n", res.RightName)
	lw.printf("%s\n\n", doubleRule)
}

func renderBlock(lw *lineWriter, res compare.Result, kc compare.KeyComparison) {
	lw.printf("%s\n", singleRule)
	lw.printf("Key: %s\n", kc.Key)
	lw.printf("%s\n", singleRule)
	lw.printf("  [+] Intersection (%d items): %s\n", len(kc.Intersection), document.RenderList(kc.Intersection))
	lw.printf("  [1] Only in '%s' (%d items): %s\n", res.LeftName, len(kc.LeftOnly), document.RenderList(kc.LeftOnly))
	lw.printf("  [2] Only in '%s' (%d items): %s\n", res.RightName, len(kc.RightOnly), document.RenderList(kc.RightOnly))
	lw.printf("  [%%] Overlap percentage: %s%%\n\n", FormatPercent(kc.Percentage))
}

// FormatPercent formats p with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f", p)
}
