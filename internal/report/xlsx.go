package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/vchilikov/keyoverlap/internal/document"
)

const (
	summarySheet = "Summary"
	keysSheet    = "Keys"
)

// WriteXLSX writes the workbook companion into dir and returns its path.
func WriteXLSX(dir, prefix string, c Companion) (string, error) {
	f, err := buildWorkbook(c)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	path := filepath.Join(dir, Stem(prefix, c.GeneratedAt)+".xlsx")
	err = commitFile(path, 0o644, func(w io.Writer) error {
		_, werr := f.WriteTo(w)
		return werr
	})
	if err != nil {
		return "", fmt.Errorf("write report xlsx: %w", err)
	}
	return path, nil
}

func buildWorkbook(c Companion) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(keysSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create keys sheet: %w", err)
	}
	if err := fillSummary(f, c); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := fillKeys(f, c); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillSummary(f *excelize.File, c Companion) error {
	res := c.Result
	var mean any = ""
	if m := MeanOverlap(res); m != nil {
		mean = *m
	}
	rows := [][]any{
		{"Run ID", c.RunID},
		{"Generated at", c.GeneratedAt.Format(headerTimeLayout)},
		{"File 1", res.LeftName},
		{"File 2", res.RightName},
		{"Common keys", len(res.Keys)},
		{"Keys only in File 1", len(res.LeftOnlyKeys)},
		{"Keys only in File 2", len(res.RightOnlyKeys)},
		{"Mean overlap %", mean},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}

func fillKeys(f *excelize.File, c Companion) error {
	res := c.Result
	header := []any{
		"Key",
		"Intersection",
		"Only in " + res.LeftName,
		"Only in " + res.RightName,
		"Union",
		"Overlap %",
		"Intersection items",
		"Only in " + res.LeftName + " items",
		"Only in " + res.RightName + " items",
	}
	if err := setRow(f, keysSheet, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(keysSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, kc := range res.Keys {
		row := []any{
			kc.Key,
			len(kc.Intersection),
			len(kc.LeftOnly),
			len(kc.RightOnly),
			kc.UnionSize,
			roundPercent(kc.Percentage),
			cellText(kc.Intersection),
			cellText(kc.LeftOnly),
			cellText(kc.RightOnly),
		}
		if err := setRow(f, keysSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// cellText renders values, truncated to the spreadsheet cell limit.
func cellText(values []document.Value) string {
	s := document.RenderList(values)
	runes := []rune(s)
	if len(runes) <= excelize.TotalCellChars {
		return s
	}
	const ellipsis = "..."
	return string(runes[:excelize.TotalCellChars-len(ellipsis)]) + ellipsis
}
