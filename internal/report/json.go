package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vchilikov/keyoverlap/internal/compare"
	"github.com/vchilikov/keyoverlap/internal/document"
)

// Companion describes one run for the machine-readable companions.
type Companion struct {
	RunID       string
	GeneratedAt time.Time
	TextReport  string
	Result      compare.Result
}

// NewCompanion stamps res with a fresh run id.
func NewCompanion(res compare.Result, generatedAt time.Time, textReport string) Companion {
	return Companion{
		RunID:       uuid.NewString(),
		GeneratedAt: generatedAt,
		TextReport:  textReport,
		Result:      res,
	}
}

type jsonKey struct {
	Key          string           `json:"key"`
	Intersection []document.Value `json:"intersection"`
	LeftOnly     []document.Value `json:"left_only"`
	RightOnly    []document.Value `json:"right_only"`
	UnionSize    int              `json:"union_size"`
	Percentage   float64          `json:"overlap_percent"`
}

type jsonSummary struct {
	CommonKeys    int      `json:"common_keys"`
	LeftOnlyKeys  int      `json:"left_only_keys"`
	RightOnlyKeys int      `json:"right_only_keys"`
	MeanOverlap   *float64 `json:"mean_overlap_percent,omitempty"`
}

type jsonFiles struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type jsonReport struct {
	RunID         string      `json:"run_id"`
	GeneratedAt   string      `json:"generated_at"`
	Files         jsonFiles   `json:"files"`
	TextReport    string      `json:"text_report,omitempty"`
	Summary       jsonSummary `json:"summary"`
	Keys          []jsonKey   `json:"keys"`
	LeftOnlyKeys  []string    `json:"left_only_keys,omitempty"`
	RightOnlyKeys []string    `json:"right_only_keys,omitempty"`
}

// WriteJSON writes the JSON companion into dir and returns its path.
func WriteJSON(dir, prefix string, c Companion) (string, error) {
	path := filepath.Join(dir, Stem(prefix, c.GeneratedAt)+".json")
	data, err := json.MarshalIndent(buildJSONReport(c), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report json: %w", err)
	}
	err = commitFile(path, 0o644, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	if err != nil {
		return "", fmt.Errorf("write report json: %w", err)
	}
	return path, nil
}

func buildJSONReport(c Companion) jsonReport {
	res := c.Result
	keys := make([]jsonKey, 0, len(res.Keys))
	for _, kc := range res.Keys {
		keys = append(keys, jsonKey{
			Key:          kc.Key,
			Intersection: nonNil(kc.Intersection),
			LeftOnly:     nonNil(kc.LeftOnly),
			RightOnly:    nonNil(kc.RightOnly),
			UnionSize:    kc.UnionSize,
			Percentage:   roundPercent(kc.Percentage),
		})
	}

	var textReport string
	if c.TextReport != "" {
		textReport = filepath.Base(c.TextReport)
	}

	return jsonReport{
		RunID:       c.RunID,
		GeneratedAt: c.GeneratedAt.Format(time.RFC3339),
		Files:       jsonFiles{Left: res.LeftName, Right: res.RightName},
		TextReport:  textReport,
		Summary: jsonSummary{
			CommonKeys:    len(res.Keys),
			LeftOnlyKeys:  len(res.LeftOnlyKeys),
			RightOnlyKeys: len(res.RightOnlyKeys),
			MeanOverlap:   MeanOverlap(res),
		},
		Keys:          keys,
		LeftOnlyKeys:  append([]string(nil), res.LeftOnlyKeys...),
		RightOnlyKeys: append([]string(nil), res.RightOnlyKeys...),
	}
}

// MeanOverlap averages the per-key percentages, nil without common keys.
func MeanOverlap(res compare.Result) *float64 {
	if len(res.Keys) == 0 {
		return nil
	}
	var sum float64
	for _, kc := range res.Keys {
		sum += kc.Percentage
	}
	mean := roundPercent(sum / float64(len(res.Keys)))
	return &mean
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}

func nonNil(values []document.Value) []document.Value {
	if values == nil {
		return []document.Value{}
	}
	return values
}
