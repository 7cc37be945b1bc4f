package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600))
}

func TestDiscoverInputsFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.json")
	touch(t, dir, "A.JSON")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".hidden.json")
	touch(t, dir, "comparison_report_2026-01-01_00-00-00.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.json"), 0o755))

	inputs, err := DiscoverInputs(dir, ".json")
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "A.JSON", inputs[0].Name)
	assert.Equal(t, "b.json", inputs[1].Name)
	assert.Equal(t, filepath.Join(dir, "b.json"), inputs[1].Path)
	assert.Equal(t, uint64(2), inputs[1].SizeBytes)
}

func TestDiscoverInputsOtherExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.yaml")
	touch(t, dir, "b.json")

	inputs, err := DiscoverInputs(dir, ".yaml")
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "a.yaml", inputs[0].Name)
}

func TestDiscoverInputsFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	elsewhere := t.TempDir()
	touch(t, dir, "a.json")
	touch(t, elsewhere, "target.json")
	require.NoError(t, os.Mkdir(filepath.Join(elsewhere, "sub.json"), 0o755))

	if err := os.Symlink(filepath.Join(elsewhere, "target.json"), filepath.Join(dir, "b.json")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "sub.json"), filepath.Join(dir, "c.json")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "gone.json"), filepath.Join(dir, "d.json")))

	inputs, err := DiscoverInputs(dir, ".json")
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "a.json", inputs[0].Name)
	assert.Equal(t, "b.json", inputs[1].Name)
	assert.Equal(t, uint64(2), inputs[1].SizeBytes)

	left, right, err := SelectPair(inputs, ".json")
	require.NoError(t, err)
	assert.Equal(t, "a.json", left.Name)
	assert.Equal(t, "b.json", right.Name)
}

func TestDiscoverInputsMissingDir(t *testing.T) {
	_, err := DiscoverInputs(filepath.Join(t.TempDir(), "nope"), ".json")
	assert.Error(t, err)
}

func TestSelectPair(t *testing.T) {
	a := Input{Name: "a.json"}
	b := Input{Name: "b.json"}
	c := Input{Name: "c.json"}

	left, right, err := SelectPair([]Input{a, b}, ".json")
	require.NoError(t, err)
	assert.Equal(t, a, left)
	assert.Equal(t, b, right)

	for _, inputs := range [][]Input{nil, {a}, {a, b, c}} {
		_, _, err := SelectPair(inputs, ".json")
		require.Error(t, err)
		assert.Equal(t, kerrors.DiscoveryCount, kerrors.CodeOf(err))
	}

	_, _, err = SelectPair([]Input{a, b, c}, ".json")
	assert.Equal(t, []string{"a.json", "b.json", "c.json"}, FoundNames(err))
	assert.Contains(t, err.Error(), "more than two .json files (3)")

	_, _, err = SelectPair([]Input{a}, ".json")
	assert.Contains(t, err.Error(), "fewer than two .json files (1)")

	assert.Nil(t, FoundNames(nil))
}
