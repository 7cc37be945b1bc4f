package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("prefix", "", "")
	fs.String("ext", "", "")
	fs.Bool("json-report", false, "")
	fs.Bool("xlsx-report", false, "")
	fs.String("log-level", "", "")
	fs.String("log-format", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultReportPrefix, cfg.Report.Prefix)
	assert.Equal(t, ".json", cfg.Input.Extension)
	assert.False(t, cfg.Report.JSON)
	assert.False(t, cfg.Report.XLSX)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "human", cfg.Log.Format)
	assert.Empty(t, cfg.Source)
}

func TestLoadUnchangedFlagsKeepDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultReportPrefix, cfg.Report.Prefix)
	assert.Equal(t, ".json", cfg.Input.Extension)
}

func TestLoadConfigFileFromWorkDir(t *testing.T) {
	dir := t.TempDir()
	body := "report:\n  prefix: overlap\n  json: true\ninput:\n  extension: yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".keyoverlap.yaml"), []byte(body), 0o600))

	cfg, err := Load(dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "overlap", cfg.Report.Prefix)
	assert.True(t, cfg.Report.JSON)
	assert.Equal(t, ".yaml", cfg.Input.Extension)
	assert.Equal(t, filepath.Join(dir, ".keyoverlap.yaml"), cfg.Source)
}

func TestLoadTOMLConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	body := "[report]\nxlsx = true\n\n[log]\nlevel = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(t.TempDir(), path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Report.XLSX)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".keyoverlap.yaml"), []byte("report:\n  prefix: from_file\n"), 0o600))

	t.Setenv("KEYOVERLAP_REPORT_PREFIX", "from_env")
	cfg, err := Load(dir, "", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Report.Prefix)

	cfg, err = Load(dir, "", newFlags(t, "--prefix", "from_flag"))
	require.NoError(t, err)
	assert.Equal(t, "from_flag", cfg.Report.Prefix)
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Equal(t, kerrors.ConfigInvalid, kerrors.CodeOf(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty prefix", func(c *Config) { c.Report.Prefix = " " }, false},
		{"prefix with separator", func(c *Config) { c.Report.Prefix = "out/report" }, false},
		{"empty extension", func(c *Config) { c.Input.Extension = "" }, false},
		{"report extension", func(c *Config) { c.Input.Extension = ".txt" }, false},
		{"double extension", func(c *Config) { c.Input.Extension = ".tar.gz" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"json format", func(c *Config) { c.Log.Format = "json" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, kerrors.ConfigInvalid, kerrors.CodeOf(err))
		})
	}
}

func TestNormalizeExtension(t *testing.T) {
	assert.Equal(t, ".json", normalizeExtension("JSON"))
	assert.Equal(t, ".yml", normalizeExtension(" .yml "))
	assert.Equal(t, "", normalizeExtension(""))
}
