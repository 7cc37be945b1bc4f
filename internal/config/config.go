package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
	"github.com/vchilikov/keyoverlap/internal/slogutil"
)

const (
	// EnvPrefix prefixes every environment override, e.g. KEYOVERLAP_REPORT_PREFIX.
	EnvPrefix = "KEYOVERLAP"

	DefaultReportPrefix   = "comparison_report"
	DefaultInputExtension = ".json"
)

// configFileNames are probed in the working directory, in order.
var configFileNames = []string{".keyoverlap.yaml", ".keyoverlap.yml", ".keyoverlap.toml"}

// Config holds all run settings.
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

// InputConfig controls input discovery.
type InputConfig struct {
	Extension string `mapstructure:"extension"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	Prefix string `mapstructure:"prefix"`
	JSON   bool   `mapstructure:"json"`
	XLSX   bool   `mapstructure:"xlsx"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Input:  InputConfig{Extension: DefaultInputExtension},
		Report: ReportConfig{Prefix: DefaultReportPrefix},
		Log:    LogConfig{Level: "warn", Format: slogutil.FormatHuman},
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"prefix":      "report.prefix",
	"ext":         "input.extension",
	"json-report": "report.json",
	"xlsx-report": "report.xlsx",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

// Load resolves settings with precedence flags > env > config file > defaults.
// configPath may be empty, in which case the working directory is probed for
// .keyoverlap.yaml, .keyoverlap.yml or .keyoverlap.toml. flags may be nil.
func Load(workDir, configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	def := Default()

	v.SetDefault("input.extension", def.Input.Extension)
	v.SetDefault("report.prefix", def.Report.Prefix)
	v.SetDefault("report.json", def.Report.JSON)
	v.SetDefault("report.xlsx", def.Report.XLSX)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, kerrors.New(kerrors.ConfigInvalid, "bind flag --"+name, err)
				}
			}
		}
	}

	source := configPath
	if source == "" {
		source = findConfigFile(workDir)
	}
	if source != "" {
		v.SetConfigFile(source)
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, kerrors.New(kerrors.ConfigInvalid, fmt.Sprintf("config file %q does not exist", source), err)
			}
			return nil, kerrors.New(kerrors.ConfigInvalid, fmt.Sprintf("read config file %q", source), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, kerrors.New(kerrors.ConfigInvalid, "decode settings", err)
	}
	cfg.Source = source
	cfg.Input.Extension = normalizeExtension(cfg.Input.Extension)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(workDir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(workDir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Validate checks that the settings can drive a run.
func (c *Config) Validate() error {
	prefix := strings.TrimSpace(c.Report.Prefix)
	if prefix == "" {
		return invalid("report.prefix", "must not be empty")
	}
	if strings.ContainsAny(prefix, `/\`) || prefix == "." || prefix == ".." {
		return invalid("report.prefix", "must be a plain file name prefix")
	}
	switch c.Input.Extension {
	case "", ".":
		return invalid("input.extension", "must not be empty")
	case ".txt":
		return invalid("input.extension", "collides with the report extension")
	}
	if strings.ContainsAny(c.Input.Extension[1:], `./\`) {
		return invalid("input.extension", "must be a single extension such as .json")
	}
	if !slogutil.ValidLevel(c.Log.Level) {
		return invalid("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case slogutil.FormatHuman, slogutil.FormatJSON:
	default:
		return invalid("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	return nil
}

func invalid(field, msg string) error {
	return kerrors.New(kerrors.ConfigInvalid, field+" "+msg, nil).WithDetails(map[string]string{"field": field})
}
