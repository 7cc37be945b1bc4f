// Package runner drives one comparison run inside a working directory.
package runner

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/vchilikov/keyoverlap/internal/compare"
	"github.com/vchilikov/keyoverlap/internal/config"
	"github.com/vchilikov/keyoverlap/internal/document"
	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
	"github.com/vchilikov/keyoverlap/internal/preflight"
	"github.com/vchilikov/keyoverlap/internal/report"
	"github.com/vchilikov/keyoverlap/internal/slogutil"
)

const (
	ExitSuccess       = 0
	ExitDiscoveryFail = 1
	ExitLoadFail      = 2
	ExitRuntimeFail   = 3
)

var (
	discoverInputs = preflight.DiscoverInputs
	checkDiskSpace = preflight.CheckDiskSpace
	loadPair       = document.LoadPair
	writeText      = report.WriteText
	writeJSON      = report.WriteJSON
	writeXLSX      = report.WriteXLSX
	now            = time.Now
)

// Options configures Run.
type Options struct {
	Prefix     string
	Extension  string
	JSONReport bool
	XLSXReport bool
	Logger     *slog.Logger
}

// OptionsFromConfig maps resolved settings onto run options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	if cfg == nil {
		cfg = config.Default()
	}
	return Options{
		Prefix:     cfg.Report.Prefix,
		Extension:  cfg.Input.Extension,
		JSONReport: cfg.Report.JSON,
		XLSXReport: cfg.Report.XLSX,
		Logger:     logger,
	}
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = config.DefaultReportPrefix
	}
	if o.Extension == "" {
		o.Extension = config.DefaultInputExtension
	}
	if o.Logger == nil {
		o.Logger = slogutil.NewDiscardLogger()
	}
	return o
}

// Run compares the two input documents in cwd, writes the report and returns
// the process exit code. Progress and the report go to out.
func Run(cwd string, out io.Writer, opts Options) int {
	opts = opts.withDefaults()
	logger := opts.Logger.With("workdir", cwd)
	runStartedAt := now()
	finish := func(code int) int {
		logger.Debug("run finished", "exit_code", code, "duration", time.Since(runStartedAt))
		return code
	}

	inputs, err := discoverInputs(cwd, opts.Extension)
	if err != nil {
		writef(out, "ERROR: cannot scan working directory: %v\n", err)
		logger.Error("input discovery failed", "error", err)
		return finish(ExitRuntimeFail)
	}
	logger.Info("inputs discovered", "extension", opts.Extension, "count", len(inputs))

	left, right, err := preflight.SelectPair(inputs, opts.Extension)
	if err != nil {
		printDiscoveryError(out, opts.Extension, preflight.FoundNames(err))
		return finish(ExitDiscoveryFail)
	}

	writef(out, "\nComparing files '%s' and '%s'...\n", left.Name, right.Name)

	space, err := checkDiskSpace(cwd, []preflight.Input{left, right})
	switch {
	case err != nil:
		logger.Warn("disk space check skipped", "error", err)
	case !space.Enough:
		writef(out, "ERROR: %s\n", describe(preflight.InsufficientSpaceError(space)))
		return finish(ExitLoadFail)
	default:
		logger.Debug("disk space ok",
			"available", preflight.FormatBytes(space.AvailableBytes),
			"required", preflight.FormatBytes(space.RequiredBytes))
	}

	leftDoc, rightDoc, err := loadPair(left.Path, right.Path)
	if err != nil {
		writef(out, "ERROR: %s\n", describe(err))
		logger.Error("load failed", "code", string(kerrors.CodeOf(err)), "error", err)
		return finish(ExitLoadFail)
	}
	logger.Info("documents loaded", "left_keys", len(leftDoc.Entries), "right_keys", len(rightDoc.Entries))

	res := compare.Compare(leftDoc, rightDoc)
	logger.Info("comparison done", "common_keys", len(res.Keys))

	generatedAt := now()
	reportPath, err := writeText(cwd, opts.Prefix, generatedAt, res, out)
	if err != nil {
		writef(out, "ERROR: %s\n", describe(err))
		logger.Error("report write failed", "error", err)
		return finish(ExitRuntimeFail)
	}

	writeCompanions(cwd, opts, report.NewCompanion(res, generatedAt, reportPath), out, logger)

	writef(out, "\nAnalysis complete. Detailed report saved to: %s\n", filepath.Base(reportPath))
	return finish(ExitSuccess)
}

// writeCompanions never fails the run: the text report is already committed.
func writeCompanions(cwd string, opts Options, c report.Companion, out io.Writer, logger *slog.Logger) {
	if !opts.JSONReport && !opts.XLSXReport {
		return
	}
	dir := report.CompanionDir(cwd)
	logger = logger.With("run_id", c.RunID)

	if opts.JSONReport {
		if path, err := writeJSON(dir, opts.Prefix, c); err != nil {
			writef(out, "Report save warning: %v\n", err)
			logger.Warn("json companion failed", "error", err)
		} else {
			writef(out, "JSON report: %s\n", path)
		}
	}
	if opts.XLSXReport {
		if path, err := writeXLSX(dir, opts.Prefix, c); err != nil {
			writef(out, "Report save warning: %v\n", err)
			logger.Warn("xlsx companion failed", "error", err)
		} else {
			writef(out, "Spreadsheet report: %s\n", path)
		}
	}
}

func printDiscoveryError(out io.Writer, ext string, names []string) {
	if len(names) < 2 {
		writef(out, "ERROR: Found fewer than two %s files (%d).\n", ext, len(names))
		writef(out, "Exactly two files with the %s extension are required.\n", ext)
		return
	}
	writef(out, "ERROR: Found more than two %s files (%d):\n", ext, len(names))
	for _, name := range names {
		writef(out, " - %s\n", name)
	}
	writeLine(out, "")
	writeLine(out, "Please leave only the two files to compare in the folder.")
}

// describe renders an error for the console without its code prefix.
func describe(err error) string {
	var kerr *kerrors.Error
	if !errors.As(err, &kerr) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(kerr.Message)
	if kerr.Location != nil {
		b.WriteString(" at ")
		b.WriteString(kerr.Location.String())
	}
	if cause := errors.Unwrap(kerr); cause != nil && kerr.Code != kerrors.FileNotFound {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}
