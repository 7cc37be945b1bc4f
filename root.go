package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vchilikov/keyoverlap/internal/config"
	"github.com/vchilikov/keyoverlap/internal/runner"
	"github.com/vchilikov/keyoverlap/internal/slogutil"
	"github.com/vchilikov/keyoverlap/internal/version"
)

// newRootCmd builds the CLI. The returned pointer receives the run's exit code.
func newRootCmd() (*cobra.Command, *int) {
	exitCode := runner.ExitSuccess
	var workdir, configPath string

	cmd := &cobra.Command{
		Use:   "keyoverlap",
		Short: "Compare list values of the keys shared by two documents",
		Long: `keyoverlap looks for exactly two input documents (*.json by default) in the
working directory. For every key present in both it reports the common
elements, the elements unique to each file and the overlap percentage, then
saves the report as comparison_report_<YYYY-MM-DD_HH-MM-SS>.txt.`,
		Version:       version.Info(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := resolveWorkDir(workdir, os.Getwd, os.Stat)
			if err != nil {
				exitCode = runner.ExitRuntimeFail
				return fmt.Errorf("invalid arguments: %w", err)
			}

			cfg, err := config.Load(dir, configPath, cmd.Flags())
			if err != nil {
				exitCode = runner.ExitRuntimeFail
				return err
			}

			logger := slogutil.New(cmd.ErrOrStderr(), slogutil.LevelFromString(cfg.Log.Level), cfg.Log.Format)
			if cfg.Source != "" {
				logger.Info("config loaded", "file", cfg.Source)
			}

			exitCode = runner.Run(dir, cmd.OutOrStdout(), runner.OptionsFromConfig(cfg, logger))
			return nil
		},
	}
	cmd.SetVersionTemplate("keyoverlap version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&workdir, "workdir", "", "working directory (default: current directory)")
	flags.StringVar(&configPath, "config", "", "config file (default: .keyoverlap.yaml|.yml|.toml in the working directory)")
	flags.String("prefix", config.DefaultReportPrefix, "report file name prefix")
	flags.String("ext", config.DefaultInputExtension, "input file extension (.json, .yaml, .yml, .toml)")
	flags.Bool("json-report", false, "also write a JSON report under .keyoverlap/reports")
	flags.Bool("xlsx-report", false, "also write an XLSX report under .keyoverlap/reports")
	flags.String("log-level", "warn", "log level: debug, info, warn, error, off")
	flags.String("log-format", slogutil.FormatHuman, "log format: human or json")

	cmd.AddCommand(newVersionCmd())
	return cmd, &exitCode
}

func resolveWorkDir(
	workdir string,
	getwd func() (string, error),
	statFn func(string) (os.FileInfo, error),
) (string, error) {
	resolved := strings.TrimSpace(workdir)
	if resolved == "" {
		cwd, err := getwd()
		if err != nil {
			return "", fmt.Errorf("get current working directory: %w", err)
		}
		resolved = cwd
	}

	info, err := statFn(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("workdir %q does not exist", resolved)
		}
		return "", fmt.Errorf("stat workdir %q: %w", resolved, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workdir %q is not a directory", resolved)
	}

	return resolved, nil
}
