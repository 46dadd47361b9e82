package iocdefang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iocdefang/iocdefang/internal/config"
	"github.com/iocdefang/iocdefang/internal/logging"
	"github.com/iocdefang/iocdefang/internal/report"
)

var (
	flagJSON      bool
	flagNoColor   bool
	flagLogLevel  string
	flagLogFormat string

	version = "0.1.0"

	logger = logging.Nop()
)

// exitError carries a process exit code without an error message, e.g. when
// --fail-on-match trips.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// rootCmd is the base Cobra command for the iocdefang CLI.
var rootCmd = &cobra.Command{
	Use:               "iocdefang",
	Short:             "Detect and defang indicators of compromise",
	Long:              "iocdefang finds IPv4/IPv6 addresses, URLs, email addresses and domains in text or files and rewrites them into a defanged, non-clickable form.",
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

// Execute runs the iocdefang CLI. It should be called by the main package.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: console|json")
	report.ToolVersion = version
}

// buildLogger constructs loggers for setupLogger.
var buildLogger = logging.New

// configs caches the configs loaded for one command run so a broken file is
// reported once.
var configs struct {
	root          string
	global, local config.FileConfig
	ok            bool
}

// setupLogger builds the process logger. The flags are applied first so
// problems with the config files are logged; when the flags leave the level or
// format open, the config files for the command's --path fill them in.
func setupLogger(cmd *cobra.Command, _ []string) error {
	configs.ok = false
	l, err := buildLogger(flagLogLevel, flagLogFormat)
	if err != nil {
		return err
	}
	logger = l.With(zap.String("version", version))
	if flagLogLevel != "" && flagLogFormat != "" {
		return nil
	}

	gcfg, lcfg := loadConfigs(configRoot(cmd))
	level := pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel)
	format := pickString(flagLogFormat, lcfg.LogFormat, gcfg.LogFormat)
	if level == flagLogLevel && format == flagLogFormat {
		return nil
	}
	l, err = buildLogger(level, format)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger = l.With(zap.String("version", version))
	return nil
}

// configRoot is the directory whose local config applies to cmd.
func configRoot(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("path"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "."
}

// loadConfigs returns the global and local configs for root. Missing files
// yield empty configs; broken ones are logged and ignored.
func loadConfigs(root string) (config.FileConfig, config.FileConfig) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if configs.ok && configs.root == root {
		return configs.global, configs.local
	}
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	} else if !errors.Is(err, config.ErrNoGlobalConfig) {
		logger.Warnw("ignoring global config", "path", config.GlobalPath(), "error", err)
	}
	if c, err := config.LoadLocal(root); err == nil {
		lcfg = c
	} else if !errors.Is(err, config.ErrNoLocalConfig) {
		logger.Warnw("ignoring local config", "root", root, "error", err)
	}
	configs.root, configs.global, configs.local, configs.ok = root, gcfg, lcfg, true
	return gcfg, lcfg
}
