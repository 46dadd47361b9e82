package iocdefang

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iocdefang/iocdefang/internal/audit"
	"github.com/iocdefang/iocdefang/internal/cache"
	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/engine"
	"github.com/iocdefang/iocdefang/internal/report"
	"github.com/iocdefang/iocdefang/internal/types"
)

const defaultBaseline = "iocdefang.baseline.json"

var (
	flagPath            string
	flagInclude         string
	flagExclude         string
	flagMaxBytes        int64
	flagThreads         int
	flagEnable          string
	flagDisable         string
	flagNoCache         bool
	flagDryRun          bool
	flagDefaultExcludes bool
	flagSARIF           bool
	flagTable           bool
	flagText            bool
	flagFailOnMatch     bool
	flagFailOn          string
	flagBaseline        string
	flagNoAudit         bool
	flagUploadURL       string
	flagUploadToken     string
	flagNoUploadMeta    bool
	flagLast            bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a directory tree for indicators",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1MiB)")
	cmd.Flags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only run these detectors (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "disable these detectors (comma-separated IDs)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would be scanned without running detectors")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (node_modules, dist, images, lockfiles, etc.)")
	cmd.Flags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format (default)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().BoolVar(&flagFailOnMatch, "fail-on-match", false, "exit 1 when findings remain")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "with --fail-on-match, only these kinds count (comma-separated)")
	cmd.Flags().StringVar(&flagBaseline, "baseline", defaultBaseline, "baseline of known findings to suppress")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append this scan to the audit log")
	cmd.Flags().StringVar(&flagUploadURL, "upload", "", "POST findings (JSON) to this URL after scan")
	cmd.Flags().StringVar(&flagUploadToken, "upload-token", "", "Bearer token for upload auth")
	cmd.Flags().BoolVar(&flagNoUploadMeta, "no-upload-metadata", false, "do not include repo/commit/branch in upload envelope")
	cmd.Flags().BoolVar(&flagLast, "last", false, "render the previous scan of --path again without rescanning")
}

func runScan(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	gcfg, lcfg := loadConfigs(abs)
	flags := cmd.Flags()

	cfg := engine.Config{
		Root:             abs,
		IncludeGlobs:     pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:     pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:         pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:          pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		EnableDetectors:  pickString(flagEnable, lcfg.Enable, gcfg.Enable),
		DisableDetectors: pickString(flagDisable, lcfg.Disable, gcfg.Disable),
		DefaultExcludes:  pickBool(flagDefaultExcludes, flags.Changed("default-excludes"), lcfg.DefaultExcludes, gcfg.DefaultExcludes),
		NoCache:          pickBool(flagNoCache, flags.Changed("no-cache"), lcfg.NoCache, gcfg.NoCache),
		DryRun:           flagDryRun,
		Logger:           logger,
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 1 << 20
	}
	noColor := pickBool(flagNoColor, rootCmd.PersistentFlags().Changed("no-color"), lcfg.NoColor, gcfg.NoColor)
	format := outputFormat(pickString("", lcfg.Format, gcfg.Format))
	machine := format == "json" || format == "sarif"
	stderr := cmd.ErrOrStderr()
	if flagLast {
		return renderLast(cmd, abs, format, noColor)
	}

	interactive := !machine && term.IsTerminal(int(os.Stderr.Fd()))
	if interactive {
		ids := detectors.Select(cfg.EnableDetectors, cfg.DisableDetectors)
		fmt.Fprintf(stderr, "Scanning %s with %d detectors...\n", abs, len(ids))
	}

	total, _ := engine.CountTargets(cfg)
	progressed := 0
	if total > 0 && interactive {
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				fmt.Fprintf(stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}
	res, err := engine.ScanWithStats(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if total > 0 && interactive {
		fmt.Fprintln(stderr)
	}
	if flagDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Would scan %d files\n", res.FilesScanned)
		return nil
	}

	findings := res.Findings
	basePath := baselinePath(abs)
	if base, err := report.LoadBaseline(basePath); err == nil {
		findings = report.FilterNewFindings(findings, base)
	} else if !os.IsNotExist(err) {
		logger.Warnw("ignoring baseline", "error", err)
	}
	if findings == nil {
		findings = []types.Finding{}
	}

	if !cfg.NoCache {
		last := cache.LastScan{
			Root:         abs,
			Detectors:    strings.Join(detectors.Select(cfg.EnableDetectors, cfg.DisableDetectors), ","),
			FilesScanned: res.FilesScanned,
			FilesCached:  res.FilesCached,
			Duration:     res.Duration,
			Findings:     findings,
		}
		if err := cache.SaveResults(last); err != nil {
			logger.Debugw("could not save last results", "error", err)
		}
	}
	if !flagNoAudit {
		rec := audit.CreateScanRecord(abs, res.Findings, findings, res.FilesScanned, res.FilesCached, res.Duration, basePath)
		if err := audit.NewAuditLog(abs).LogScan(rec); err != nil {
			logger.Warnw("could not write audit log", "error", err)
		}
	}

	opts := report.PrintOptions{
		NoColor:      !colorOutput(cmd.OutOrStdout(), noColor),
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		FilesCached:  res.FilesCached,
	}
	stats := map[string]int{"filesScanned": res.FilesScanned, "filesCached": res.FilesCached, "filesFailed": res.FilesFailed}
	if err := render(cmd.OutOrStdout(), format, findings, opts, stats); err != nil {
		return err
	}

	// upload failures do not fail the scan
	if flagUploadURL != "" {
		if err := uploadFindings(cmd.Context(), abs, flagUploadURL, flagUploadToken, flagNoUploadMeta, findings); err != nil {
			fmt.Fprintln(stderr, "upload warning:", err)
		}
	}

	if flags.Changed("enable") || flags.Changed("disable") {
		fmt.Fprintf(stderr, "detectors active: %s\n", strings.Join(detectors.Select(cfg.EnableDetectors, cfg.DisableDetectors), ","))
	}
	if flagFailOnMatch && report.ShouldFail(findings, flagFailOn) {
		return exitError{code: 1}
	}
	return nil
}

// renderLast prints the findings saved by the previous scan of root.
func renderLast(cmd *cobra.Command, root, format string, noColor bool) error {
	last, err := cache.LoadResults(root)
	if errors.Is(err, cache.ErrNoResults) {
		return fmt.Errorf("no previous scan of %s (run scan without --no-cache first)", root)
	}
	if err != nil {
		return err
	}
	logger.Debugw("rendering last scan", "root", root, "scanned_at", last.ScannedAt, "findings", len(last.Findings))
	if format != "json" && format != "sarif" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Last scan: %s\n", last.ScannedAt.Local().Format(time.RFC1123))
	}
	opts := report.PrintOptions{
		NoColor:      !colorOutput(cmd.OutOrStdout(), noColor),
		Duration:     last.Duration,
		FilesScanned: last.FilesScanned,
		FilesCached:  last.FilesCached,
	}
	stats := map[string]int{"filesScanned": last.FilesScanned, "filesCached": last.FilesCached}
	if err := render(cmd.OutOrStdout(), format, last.Findings, opts, stats); err != nil {
		return err
	}
	if flagFailOnMatch && report.ShouldFail(last.Findings, flagFailOn) {
		return exitError{code: 1}
	}
	return nil
}

func render(out io.Writer, format string, findings []types.Finding, opts report.PrintOptions, stats map[string]int) error {
	switch format {
	case "sarif":
		if err := report.WriteSARIFWithStats(out, findings, stats); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case "json":
		return report.WriteJSON(out, findings)
	case "text":
		report.PrintText(out, findings, opts)
	default:
		return report.PrintTable(out, findings, opts)
	}
	return nil
}

// outputFormat resolves the renderer: explicit flags first, then the config
// file's format, then the table.
func outputFormat(fromConfig string) string {
	switch {
	case flagSARIF:
		return "sarif"
	case flagJSON:
		return "json"
	case flagText:
		return "text"
	case flagTable:
		return "table"
	}
	switch f := strings.ToLower(fromConfig); f {
	case "sarif", "json", "text", "table":
		return f
	}
	return "table"
}

func baselinePath(root string) string {
	if filepath.IsAbs(flagBaseline) {
		return flagBaseline
	}
	return filepath.Join(root, flagBaseline)
}
