package iocdefang

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/config"
	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/files"
)

var (
	cfgPath            string
	cfgPreset          string
	cfgOutput          string
	cfgEnable          string
	cfgDisable         string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgFormat          string
	cfgGitignore       bool
)

func init() {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (global merged with local) as YAML",
		RunE:  runConfigShow,
	}
	cfgCmd.Flags().StringVarP(&cfgPath, "path", "p", ".", "directory whose local config is merged")
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .iocdefang.yml with selected detectors and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgPreset, "preset", "standard", "detector preset: network | standard")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".iocdefang.yml", "output file path")
	initCmd.Flags().StringVar(&cfgEnable, "enable", "", "comma-separated detector IDs to enable (overrides preset if set)")
	initCmd.Flags().StringVar(&cfgDisable, "disable", "", "comma-separated detector IDs to disable")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().StringVar(&cfgFormat, "format", "", "default scan output: table|text|json|sarif")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", false, "also add scan state files to .gitignore next to the output")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(cfgPath)
	if err != nil {
		return err
	}
	gcfg, lcfg := loadConfigs(abs)
	b, err := config.Marshal(config.Merge(gcfg, lcfg))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	enable := strings.TrimSpace(cfgEnable)
	if enable == "" {
		switch strings.ToLower(cfgPreset) {
		case "network":
			// addresses and URLs only; leaves prose domains and mailboxes alone
			enable = "ipv4,ipv6,url"
		case "standard":
			enable = strings.Join(detectors.IDs(), ",")
		default:
			return fmt.Errorf("unknown preset %q", cfgPreset)
		}
	}

	fc := config.FileConfig{
		MaxBytes:        int64Ptr(cfgMaxBytes),
		Enable:          strPtr(enable),
		Disable:         optStrPtr(cfgDisable),
		Threads:         intPtr(cfgThreads),
		NoColor:         boolPtr(cfgNoColor),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
		Format:          optStrPtr(cfgFormat),
	}

	b, err := config.Marshal(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	if cfgGitignore {
		if err := files.AppendIgnore(filepath.Dir(cfgOutput), files.StateIgnores()...); err != nil {
			return fmt.Errorf("update .gitignore: %w", err)
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
