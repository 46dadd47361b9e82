package iocdefang

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/engine"
	"github.com/iocdefang/iocdefang/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the baseline of known indicators",
	}

	var path string
	update := &cobra.Command{
		Use:   "update",
		Short: "Record every current finding as known",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			results, err := engine.Scan(cmd.Context(), engine.Config{Root: abs, DefaultExcludes: true, MaxBytes: 1 << 20, Logger: logger})
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(filepath.Join(abs, defaultBaseline), results); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated (%d findings).\n", len(results))
			return nil
		},
	}
	update.Flags().StringVarP(&path, "path", "p", ".", "path to scan")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
