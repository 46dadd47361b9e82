package iocdefang

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/report"
)

var (
	flagDetectTable   bool
	flagDetectEnable  string
	flagDetectDisable string
)

func init() {
	cmd := &cobra.Command{
		Use:   "detect [text...]",
		Short: "List the indicators found in text (arguments or stdin)",
		RunE:  runDetect,
	}
	cmd.Flags().BoolVar(&flagDetectTable, "table", false, "output as a table")
	cmd.Flags().StringVar(&flagDetectEnable, "enable", "", "only run these detectors (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDetectDisable, "disable", "", "disable these detectors (comma-separated IDs)")
	rootCmd.AddCommand(cmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	ids := detectors.Select(flagDetectEnable, flagDetectDisable)
	ms := detectors.DetectWith(text, ids)
	logger.Debugw("detect", "bytes", len(text), "matches", len(ms))

	out := cmd.OutOrStdout()
	switch {
	case flagJSON:
		return report.WriteMatchesJSON(out, ms)
	case flagDetectTable:
		return report.PrintTable(out, matchesAsFindings(ms), report.PrintOptions{NoColor: !colorOutput(out, flagNoColor)})
	default:
		for _, m := range ms {
			fmt.Fprintf(out, "%s\t%d-%d\t%s\n", m.Kind, m.Start, m.End, m.Defanged)
		}
		return nil
	}
}
