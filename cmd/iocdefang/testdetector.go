package iocdefang

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "test-detector <id> [text...]",
		Short: "Run one detector without conflict filtering against text (arguments or stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToLower(args[0])
			text, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			ms := detectors.RunFunction(id, text)
			if ms == nil {
				return fmt.Errorf("unknown detector id: %s (available: %s)", id, strings.Join(detectors.IDs(), ", "))
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return report.WriteMatchesJSON(out, ms)
			}
			return report.PrintTable(out, matchesAsFindings(ms), report.PrintOptions{NoColor: !colorOutput(out, flagNoColor)})
		},
	}
	// help message includes detector IDs
	cmd.Long = "Available detectors: " + strings.Join(detectors.IDs(), ", ")
	rootCmd.AddCommand(cmd)
}
