package iocdefang

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List available detectors in processing order",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, id := range engine.DetectorIDs() {
				kind, _ := detectors.KindOf(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", id, kind.Label())
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
