package iocdefang

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/rewrite"
)

func init() {
	cmd := &cobra.Command{
		Use:   "refang [text...]",
		Short: "Restore defanged indicators (hxxp, [.], [@]) to their live form",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, rewrite.Refang(text))
			if len(args) > 0 {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
