package iocdefang

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/rewrite"
)

var (
	flagDefangCopy    bool
	flagDefangFile    string
	flagDefangWrite   bool
	flagDefangEnable  string
	flagDefangDisable string
)

func init() {
	cmd := &cobra.Command{
		Use:   "defang [text...]",
		Short: "Rewrite indicators in text or a file into their defanged form",
		RunE:  runDefang,
	}
	cmd.Example = `  iocdefang defang "beacon to evil.example"
  cat report.txt | iocdefang defang --copy
  iocdefang defang --file report.txt --write`
	cmd.Flags().BoolVar(&flagDefangCopy, "copy", false, "also copy the result to the clipboard")
	cmd.Flags().StringVar(&flagDefangFile, "file", "", "read input from this file")
	cmd.Flags().BoolVar(&flagDefangWrite, "write", false, "with --file, rewrite the file in place")
	cmd.Flags().StringVar(&flagDefangEnable, "enable", "", "only defang these detectors (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDefangDisable, "disable", "", "skip these detectors (comma-separated IDs)")
	rootCmd.AddCommand(cmd)
}

func runDefang(cmd *cobra.Command, args []string) error {
	ids := detectors.Select(flagDefangEnable, flagDefangDisable)
	out := cmd.OutOrStdout()

	if flagDefangWrite {
		if flagDefangFile == "" {
			return fmt.Errorf("--write requires --file")
		}
		changed, err := rewrite.File(flagDefangFile, ids)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintln(out, "defanged", flagDefangFile)
		} else {
			fmt.Fprintln(out, "no changes:", flagDefangFile)
		}
		return nil
	}

	var text string
	if flagDefangFile != "" {
		b, err := os.ReadFile(flagDefangFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", flagDefangFile, err)
		}
		text = string(b)
	} else {
		t, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		text = t
	}

	res, ms := rewrite.Defang(text, ids)
	logger.Debugw("defang", "matches", len(ms))
	if flagJSON {
		return writeDefangJSON(out, res, ms)
	}
	fmt.Fprint(out, res)
	if len(args) > 0 {
		fmt.Fprintln(out)
	}
	if flagDefangCopy {
		if err := clipboard.WriteAll(res); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
	}
	return nil
}
