package iocdefang

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iocdefang/iocdefang/internal/types"
)

var errNoInput = errors.New("no input: pass text as arguments or pipe it on stdin")

// readInput joins the positional arguments, or reads stdin when there are
// none. An interactive terminal on stdin is treated as no input.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errNoInput
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// colorOutput reports whether w should get ANSI colours.
func colorOutput(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// matchesAsFindings wraps in-memory matches so the file renderers can print
// them; the location column then shows the byte offset.
func matchesAsFindings(ms []types.Match) []types.Finding {
	out := make([]types.Finding, 0, len(ms))
	for _, m := range ms {
		out = append(out, types.Finding{Match: m})
	}
	return out
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

// pickBool lets an explicitly set flag override the config files, including
// setting a value back to false.
func pickBool(cli bool, changed bool, local, global *bool) bool {
	if changed {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return cli
}
