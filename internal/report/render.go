package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/iocdefang/iocdefang/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	FilesCached  int
}

var kindStyles = map[types.Kind]lipgloss.Style{
	types.KindIPv4:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	types.KindIPv6:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	types.KindURL:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	types.KindEmail:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	types.KindDomain: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

func sortForDisplay(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Column < findings[j].Column
	})
}

func location(f types.Finding) string {
	if f.Path == "" {
		return strconv.Itoa(f.Start)
	}
	return fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column)
}

func colorKind(k types.Kind, noColor bool) string {
	if noColor {
		return k.Label()
	}
	st, ok := kindStyles[k]
	if !ok {
		return k.Label()
	}
	return st.Render(k.Label())
}

// PrintText writes one line per finding followed by a summary footer.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sortForDisplay(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No indicators found")
	} else {
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			// pad before colouring so escape codes do not skew the column
			kind := fmt.Sprintf("%-6s", f.Kind.Label())
			if !opts.NoColor {
				if st, ok := kindStyles[f.Kind]; ok {
					kind = st.Render(kind)
				}
			}
			fmt.Fprintf(w, "%s %s  %s\n", kind, location(f), f.Defanged)
		}
	}
	printFooter(w, findings, opts)
}

// PrintTable renders findings with tablewriter. Only the defanged form is
// printed so the output is safe to paste.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) error {
	sortForDisplay(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No indicators found")
		printFooter(w, findings, opts)
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Kind", "Location", "Defanged")
	for _, f := range findings {
		if err := table.Append([]string{colorKind(f.Kind, opts.NoColor), location(f), f.Defanged}); err != nil {
			return fmt.Errorf("table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	printFooter(w, findings, opts)
	return nil
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	counts := Counts(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (ipv4: %d, ipv6: %d, url: %d, email: %d, domain: %d)\n",
		len(findings), counts[types.KindIPv4], counts[types.KindIPv6], counts[types.KindURL],
		counts[types.KindEmail], counts[types.KindDomain])
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d", opts.FilesScanned)
		if opts.FilesCached > 0 {
			fmt.Fprintf(w, " (%d cached)", opts.FilesCached)
		}
		fmt.Fprintln(w)
	}
}

// Counts tallies findings per kind.
func Counts(findings []types.Finding) map[types.Kind]int {
	out := map[types.Kind]int{}
	for _, f := range findings {
		out[f.Kind]++
	}
	return out
}
