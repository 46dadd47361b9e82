package iocdefang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/iocdefang/iocdefang/internal/audit"
)

func init() {
	var (
		path   string
		limit  int
		remove int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous scans recorded in the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			log := audit.NewAuditLog(abs)
			if remove >= 0 {
				if err := log.DeleteRecord(remove); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted record", remove)
				return nil
			}
			records, err := log.LoadHistory()
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if flagJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("#", "When", "Files", "Findings", "New", "Kinds")
			for i, r := range records {
				row := []string{
					strconv.Itoa(i),
					r.Timestamp.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(r.FilesScanned),
					strconv.Itoa(r.TotalFindings),
					strconv.Itoa(r.NewFindings),
					kindSummary(r.KindCounts),
				}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "scan root whose history to show")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many records (0 = all)")
	cmd.Flags().IntVar(&remove, "delete", -1, "delete the record with this index instead of listing")
	rootCmd.AddCommand(cmd)
}

func kindSummary(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
