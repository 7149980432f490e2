// =============================================================================
// DCR-PAXLIST Merger - Preview Command
// =============================================================================
//
// This file defines the 'preview' command, which prints the first rows of a
// PAXLIST or DCR file as the merge would read it. It is the quickest way to
// check which header row a DCR export needs.
//
// COMMAND USAGE:
//   dcrmerge preview --file FILE [--header-row N] [--rows 10] [--sheet NAME]
//
// For workbooks the available sheet names are listed above the table; the
// first sheet is previewed unless --sheet picks another one.
//
// =============================================================================

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/csvparser"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/pipeline"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/xlsxparser"
)

var (
	previewFile      string
	previewHeaderRow int
	previewRows      int
	previewSheet     string
)

// previewCmd represents the 'preview' command.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the first rows of a PAXLIST or DCR file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewFile, "file", "", "File to preview (CSV or XLSX)")
	previewCmd.Flags().IntVar(&previewHeaderRow, "header-row", 0, "0-based row of the column headers")
	previewCmd.Flags().IntVar(&previewRows, "rows", 10, "Number of data rows to print")
	previewCmd.Flags().StringVar(&previewSheet, "sheet", "", "Worksheet to preview (XLSX only, default: first sheet)")

	previewCmd.MarkFlagRequired("file")
}

func runPreview(cmd *cobra.Command) error {
	data, err := os.ReadFile(previewFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", previewFile, err)
	}

	in := pipeline.Input{Name: filepath.Base(previewFile), Data: data}
	if in.IsCSV() && previewSheet != "" {
		return fmt.Errorf("--sheet only applies to workbooks, %s is CSV", in.Name)
	}

	out := cmd.OutOrStdout()
	if !in.IsCSV() {
		sheets, err := xlsxparser.SheetNames(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", previewFile, err)
		}
		fmt.Fprintf(out, "Sheets: %s\n\n", strings.Join(sheets, ", "))
	}

	table, err := readTable(in, previewHeaderRow, previewSheet)
	if err != nil {
		return err
	}

	if err := printTable(out, table.Head(previewRows)); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal rows: %d\n", table.Len())
	return nil
}

// readTable reads a CSV or XLSX input with the given header row. The sheet
// is ignored for CSV.
func readTable(in pipeline.Input, headerRow int, sheet string) (*types.Table, error) {
	if in.IsCSV() {
		settings := csvparser.DefaultSettings()
		settings.HeaderRow = headerRow
		return csvparser.ParseBytes(in.Data, settings)
	}
	return xlsxparser.ParseBytes(in.Data, xlsxparser.Options{Sheet: sheet, HeaderRow: headerRow})
}

// printTable writes the table as aligned, tab-separated columns.
func printTable(w io.Writer, table *types.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range table.Records() {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	return tw.Flush()
}
