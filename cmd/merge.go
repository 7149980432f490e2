// =============================================================================
// DCR-PAXLIST Merger - Merge Command
// =============================================================================
//
// This file defines the 'merge' command, which runs the full pipeline on two
// local files and writes the result workbook.
//
// COMMAND USAGE:
//   dcrmerge merge --paxlist FILE --dcr FILE [flags]
//
// FLAGS:
//   --paxlist        : PAXLIST file (.csv, or any spreadsheet read as XLSX)
//   --dcr            : DCR roster workbook (.xlsx)
//   --header-row     : 0-based DCR header row, 0-2 (default from config, 1)
//   --no-format      : Skip the styling pass
//   --output-dir     : Directory for the result (default from config)
//   --memory-styling : Style in memory instead of through a temp file
//
// EXIT STATUS:
//   0 on success (also when styling fell back to unstyled output),
//   1 on any validation, parse or write error.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/config"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/pipeline"
	"github.com/ginjaninja78/dcr-paxlist-merger/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	paxlistPath   string
	dcrPath       string
	headerRow     int
	noFormat      bool
	outputDir     string
	memoryStyling bool
)

// mergeCmd represents the 'merge' command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge PAXLIST booking codes into a DCR roster",
	Long: `The merge command reads the PAXLIST and the DCR, validates both, attaches
the aggregated booking codes of every crew member to their DCR row and writes
the result as DCR_Updated_<timestamp>.xlsx.

On success the status, the statistics and the output path are printed.
On error the status message is printed and nothing is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge(cmd)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&paxlistPath, "paxlist", "", "PAXLIST file (CSV or XLSX)")
	mergeCmd.Flags().StringVar(&dcrPath, "dcr", "", "DCR roster workbook (XLSX)")
	mergeCmd.Flags().IntVar(&headerRow, "header-row", 1, "0-based row of the DCR column headers (0-2)")
	mergeCmd.Flags().BoolVar(&noFormat, "no-format", false, "Skip the styling pass")
	mergeCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the result workbook")
	mergeCmd.Flags().BoolVar(&memoryStyling, "memory-styling", false, "Style in memory instead of through a temp file")

	mergeCmd.MarkFlagRequired("paxlist")
	mergeCmd.MarkFlagRequired("dcr")
}

// =============================================================================
// MERGE LOGIC
// =============================================================================

// runMerge executes the merge command.
func runMerge(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyMergeFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger := newLogger(cfg)

	paxlist, err := readInput(paxlistPath)
	if err != nil {
		return err
	}
	dcr, err := readInput(dcrPath)
	if err != nil {
		return err
	}

	processor := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithStore(newStore(cfg)),
		pipeline.WithOutputNameFormat(cfg.OutputNameFormat),
	)

	result := processor.Run(pipeline.Request{
		Paxlist:         paxlist,
		DCR:             dcr,
		DCRHeaderRow:    cfg.DCRHeaderRow,
		ApplyFormatting: cfg.FormattingEnabled(),
	})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Status)
	if !result.Success {
		return fmt.Errorf("merge failed")
	}

	if result.Warning != "" {
		fmt.Fprintf(out, "Warning: %s (output is unstyled)\n", result.Warning)
	}

	path, err := utils.NewFileManager(cfg.OutputDir).SaveOutput(result.FileName, result.Output)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Total crew:          %d\n", result.Stats.TotalCrew)
	fmt.Fprintf(out, "Crew with booking:   %d\n", result.Stats.CrewWithBooking)
	fmt.Fprintf(out, "JUMPSEAT bookings:   %d\n", result.Stats.JumpseatBookings)
	fmt.Fprintf(out, "Output:              %s\n", path)

	return nil
}

// applyMergeFlags overlays explicitly set flags onto the configuration.
func applyMergeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("header-row") {
		cfg.DCRHeaderRow = headerRow
	}
	if noFormat {
		cfg.SetFormatting(false)
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if memoryStyling {
		cfg.StylingStore = config.StoreMemory
	}
}

// readInput loads a local file as a pipeline input.
func readInput(path string) (pipeline.Input, error) {
	if !utils.FileExists(path) {
		return pipeline.Input{}, fmt.Errorf("input file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pipeline.Input{Name: filepath.Base(path), Data: data}, nil
}
