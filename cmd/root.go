// =============================================================================
// DCR-PAXLIST Merger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (dcrmerge)
//   ├── mergeCmd   (dcrmerge merge)
//   ├── previewCmd (dcrmerge preview)
//   ├── serveCmd   (dcrmerge serve)
//   └── versionCmd (dcrmerge version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration for the subcommands
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/config"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/formatter"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/pipeline"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dcrmerge",
	Short: "DCR-PAXLIST Merger - Attach PAXLIST booking codes to a DCR crew roster",
	Long: `DCR-PAXLIST Merger joins a passenger list (PAXLIST, CSV or XLSX) onto a
daily crew roster (DCR, XLSX). Every DCR row gets a "Booking Code" column with
the crew member's booking codes, or "-" when there are none. JUMPSEAT bookings
are highlighted in the output workbook.

Example Usage:
  dcrmerge merge --paxlist pax.csv --dcr dcr.xlsx  # Merge and write the result
  dcrmerge preview --file dcr.xlsx --header-row 1  # Show the first rows of a file
  dcrmerge serve --addr :8080                      # Serve the merge over HTTP`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (optional when left at the default)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration. The file is only required when the
// user pointed --config at it explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.Load(cfgFile, !explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger creates the stderr logger for the configured level.
func newLogger(cfg *config.Config) pipeline.Logger {
	return pipeline.NewLogger(os.Stderr, cfg.LogLevel)
}

// newStore creates the styling store selected by the configuration.
func newStore(cfg *config.Config) formatter.Store {
	if cfg.StylingStore == config.StoreMemory {
		return formatter.MemoryStore{}
	}
	return formatter.NewTempFileStore(cfg.TempDir)
}
