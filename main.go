// =============================================================================
// DCR-PAXLIST Merger - Main Entry Point
// =============================================================================
//
// This is the main entry point for the DCR-PAXLIST Merger CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   dcrmerge merge    - Merge a PAXLIST into a DCR and write the workbook
//   dcrmerge preview  - Print the first rows of a PAXLIST or DCR file
//   dcrmerge serve    - Serve the merge over HTTP
//   dcrmerge version  - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core merge logic (readers, validation, merge, styling)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/dcr-paxlist-merger/cmd"
)

func main() {
	cmd.Execute()
}
