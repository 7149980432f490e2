// =============================================================================
// DCR-PAXLIST Merger - Validation
// =============================================================================
//
// Structural checks run on both inputs before any merging happens.
//
// PAXLIST:
//   1. Columns "Crew ID" and "Booking Code" must exist.
//   2. At least one data row.
//   3. At least one non-null "Crew ID".
//
// DCR:
//   1. Column "CREW LIST" must exist.
//   2. At least one data row.
//
// Messages are user-facing and kept in the operators' language (Indonesian).
// A failed check is a reported result, never a panic or a process exit.
//
// =============================================================================

package validation

import (
	"strings"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

// Column names the pipeline depends on.
const (
	ColumnCrewID      = "Crew ID"
	ColumnBookingCode = "Booking Code"
	ColumnCrewList    = "CREW LIST"
)

// User-facing validation messages.
const (
	MsgValid             = "Valid"
	MsgMissingColumns    = "Kolom yang hilang: "
	MsgPaxlistEmpty      = "File PAXLIST kosong"
	MsgCrewIDNoValidData = "Kolom Crew ID tidak memiliki data yang valid"
	MsgDcrEmpty          = "File DCR kosong"
)

// RequiredPaxlistColumns lists the PAXLIST columns in reporting order.
var RequiredPaxlistColumns = []string{ColumnCrewID, ColumnBookingCode}

// RequiredDcrColumns lists the DCR columns in reporting order.
var RequiredDcrColumns = []string{ColumnCrewList}

// ValidatePaxlist checks the PAXLIST table structure.
//
// RETURNS:
//   - ok: true when the table can be aggregated.
//   - message: MsgValid, or the reason the table was rejected.
func ValidatePaxlist(table *types.Table) (bool, string) {
	if missing := MissingColumns(table, RequiredPaxlistColumns); len(missing) > 0 {
		return false, MsgMissingColumns + strings.Join(missing, ", ")
	}

	if table.Len() == 0 {
		return false, MsgPaxlistEmpty
	}

	for _, cell := range table.Column(ColumnCrewID) {
		if !cell.IsNull() {
			return true, MsgValid
		}
	}
	return false, MsgCrewIDNoValidData
}

// ValidateDcr checks the DCR table structure.
func ValidateDcr(table *types.Table) (bool, string) {
	if missing := MissingColumns(table, RequiredDcrColumns); len(missing) > 0 {
		return false, MsgMissingColumns + strings.Join(missing, ", ")
	}

	if table.Len() == 0 {
		return false, MsgDcrEmpty
	}

	return true, MsgValid
}

// MissingColumns returns the required columns absent from the table,
// in the order they were requested.
func MissingColumns(table *types.Table, required []string) []string {
	var missing []string
	for _, col := range required {
		if table == nil || !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
