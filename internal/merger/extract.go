// =============================================================================
// DCR-PAXLIST Merger - Crew Identifier Extraction
// =============================================================================
//
// DCR rosters identify crew in a composite "CREW LIST" column:
//
//   | CREW LIST         | Crew ID |
//   |-------------------|---------|
//   | 100/SMITH         | 100     |
//   | 456               | 456     |
//   |   789 /X          | 789     |
//   | abc/DEF           | (none)  |
//   | 12/A/B            | 12      |
//   | (empty)           | (none)  |
//
// A row without an identifier is not an error; it simply never matches a
// booking and ends up with the "-" placeholder.
//
// =============================================================================

package merger

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

// ExtractCrewID parses the crew identifier out of a CREW LIST cell.
//
// STEPS:
//   1. Null input yields no identifier.
//   2. The cell is rendered to text and trimmed.
//   3. If it contains "/", only the part before the first "/" is kept,
//      trimmed again.
//   4. The remainder must parse as a base-10 integer.
func ExtractCrewID(cell types.Cell) (int64, bool) {
	if cell.IsNull() {
		return 0, false
	}

	token := strings.TrimSpace(cell.Text())
	if before, _, found := strings.Cut(token, "/"); found {
		token = strings.TrimSpace(before)
	}
	if token == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
