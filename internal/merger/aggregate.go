package merger

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/validation"
)

// BookingSeparator joins the codes of one crew member.
const BookingSeparator = ", "

// BookingGroup is the set of distinct booking codes of one crew member,
// in the order they first appeared in the PAXLIST.
type BookingGroup struct {
	CrewID float64
	Codes  []string
}

// Joined renders the group as its display string, e.g. "AB12, JUMPSEAT".
func (g BookingGroup) Joined() string {
	return strings.Join(g.Codes, BookingSeparator)
}

// AggregatedBookings maps numeric crew identifiers to their booking codes.
// Groups are kept in ascending CrewID order.
type AggregatedBookings struct {
	groups []BookingGroup
	index  map[float64]int
}

// GroupBookingCodes aggregates PAXLIST rows per crew member.
//
// STEPS:
//   1. Rows with a null Crew ID or Booking Code are dropped.
//   2. Crew ID is coerced to a number; rows that fail are dropped.
//   3. Rows are grouped by the numeric Crew ID.
//   4. Each group's codes are deduplicated by text, first occurrence wins.
//      Codes keep their source spelling, so "123E45" stays "123E45".
//
// A table missing either column yields an empty aggregation.
func GroupBookingCodes(paxlist *types.Table) *AggregatedBookings {
	agg := &AggregatedBookings{index: make(map[float64]int)}

	crewIdx := paxlist.ColumnIndex(validation.ColumnCrewID)
	codeIdx := paxlist.ColumnIndex(validation.ColumnBookingCode)
	if crewIdx < 0 || codeIdx < 0 {
		return agg
	}

	var groups []BookingGroup
	byID := make(map[float64]int)
	seen := make(map[float64]map[string]struct{})

	for _, row := range paxlist.Rows {
		crewCell, codeCell := row.Get(crewIdx), row.Get(codeIdx)
		if crewCell.IsNull() || codeCell.IsNull() {
			continue
		}

		id, ok := crewCell.Numeric()
		if !ok {
			continue
		}

		pos, exists := byID[id]
		if !exists {
			pos = len(groups)
			byID[id] = pos
			groups = append(groups, BookingGroup{CrewID: id})
			seen[id] = make(map[string]struct{})
		}

		code := codeCell.Literal()
		if _, dup := seen[id][code]; dup {
			continue
		}
		seen[id][code] = struct{}{}
		groups[pos].Codes = append(groups[pos].Codes, code)
	}

	slices.SortStableFunc(groups, func(a, b BookingGroup) int {
		return cmp.Compare(a.CrewID, b.CrewID)
	})
	for i, g := range groups {
		agg.index[g.CrewID] = i
	}
	agg.groups = groups

	return agg
}

// Lookup returns the joined booking codes of an integer crew identifier.
// Groups whose numeric Crew ID has a fractional part never match.
func (a *AggregatedBookings) Lookup(id int64) (string, bool) {
	if a == nil {
		return "", false
	}
	pos, ok := a.index[float64(id)]
	if !ok {
		return "", false
	}
	return a.groups[pos].Joined(), true
}

// Groups returns the aggregated groups in ascending CrewID order.
func (a *AggregatedBookings) Groups() []BookingGroup {
	if a == nil {
		return nil
	}
	return slices.Clone(a.groups)
}

// Len returns the number of distinct crew identifiers.
func (a *AggregatedBookings) Len() int {
	if a == nil {
		return 0
	}
	return len(a.groups)
}
