package merger

import (
	"strings"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/validation"
)

// NoBooking is written for DCR rows without matching bookings.
const NoBooking = "-"

// JumpseatMarker flags booking codes that need highlighting.
const JumpseatMarker = "JUMPSEAT"

// IsJumpseat reports whether a booking value contains the marker,
// ignoring case.
func IsJumpseat(value string) bool {
	return strings.Contains(strings.ToUpper(value), JumpseatMarker)
}

// Merge left-joins the DCR roster against the aggregated bookings.
//
// Every DCR row appears exactly once in the result, in the original order,
// with all original columns followed by "Booking Code". A DCR that already
// has a "Booking Code" column gets that column overwritten in place.
//
// The join key of each row is ExtractCrewID of its CREW LIST cell. Rows
// without a key or without a matching group get NoBooking.
func Merge(dcr *types.Table, bookings *AggregatedBookings) *types.Table {
	merged := types.NewTable(dcr.Columns...)

	bookingIdx := merged.ColumnIndex(validation.ColumnBookingCode)
	if bookingIdx < 0 {
		merged.Columns = append(merged.Columns, validation.ColumnBookingCode)
		bookingIdx = len(merged.Columns) - 1
	}
	crewIdx := dcr.ColumnIndex(validation.ColumnCrewList)

	merged.Rows = make([]types.Row, 0, dcr.Len())
	for _, row := range dcr.Rows {
		out := make(types.Row, len(merged.Columns))
		copy(out, row)

		value := NoBooking
		if id, ok := ExtractCrewID(row.Get(crewIdx)); ok {
			if codes, found := bookings.Lookup(id); found {
				value = codes
			}
		}
		out[bookingIdx] = types.Text(value)

		merged.Rows = append(merged.Rows, out)
	}

	return merged
}

// Stats summarizes a merged table.
type Stats struct {
	// TotalCrew is the number of DCR rows.
	TotalCrew int `json:"total_crew"`

	// CrewWithBooking counts rows whose booking value is not NoBooking.
	CrewWithBooking int `json:"crew_with_booking"`

	// JumpseatBookings counts rows whose booking value contains JUMPSEAT.
	JumpseatBookings int `json:"jumpseat_bookings"`
}

// ComputeStats counts crew, matched crew and JUMPSEAT rows.
func ComputeStats(merged *types.Table) Stats {
	stats := Stats{TotalCrew: merged.Len()}
	for _, cell := range merged.Column(validation.ColumnBookingCode) {
		value := cell.Text()
		if value != NoBooking {
			stats.CrewWithBooking++
		}
		if IsJumpseat(value) {
			stats.JumpseatBookings++
		}
	}
	return stats
}
