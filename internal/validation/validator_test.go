package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

func paxlist(columns []string, rows ...[]types.Cell) *types.Table {
	table := types.NewTable(columns...)
	for _, row := range rows {
		table.AppendRow(row...)
	}
	return table
}

func TestValidatePaxlist(t *testing.T) {
	tests := []struct {
		name    string
		table   *types.Table
		ok      bool
		message string
	}{
		{
			name:    "valid",
			table:   paxlist([]string{"Crew ID", "Booking Code"}, []types.Cell{types.Number(100), types.Text("AB12")}),
			ok:      true,
			message: "Valid",
		},
		{
			name:    "missing booking code",
			table:   paxlist([]string{"Crew ID"}, []types.Cell{types.Number(100)}),
			message: "Kolom yang hilang: Booking Code",
		},
		{
			name:    "missing both columns",
			table:   paxlist([]string{"Name"}, []types.Cell{types.Text("x")}),
			message: "Kolom yang hilang: Crew ID, Booking Code",
		},
		{
			name:    "no rows",
			table:   paxlist([]string{"Crew ID", "Booking Code"}),
			message: "File PAXLIST kosong",
		},
		{
			name: "all crew ids null",
			table: paxlist([]string{"Crew ID", "Booking Code"},
				[]types.Cell{types.Null(), types.Text("AB12")},
				[]types.Cell{types.Null(), types.Text("CD34")},
			),
			message: "Kolom Crew ID tidak memiliki data yang valid",
		},
		{
			name: "non-numeric crew id still counts as data",
			table: paxlist([]string{"Crew ID", "Booking Code"},
				[]types.Cell{types.Text("abc"), types.Text("AB12")},
			),
			ok:      true,
			message: "Valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, message := ValidatePaxlist(tt.table)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestValidateDcr(t *testing.T) {
	tests := []struct {
		name    string
		table   *types.Table
		ok      bool
		message string
	}{
		{
			name:    "valid",
			table:   paxlist([]string{"CREW LIST", "RANK"}, []types.Cell{types.Text("100/SMITH")}),
			ok:      true,
			message: "Valid",
		},
		{
			name:    "missing crew list",
			table:   paxlist([]string{"Crew List"}, []types.Cell{types.Text("100/SMITH")}),
			message: "Kolom yang hilang: CREW LIST",
		},
		{
			name:    "empty",
			table:   paxlist([]string{"CREW LIST"}),
			message: "File DCR kosong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, message := ValidateDcr(tt.table)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestMissingColumnsNilTable(t *testing.T) {
	assert.Equal(t, []string{"CREW LIST"}, MissingColumns(nil, RequiredDcrColumns))
	assert.Empty(t, MissingColumns(types.NewTable("CREW LIST"), RequiredDcrColumns))
}
