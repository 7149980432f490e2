package xlsxwriter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

func TestWrite(t *testing.T) {
	table := types.NewTable("CREW LIST", "Hours", "Booking Code")
	table.AppendRow(types.Text("100/SMITH"), types.Number(7.5), types.Text("AB12, JUMPSEAT"))
	table.AppendRow(types.Number(200), types.Null(), types.Text("-"))

	data, err := Write(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, DefaultSheet, f.GetSheetName(f.GetActiveSheetIndex()))

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"CREW LIST", "Hours", "Booking Code"},
		{"100/SMITH", "7.5", "AB12, JUMPSEAT"},
		{"200", "", "-"},
	}, rows)

	raw, err := f.GetCellValue(DefaultSheet, "A3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "200", raw)
}

func TestWriteHeaderOnly(t *testing.T) {
	data, err := Write(types.NewTable("CREW LIST", "Booking Code"))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"CREW LIST", "Booking Code"}}, rows)
}
