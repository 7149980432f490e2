package csvparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

func TestParsePaxlist(t *testing.T) {
	input := "Crew ID,Booking Code,Name\n" +
		"100,AB12,Smith\n" +
		"100,JUMPSEAT,Smith\n" +
		"\n" +
		"200, CD34 ,Jones\n" +
		",EF56,\n"

	table, err := Parse(strings.NewReader(input), DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Crew ID", "Booking Code", "Name"}, table.Columns)
	require.Equal(t, 4, table.Len(), "blank lines are skipped")

	assert.Equal(t, types.KindNumber, table.Value(0, "Crew ID").Kind())
	assert.Equal(t, "100", table.Value(0, "Crew ID").Text())
	assert.Equal(t, "CD34", table.Value(2, "Booking Code").Text(), "values are trimmed")
	assert.True(t, table.Value(3, "Crew ID").IsNull())
	assert.True(t, table.Value(3, "Name").IsNull())
}

func TestParseStripsBOMAndCleansHeaders(t *testing.T) {
	input := "\ufeffCrew ID, Booking Code ,,Crew ID\n1,A,x,2\n"

	table, err := ParseBytes([]byte(input), DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Crew ID", "Booking Code", "Unnamed: 2", "Crew ID.1"}, table.Columns)
}

func TestParseRaggedRows(t *testing.T) {
	input := "A,B,C\n1,2\n1,2,3,4\n"

	table, err := Parse(strings.NewReader(input), DefaultSettings())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.True(t, table.Value(0, "C").IsNull())
	assert.Len(t, table.Rows[1], 3)
}

func TestParseHeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("Crew ID,Booking Code\n"), DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""), DefaultSettings())
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(",,\n , \n"), DefaultSettings())
	assert.Error(t, err)
}

func TestParseHeaderRowAndDelimiter(t *testing.T) {
	input := "exported 2024-01-15\nCrew ID;Booking Code\n100;AB12\n"

	table, err := Parse(strings.NewReader(input), Settings{Delimiter: "semicolon", HeaderRow: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"Crew ID", "Booking Code"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "AB12", table.Value(0, "Booking Code").Text())

	_, err = Parse(strings.NewReader(input), Settings{HeaderRow: -1})
	assert.Error(t, err)
}

func TestParseQuotedFields(t *testing.T) {
	input := "Crew ID,Booking Code\n100,\"AB12, CD34\"\n"

	table, err := Parse(strings.NewReader(input), DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "AB12, CD34", table.Value(0, "Booking Code").Text())
}
