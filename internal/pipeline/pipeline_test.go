package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/ginjaninja78/dcr-paxlist-merger/internal/errors"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/formatter"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/merger"
)

// =============================================================================
// FIXTURES
// =============================================================================

const paxlistCSV = "Crew ID,Booking Code,Name\n" +
	"100,AB12,Smith\n" +
	"100,JUMPSEAT,Smith\n" +
	"100,AB12,Smith\n" +
	"300,CD34,Lee\n"

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &rows[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// dcrWorkbook has a title row, so its headers are on row 1.
func dcrWorkbook(t *testing.T) []byte {
	return buildWorkbook(t, [][]interface{}{
		{"DAILY CREW ROSTER"},
		{"CREW LIST", "RANK"},
		{"100/SMITH", "CPT"},
		{"200/JONES", "FO"},
		{300, "FA"},
	})
}

func inputs(t *testing.T) (Input, Input) {
	return Input{Name: "paxlist.csv", Data: []byte(paxlistCSV)},
		Input{Name: "dcr.xlsx", Data: dcrWorkbook(t)}
}

type failingStore struct{}

func (failingStore) Edit([]byte, func(*excelize.File) error) ([]byte, error) {
	return nil, errors.New("disk full")
}

type mockObserver struct{ mock.Mock }

func (m *mockObserver) ObserveRun(code string, d time.Duration, formattingFailed bool) {
	m.Called(code, d, formattingFailed)
}

type panickingLogger struct{ nopLogger }

func (panickingLogger) Debug(string, ...interface{}) { panic("logger exploded") }

func fixedClock() time.Time { return time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC) }

// =============================================================================
// ProcessFiles
// =============================================================================

func TestProcessFilesSuccess(t *testing.T) {
	paxlist, dcr := inputs(t)

	table, status := ProcessFiles(paxlist, dcr, 1)
	require.Equal(t, StatusSuccess, status)
	require.NotNil(t, table)

	assert.Equal(t, [][]string{
		{"CREW LIST", "RANK", "Booking Code"},
		{"100/SMITH", "CPT", "AB12, JUMPSEAT"},
		{"200/JONES", "FO", "-"},
		{"300", "FA", "CD34"},
	}, table.Records())
}

func TestProcessFilesPaxlistFormatByExtension(t *testing.T) {
	_, dcr := inputs(t)
	paxXLSX := buildWorkbook(t, [][]interface{}{
		{"Crew ID", "Booking Code"},
		{200, "JUMPSEAT"},
	})

	table, status := ProcessFiles(Input{Name: "PAX.XLSX", Data: paxXLSX}, dcr, 1)
	require.Equal(t, StatusSuccess, status)
	assert.Equal(t, "JUMPSEAT", table.Value(1, "Booking Code").Text())

	table, status = ProcessFiles(Input{Name: "PAX.CSV", Data: []byte(paxlistCSV)}, dcr, 1)
	require.Equal(t, StatusSuccess, status)
	assert.Equal(t, "CD34", table.Value(2, "Booking Code").Text())

	_, status = ProcessFiles(Input{Name: "pax.xlsx", Data: []byte(paxlistCSV)}, dcr, 1)
	assert.True(t, strings.HasPrefix(status, "Error: failed to read PAXLIST"), status)
}

func TestProcessFilesValidationErrors(t *testing.T) {
	paxlist, dcr := inputs(t)
	emptyDCR := buildWorkbook(t, [][]interface{}{{"title"}, {"CREW LIST", "RANK"}})
	noBookingColumn := Input{Name: "pax.csv", Data: []byte("Crew ID,Name\n100,Smith\n")}

	tests := []struct {
		name    string
		paxlist Input
		dcr     Input
		status  string
	}{
		{"paxlist missing column", noBookingColumn, dcr, "Error PAXLIST: Kolom yang hilang: Booking Code"},
		{"paxlist empty", Input{Name: "pax.csv", Data: []byte("Crew ID,Booking Code\n")}, dcr, "Error PAXLIST: File PAXLIST kosong"},
		{"paxlist without crew ids", Input{Name: "pax.csv", Data: []byte("Crew ID,Booking Code\n,AB12\n")}, dcr, "Error PAXLIST: Kolom Crew ID tidak memiliki data yang valid"},
		{"dcr empty", paxlist, Input{Name: "dcr.xlsx", Data: emptyDCR}, "Error DCR: File DCR kosong"},
		{"paxlist checked first", noBookingColumn, Input{Name: "dcr.xlsx", Data: emptyDCR}, "Error PAXLIST: Kolom yang hilang: Booking Code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, status := ProcessFiles(tt.paxlist, tt.dcr, 1)
			assert.Nil(t, table)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestProcessFilesWrongHeaderRow(t *testing.T) {
	paxlist, dcr := inputs(t)

	table, status := ProcessFiles(paxlist, dcr, 0)
	assert.Nil(t, table)
	assert.Equal(t, "Error DCR: Kolom yang hilang: CREW LIST", status)
}

func TestProcessFilesParseErrorHasDetail(t *testing.T) {
	paxlist, _ := inputs(t)

	table, status := ProcessFiles(paxlist, Input{Name: "dcr.xlsx", Data: []byte("garbage")}, 1)
	assert.Nil(t, table)
	assert.True(t, strings.HasPrefix(status, `Error: failed to read DCR "dcr.xlsx"`), status)

	_, detail, found := strings.Cut(status, "\n\nDetail:\n")
	require.True(t, found, status)
	assert.True(t, strings.HasPrefix(detail, "[PARSE_ERROR]"), detail)
}

func TestMergeErrorCodes(t *testing.T) {
	paxlist, dcr := inputs(t)
	p := New()

	_, _, err := p.Merge(paxlist, dcr, -1)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	_, _, err = p.Merge(paxlist, dcr, 2)
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))

	_, _, err = p.Merge(paxlist, Input{Name: "dcr.xlsx"}, 1)
	assert.Equal(t, apperrors.CodeParseError, apperrors.GetCode(err))
}

func TestMergeRecoversPanics(t *testing.T) {
	paxlist, dcr := inputs(t)

	table, status, err := New(WithLogger(panickingLogger{})).Merge(paxlist, dcr, 1)
	assert.Nil(t, table)
	assert.Equal(t, apperrors.CodeInternalError, apperrors.GetCode(err))
	assert.True(t, strings.HasPrefix(status, "Error: logger exploded"), status)
	assert.Contains(t, status, "goroutine")
}

// =============================================================================
// Run
// =============================================================================

func TestRunSuccess(t *testing.T) {
	paxlist, dcr := inputs(t)
	observer := &mockObserver{}
	observer.On("ObserveRun", "", time.Duration(0), false).Once()

	p := New(
		WithStore(formatter.MemoryStore{}),
		WithObserver(observer),
		WithClock(fixedClock),
	)
	result := p.Run(Request{Paxlist: paxlist, DCR: dcr, DCRHeaderRow: 1, ApplyFormatting: true})

	require.True(t, result.Success, result.Status)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.True(t, result.Formatted)
	assert.Empty(t, result.Warning)
	assert.Equal(t, "DCR_Updated_20240115_143022.xlsx", result.FileName)
	assert.Equal(t, merger.Stats{TotalCrew: 3, CrewWithBooking: 2, JumpseatBookings: 1}, result.Stats)

	f, err := excelize.OpenReader(bytes.NewReader(result.Output))
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle("Sheet1", "C1")
	require.NoError(t, err)
	assert.NotZero(t, styleID, "booking header is styled")

	observer.AssertExpectations(t)
}

func TestRunKeepsDCRTextColumns(t *testing.T) {
	dcr := buildWorkbook(t, [][]interface{}{
		{"DAILY CREW ROSTER"},
		{"CREW LIST", "PHONE", "STAFF NO", "PNR"},
		{"100/SMITH", "081234567890", "007", "123E45"},
	})
	paxlist := Input{Name: "paxlist.csv", Data: []byte("Crew ID,Booking Code\n100,123E45\n100,JUMPSEAT\n")}

	result := New(WithStore(formatter.MemoryStore{})).
		Run(Request{Paxlist: paxlist, DCR: Input{Name: "dcr.xlsx", Data: dcr}, DCRHeaderRow: 1, ApplyFormatting: true})
	require.True(t, result.Success, result.Status)

	f, err := excelize.OpenReader(bytes.NewReader(result.Output))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"CREW LIST", "PHONE", "STAFF NO", "PNR", "Booking Code"}, rows[0])
	assert.Equal(t, []string{"100/SMITH", "081234567890", "007", "123E45", "123E45, JUMPSEAT"}, rows[1])

	for _, axis := range []string{"B2", "C2", "D2"} {
		cellType, err := f.GetCellType("Sheet1", axis)
		require.NoError(t, err)
		assert.NotEqual(t, excelize.CellTypeNumber, cellType, axis)
		assert.NotEqual(t, excelize.CellTypeUnset, cellType, axis)
	}
}

func TestRunFormattingFallback(t *testing.T) {
	paxlist, dcr := inputs(t)
	observer := &mockObserver{}
	observer.On("ObserveRun", "", mock.Anything, true).Once()

	result := New(WithStore(failingStore{}), WithObserver(observer)).
		Run(Request{Paxlist: paxlist, DCR: dcr, DCRHeaderRow: 1, ApplyFormatting: true})

	require.True(t, result.Success)
	assert.False(t, result.Formatted)
	assert.Equal(t, "formatting failed: disk full", result.Warning)

	f, err := excelize.OpenReader(bytes.NewReader(result.Output))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"100/SMITH", "CPT", "AB12, JUMPSEAT"}, rows[1])

	styleID, err := f.GetCellStyle("Sheet1", "C1")
	require.NoError(t, err)
	assert.Zero(t, styleID, "output is unstyled")

	observer.AssertExpectations(t)
}

func TestRunWithoutFormatting(t *testing.T) {
	paxlist, dcr := inputs(t)

	result := New(WithStore(failingStore{})).
		Run(Request{Paxlist: paxlist, DCR: dcr, DCRHeaderRow: 1})

	require.True(t, result.Success)
	assert.False(t, result.Formatted)
	assert.Empty(t, result.Warning, "styling is not attempted")
	assert.NotEmpty(t, result.Output)
}

func TestRunFailure(t *testing.T) {
	paxlist, _ := inputs(t)
	observer := &mockObserver{}
	observer.On("ObserveRun", apperrors.CodeValidationError, mock.Anything, false).Once()

	emptyDCR := buildWorkbook(t, [][]interface{}{{"title"}, {"CREW LIST"}})
	result := New(WithObserver(observer)).
		Run(Request{Paxlist: paxlist, DCR: Input{Name: "dcr.xlsx", Data: emptyDCR}, DCRHeaderRow: 1, ApplyFormatting: true})

	assert.False(t, result.Success)
	assert.Equal(t, "Error DCR: File DCR kosong", result.Status)
	assert.Equal(t, apperrors.CodeValidationError, result.Code)
	assert.Nil(t, result.Table)
	assert.Nil(t, result.Output)

	observer.AssertExpectations(t)
}

func TestRunCustomOutputName(t *testing.T) {
	paxlist, dcr := inputs(t)

	result := New(WithOutputNameFormat("roster_{date}"), WithClock(fixedClock)).
		Run(Request{Paxlist: paxlist, DCR: dcr, DCRHeaderRow: 1})

	require.True(t, result.Success)
	assert.Equal(t, "roster_20240115.xlsx", result.FileName)
}

func TestInputIsCSV(t *testing.T) {
	assert.True(t, Input{Name: "pax.csv"}.IsCSV())
	assert.True(t, Input{Name: "PAX.Csv"}.IsCSV())
	assert.False(t, Input{Name: "pax.xlsx"}.IsCSV())
	assert.False(t, Input{Name: "csv"}.IsCSV())
}

// =============================================================================
// Logger
// =============================================================================

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	logger.Warn("warn %d", 3)
	logger.Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
}
