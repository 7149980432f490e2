// =============================================================================
// DCR-PAXLIST Merger - Output Formatter
// =============================================================================
//
// This module applies the visual conventions operators expect on the merged
// roster. It works on a serialized workbook, not on the in-memory table, so
// it can run as an optional, failure-tolerant post-processing step.
//
// STYLING RULES (active worksheet):
//   1. Header cell "Booking Code" (row 1, exact match, first occurrence):
//      solid fill #366092, bold white font.
//   2. Booking cells whose text contains "JUMPSEAT" (any case):
//      solid fill #FF0000, bold white font, centered both ways.
//   3. Every column: width = min(longest rendered value + 2, 50).
//
//   Without a "Booking Code" header, rules 1 and 2 are skipped; rule 3
//   still applies.
//
// Re-applying the rules to an already formatted workbook produces the same
// styling.
//
// =============================================================================

package formatter

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/merger"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/validation"
)

// Style constants.
const (
	HeaderFillColor   = "366092"
	JumpseatFillColor = "FF0000"
	FontColor         = "FFFFFF"

	ColumnPadding  = 2
	MaxColumnWidth = 50
)

// Formatter styles merged-roster workbooks through a Store.
type Formatter struct {
	store  Store
	column string
}

// New creates a formatter that highlights the "Booking Code" column.
// A nil store defaults to a TempFileStore in the OS temp directory.
func New(store Store) *Formatter {
	if store == nil {
		store = NewTempFileStore("")
	}
	return &Formatter{store: store, column: validation.ColumnBookingCode}
}

// Format returns a styled copy of the workbook bytes.
// On failure the input is left untouched and an error is returned; callers
// are expected to fall back to the unstyled bytes.
func (fm *Formatter) Format(data []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("formatting panicked: %v", r)
		}
	}()

	return fm.store.Edit(data, func(f *excelize.File) error {
		return Apply(f, fm.column)
	})
}

// Apply styles the active worksheet of an open workbook.
//
// PARAMETERS:
//   - f: The open workbook.
//   - column: The header text of the booking column.
//
// RETURNS:
//   - An error if the sheet cannot be read or a style cannot be set.
func Apply(f *excelize.File, column string) error {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return fmt.Errorf("workbook has no active sheet")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if len(rows) > 0 {
		if col := findColumn(rows[0], column); col >= 0 {
			if err := styleBookingColumn(f, sheet, rows, col); err != nil {
				return err
			}
		}
	}

	return autosizeColumns(f, sheet)
}

// findColumn returns the 0-based index of the first header equal to name.
func findColumn(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// styleBookingColumn highlights the header cell and the JUMPSEAT cells.
func styleBookingColumn(f *excelize.File, sheet string, rows [][]string, col int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{HeaderFillColor}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: FontColor},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	jumpseatStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{JumpseatFillColor}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: FontColor},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create JUMPSEAT style: %w", err)
	}

	if err := setStyle(f, sheet, col, 0, headerStyle); err != nil {
		return err
	}

	for r := 1; r < len(rows); r++ {
		if col >= len(rows[r]) {
			continue
		}
		if value := rows[r][col]; value != "" && merger.IsJumpseat(value) {
			if err := setStyle(f, sheet, col, r, jumpseatStyle); err != nil {
				return err
			}
		}
	}

	return nil
}

// setStyle applies a style to the cell at 0-based (col, row).
func setStyle(f *excelize.File, sheet string, col, row, style int) error {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, axis, axis, style); err != nil {
		return fmt.Errorf("failed to style %s: %w", axis, err)
	}
	return nil
}

// autosizeColumns sets every column width from its longest rendered value.
func autosizeColumns(f *excelize.File, sheet string) error {
	cols, err := f.GetCols(sheet)
	if err != nil {
		return fmt.Errorf("failed to read columns of %q: %w", sheet, err)
	}

	for i, values := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(ColumnWidth(values))); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	return nil
}

// ColumnWidth computes min(longest value + ColumnPadding, MaxColumnWidth),
// counting characters rather than bytes.
func ColumnWidth(values []string) int {
	longest := 0
	for _, v := range values {
		longest = max(longest, utf8.RuneCountInString(v))
	}
	return min(longest+ColumnPadding, MaxColumnWidth)
}
