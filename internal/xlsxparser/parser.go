// =============================================================================
// DCR-PAXLIST Merger - XLSX Parser
// =============================================================================
//
// This module reads spreadsheet uploads (the DCR roster, and the PAXLIST when
// it is not CSV) into the shared types.Table model.
//
// SHEET LAYOUT:
//   DCR exports usually carry a title line above the real header, so the
//   header row is configurable (0-based, physical sheet row):
//
//   | Row | Column A           | Column B | Column C |
//   |-----|--------------------|----------|----------|
//   | 0   | DAILY CREW REPORT  |          |          |
//   | 1   | CREW LIST          | RANK     | BASE     |   <- HeaderRow = 1
//   | 2   | 100/SMITH          | CPT      | CGK      |
//   | 3   | 200/JONES          | FO       | CGK      |
//
//   Rows above the header are discarded. Blank data rows are skipped.
//
// VALUE TYPES:
//   The stored cell type decides how a value is read:
//
//   | Cell type                  | Read as                              |
//   |----------------------------|--------------------------------------|
//   | shared / inline string     | types.ParseText, verbatim ("007")    |
//   | formula with string result | types.ParseText                      |
//   | anything else              | types.ParseCell on the display value |
//
//   A displayed number that is only thousands-grouped ("1,234") falls back
//   to the raw numeric value.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

// =============================================================================
// READ OPTIONS
// =============================================================================

// Options controls which part of the workbook becomes the table.
type Options struct {
	// Sheet is the worksheet to read.
	// Default: "" (the first sheet of the workbook)
	Sheet string

	// HeaderRow is the 0-based sheet row holding the column headers.
	// Default: 0
	HeaderRow int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads an XLSX stream into a table.
//
// PARAMETERS:
//   - r: The workbook bytes.
//   - opts: Sheet and header row selection.
//
// RETURNS:
//   - The parsed table (possibly with zero rows).
//   - An error if the workbook cannot be opened or the header row is absent.
func Parse(r io.Reader, opts Options) (*types.Table, error) {
	if opts.HeaderRow < 0 {
		return nil, fmt.Errorf("header row must not be negative, got %d", opts.HeaderRow)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	rawRows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if len(rows) <= opts.HeaderRow {
		return nil, fmt.Errorf("sheet %q has no header at row %d (sheet has %d rows)", sheet, opts.HeaderRow+1, len(rows))
	}

	table := types.NewTable(types.CleanHeaders(trimTrailingEmpty(rows[opts.HeaderRow]))...)
	width := len(table.Columns)

	for i := opts.HeaderRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		var raw []string
		if i < len(rawRows) {
			raw = rawRows[i]
		}

		cells := make([]types.Cell, width)
		for col := 0; col < width && col < len(row); col++ {
			axis, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell position (%d, %d): %w", col, i, err)
			}
			cellType, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, fmt.Errorf("failed to read type of cell %s: %w", axis, err)
			}
			cells[col] = inferCell(cellType, row[col], getCell(raw, col))
		}
		table.AppendRow(cells...)
	}

	return table, nil
}

// ParseBytes is a convenience wrapper around Parse for in-memory uploads.
func ParseBytes(data []byte, opts Options) (*types.Table, error) {
	return Parse(bytes.NewReader(data), opts)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// inferCell picks the typed value of one cell from its stored type and its
// displayed and raw text.
func inferCell(cellType excelize.CellType, display, raw string) types.Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return types.ParseText(display)
	}

	cell := types.ParseCell(display)
	if cell.Kind() != types.KindText {
		return cell
	}

	// "1,234" displayed for a plain number.
	if ungrouped := strings.ReplaceAll(display, ",", ""); ungrouped != display {
		if types.ParseCell(ungrouped).Kind() == types.KindNumber {
			if rawCell := types.ParseCell(raw); rawCell.Kind() == types.KindNumber {
				return rawCell
			}
		}
	}

	return cell
}

// getCell safely indexes a row.
func getCell(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

// trimTrailingEmpty drops empty header cells after the last named column.
func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// SheetNames lists the worksheets of a workbook in order.
func SheetNames(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
