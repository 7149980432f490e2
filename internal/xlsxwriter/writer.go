// =============================================================================
// DCR-PAXLIST Merger - XLSX Writer
// =============================================================================
//
// This module serializes a types.Table into an XLSX workbook.
//
// OUTPUT LAYOUT:
//   - One worksheet named "Sheet1"
//   - Row 1: column headers in table order
//   - Row 2+: data rows; Number cells are written as numbers, Text as
//     strings, Null cells are left empty
//
// The writer produces plain, unstyled output. Styling is a separate pass
// (see the formatter package) so it can fail without losing the data.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

// DefaultSheet is the worksheet name of generated workbooks.
const DefaultSheet = "Sheet1"

// Write renders the table as an XLSX document and returns its bytes.
func Write(table *types.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := WriteSheet(f, DefaultSheet, table); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSheet fills an existing worksheet with the table, header first.
func WriteSheet(f *excelize.File, sheet string, table *types.Table) error {
	for col, name := range table.Columns {
		if err := setCell(f, sheet, col, 0, types.Text(name)); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for col := range table.Columns {
			cell := row.Get(col)
			if cell.IsNull() {
				continue
			}
			if err := setCell(f, sheet, col, r+1, cell); err != nil {
				return err
			}
		}
	}

	return nil
}

// setCell writes one typed value at 0-based (col, row).
func setCell(f *excelize.File, sheet string, col, row int, cell types.Cell) error {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("invalid cell position (%d, %d): %w", col, row, err)
	}

	switch cell.Kind() {
	case types.KindNumber:
		n, _ := cell.Numeric()
		err = f.SetCellFloat(sheet, axis, n, -1, 64)
	default:
		err = f.SetCellStr(sheet, axis, cell.Text())
	}
	if err != nil {
		return fmt.Errorf("failed to write cell %s: %w", axis, err)
	}
	return nil
}
