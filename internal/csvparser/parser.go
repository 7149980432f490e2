// =============================================================================
// DCR-PAXLIST Merger - CSV Parser Module
// =============================================================================
//
// This module parses CSV uploads (the PAXLIST may arrive as CSV) into the
// shared types.Table model.
//
// FEATURES:
//   - Configurable delimiter and header row offset
//   - UTF-8 byte order mark stripped from the first header
//   - Blank lines skipped
//   - Ragged rows tolerated: short rows are padded with Null, extra cells
//     beyond the header are dropped
//   - Every value inferred into a typed cell via types.ParseCell
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
)

// =============================================================================
// PARSER SETTINGS
// =============================================================================

// Settings contains settings for parsing CSV input.
type Settings struct {
	// Delimiter is the character used to separate fields.
	// Common values: "," (comma), ";" (semicolon), "\t" or "tab"
	// Default: ","
	Delimiter string

	// HeaderRow is the 0-based index of the header line, counted after
	// blank lines are removed. Lines before it are discarded.
	// Default: 0
	HeaderRow int
}

// DefaultSettings returns the settings used for PAXLIST uploads.
func DefaultSettings() Settings {
	return Settings{Delimiter: ",", HeaderRow: 0}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads CSV data and returns it as a table.
//
// PARAMETERS:
//   - r: The CSV byte stream.
//   - settings: Delimiter and header row settings.
//
// RETURNS:
//   - The parsed table (possibly with zero rows).
//   - An error if the stream is not valid CSV or has no header line.
func Parse(r io.Reader, settings Settings) (*types.Table, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	// encoding/csv already drops fully empty lines; lines of bare
	// delimiters still need removing.
	records := allRows[:0]
	for _, row := range allRows {
		if !isRowEmpty(row) {
			records = append(records, row)
		}
	}

	if settings.HeaderRow < 0 {
		return nil, fmt.Errorf("header row must not be negative, got %d", settings.HeaderRow)
	}
	if len(records) <= settings.HeaderRow {
		return nil, fmt.Errorf("CSV has no header row at line %d", settings.HeaderRow+1)
	}

	header := records[settings.HeaderRow]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := types.NewTable(types.CleanHeaders(header)...)
	for _, record := range records[settings.HeaderRow+1:] {
		table.AppendRow(toCells(record, len(table.Columns))...)
	}

	return table, nil
}

// ParseBytes is a convenience wrapper around Parse for in-memory uploads.
func ParseBytes(data []byte, settings Settings) (*types.Table, error) {
	return Parse(bytes.NewReader(data), settings)
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Allow variable number of fields per row.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

// toCells converts one record into exactly width typed cells.
func toCells(record []string, width int) []types.Cell {
	cells := make([]types.Cell, width)
	for i := 0; i < width && i < len(record); i++ {
		cells[i] = types.ParseCell(strings.TrimSpace(record[i]))
	}
	return cells
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
