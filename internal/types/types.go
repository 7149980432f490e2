// =============================================================================
// DCR-PAXLIST Merger - Shared Types
// =============================================================================
//
// This package contains the in-memory table model shared by every stage of
// the merge pipeline:
//   - csvparser / xlsxparser : produce Tables
//   - validation            : inspects Tables
//   - merger                : aggregates and joins Tables
//   - xlsxwriter            : serializes Tables
//
// CELL MODEL:
//   Spreadsheet and CSV values are loosely typed. Every value is carried as a
//   tagged Cell {Null, Text, Number} so the coercion rules are explicit:
//
//   | Source value | Cell            | Text()  | Literal() | Numeric() |
//   |--------------|-----------------|---------|-----------|-----------|
//   | ""  / "NaN"  | Null            | ""      | ""        | none      |
//   | "100"        | Number(100)     | "100"   | "100"     | 100       |
//   | "100.0"      | Number(100)     | "100"   | "100.0"   | 100       |
//   | "123E45"     | Number(1.23e47) | digits  | "123E45"  | 1.23e47   |
//   | "100/SMITH"  | Text            | as-is   | as-is     | none      |
//
//   Values whose source already marks them as strings (XLSX string cells)
//   skip numeric inference entirely, see ParseText.
//
// =============================================================================

package types

import (
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// CELL
// =============================================================================

// Kind identifies which variant a Cell holds.
type Kind int

const (
	// KindNull is an absent value (empty cell, NA marker).
	KindNull Kind = iota

	// KindText is a free-form string value.
	KindText

	// KindNumber is a numeric value.
	KindNumber
)

// Cell is a single tabular value.
// The zero value is a Null cell.
type Cell struct {
	kind Kind
	text string
	num  float64

	// literal is the source spelling of an inferred number.
	literal string
}

// Null returns an absent cell.
func Null() Cell { return Cell{} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Number returns a numeric cell. NaN and infinities are stored as Null.
func Number(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Cell{kind: KindNumber, num: f}
}

// naValues are the raw strings read as Null, mirroring the markers
// spreadsheet tooling conventionally treats as "not available".
var naValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// ParseCell infers a Cell from a raw string read out of a CSV or XLSX file.
//
// INFERENCE RULES:
//   1. NA markers (and the empty string) become Null.
//   2. Values that parse as a finite decimal number become Number.
//   3. Everything else is kept verbatim as Text.
func ParseCell(raw string) Cell {
	if _, isNA := naValues[raw]; isNA {
		return Null()
	}
	if f, ok := parseNumber(raw); ok {
		cell := Number(f)
		cell.literal = raw
		return cell
	}
	return Text(raw)
}

// ParseText reads a value that is a string at the source. NA markers still
// become Null; anything else is kept verbatim as Text, even "007".
func ParseText(raw string) Cell {
	if _, isNA := naValues[raw]; isNA {
		return Null()
	}
	return Text(raw)
}

// Kind returns the variant held by the cell.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell is absent.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Text renders the cell as a string.
// Null renders as "", integral numbers render without a fractional part.
func (c Cell) Text() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return formatNumber(c.num)
	default:
		return ""
	}
}

// Literal renders the cell as it was written in the source file. Numbers
// built with Number have no source spelling and fall back to Text.
func (c Cell) Literal() string {
	if c.kind == KindNumber && c.literal != "" {
		return c.literal
	}
	return c.Text()
}

// String implements fmt.Stringer.
func (c Cell) String() string { return c.Text() }

// Numeric coerces the cell to a number.
// Text is trimmed before parsing; Null and non-numeric text yield false.
func (c Cell) Numeric() (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, true
	case KindText:
		return parseNumber(strings.TrimSpace(c.text))
	default:
		return 0, false
	}
}

// parseNumber accepts plain decimal notation only. Hex floats, "Inf" and
// "NaN" spellings are rejected so they stay text.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !strings.ContainsRune("+-.eE", r) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// formatNumber renders integral values as integers and everything else in
// the shortest round-tripping decimal form.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// =============================================================================
// ROW AND TABLE
// =============================================================================

// Row is one record, positionally aligned with Table.Columns.
type Row []Cell

// Get returns the cell at index i, or Null when the row is short.
func (r Row) Get(i int) Cell {
	if i < 0 || i >= len(r) {
		return Null()
	}
	return r[i]
}

// Table is an ordered sequence of rows sharing one column schema.
type Table struct {
	// Columns holds the header names in file order.
	Columns []string

	// Rows holds the data rows.
	Rows []Row
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the position of the named column, or -1.
// Matching is exact and case-sensitive.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Value returns the cell at (row, column name), or Null if either is missing.
func (t *Table) Value(row int, column string) Cell {
	if row < 0 || row >= len(t.Rows) {
		return Null()
	}
	return t.Rows[row].Get(t.ColumnIndex(column))
}

// Column returns every cell of the named column in row order.
// A missing column yields nil.
func (t *Table) Column(name string) []Cell {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Get(idx)
	}
	return out
}

// AppendRow adds a row, padding or truncating it to the column count.
func (t *Table) AppendRow(cells ...Cell) {
	row := make(Row, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Head returns a copy of the table limited to the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	head := NewTable(t.Columns...)
	head.Rows = append(head.Rows, t.Rows[:n]...)
	return head
}

// Records renders the table as header + text rows, e.g. for printing.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i := range t.Columns {
			rec[i] = row.Get(i).Text()
		}
		out = append(out, rec)
	}
	return out
}

// =============================================================================
// HEADER CLEANING
// =============================================================================

// CleanHeaders normalizes a raw header row into unique column names.
//
// CLEANING OPERATIONS:
//   - Surrounding whitespace is trimmed.
//   - Empty headers become "Unnamed: <index>" (0-based position).
//   - Repeated names get a ".1", ".2", ... suffix so every column stays
//     addressable by name. The first occurrence keeps the bare name.
func CleanHeaders(raw []string) []string {
	cleaned := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	suffix := make(map[string]int)

	for i, header := range raw {
		header = strings.TrimSpace(header)
		if header == "" {
			header = "Unnamed: " + strconv.Itoa(i)
		}

		name := header
		for used[name] {
			suffix[header]++
			name = header + "." + strconv.Itoa(suffix[header])
		}
		used[name] = true
		cleaned[i] = name
	}

	return cleaned
}
