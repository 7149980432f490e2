// =============================================================================
// DCR-PAXLIST Merger - Pipeline Module
// =============================================================================
//
// This module orchestrates one merge run, from the uploaded file bytes to the
// finished output workbook.
//
// MERGE PIPELINE:
//   1. Read the PAXLIST (CSV by file extension, otherwise XLSX)
//   2. Read the DCR (XLSX, header at the selected row)
//   3. Validate the PAXLIST, then the DCR
//   4. Aggregate booking codes per crew ID
//   5. Left-join the DCR against the aggregated bookings
//   6. Serialize the merged table to XLSX
//   7. Apply the styling pass (optional, best effort)
//   8. Compute the result statistics
//
// Steps 1-5 are exposed on their own through ProcessFiles. Run covers the
// whole pipeline.
//
// A run never panics and never returns a Go error to its caller: every
// failure is folded into the status string of the Result.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/csvparser"
	apperrors "github.com/ginjaninja78/dcr-paxlist-merger/internal/errors"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/formatter"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/merger"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/types"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/validation"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/xlsxparser"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/xlsxwriter"
	"github.com/ginjaninja78/dcr-paxlist-merger/pkg/utils"
)

// Status strings and prefixes reported to the caller.
const (
	StatusSuccess       = "Success"
	StatusPaxlistPrefix = "Error PAXLIST: "
	StatusDcrPrefix     = "Error DCR: "
	StatusErrorPrefix   = "Error: "
)

// DefaultDCRHeaderRow is the DCR header row used when none is selected.
const DefaultDCRHeaderRow = 1

// DefaultOutputNameFormat names the output workbook.
const DefaultOutputNameFormat = "DCR_Updated_{timestamp}.xlsx"

// =============================================================================
// INPUT AND RESULT STRUCTURES
// =============================================================================

// Input is one uploaded file: its original name and its content.
type Input struct {
	// Name is the client-side file name. Only its extension matters.
	Name string

	// Data is the raw file content.
	Data []byte
}

// IsCSV reports whether the input should be read as CSV.
func (in Input) IsCSV() bool {
	return strings.HasSuffix(strings.ToLower(in.Name), ".csv")
}

// Request describes one merge run.
type Request struct {
	Paxlist Input
	DCR     Input

	// DCRHeaderRow is the 0-based DCR row holding the headers.
	DCRHeaderRow int

	// ApplyFormatting enables the styling pass.
	ApplyFormatting bool
}

// Result represents the outcome of one merge run.
type Result struct {
	// Success indicates whether the merge produced a table.
	Success bool

	// Status is "Success" or one of the "Error ..." strings.
	Status string

	// Code is the error code of a failed run, empty on success.
	Code string

	// Error contains the underlying error if the run failed.
	Error error

	// Table is the merged table. Nil if the run failed.
	Table *types.Table

	// Output is the serialized workbook. Nil if the run failed.
	Output []byte

	// FileName is the suggested name of the output workbook.
	FileName string

	// Formatted reports whether Output carries the styling.
	Formatted bool

	// Warning is set when styling was requested but failed; Output then
	// holds the unstyled workbook.
	Warning string

	// Stats contains the merge statistics.
	Stats merger.Stats

	// Duration is the time taken by the run.
	Duration time.Duration
}

// Observer is notified once per finished run.
type Observer interface {
	ObserveRun(code string, duration time.Duration, formattingFailed bool)
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor runs merges. It holds no per-run state and is safe for
// concurrent use as long as its Store is.
type Processor struct {
	formatter  *formatter.Formatter
	logger     Logger
	observer   Observer
	nameFormat string
	now        func() time.Time
}

// Option customizes a Processor.
type Option func(*Processor)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithStore sets where the styling pass materializes the workbook.
func WithStore(s formatter.Store) Option {
	return func(p *Processor) { p.formatter = formatter.New(s) }
}

// WithObserver registers a run observer, typically the metrics registry.
func WithObserver(o Observer) Option {
	return func(p *Processor) { p.observer = o }
}

// WithOutputNameFormat sets the output file name format
// (see utils.GenerateOutputFileName).
func WithOutputNameFormat(format string) Option {
	return func(p *Processor) {
		if format != "" {
			p.nameFormat = format
		}
	}
}

// WithClock sets the clock used for output names and durations.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Processor. Without options it logs nothing, styles through
// a TempFileStore in the OS temp directory and names outputs
// DCR_Updated_<timestamp>.xlsx.
func New(opts ...Option) *Processor {
	p := &Processor{
		logger:     nopLogger{},
		nameFormat: DefaultOutputNameFormat,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.formatter == nil {
		p.formatter = formatter.New(nil)
	}
	return p
}

// ProcessFiles reads, validates and merges the two inputs with a default
// Processor.
//
// RETURNS:
//   - The merged table and "Success", or
//   - nil and an "Error PAXLIST: ", "Error DCR: " or "Error: " status.
func ProcessFiles(paxlist, dcr Input, dcrHeaderRow int) (*types.Table, string) {
	table, status, _ := New().Merge(paxlist, dcr, dcrHeaderRow)
	return table, status
}

// Merge runs steps 1-5 of the pipeline.
//
// RETURNS:
//   - The merged table (nil on failure).
//   - The status string.
//   - The underlying error (nil on success).
func (p *Processor) Merge(paxlist, dcr Input, dcrHeaderRow int) (table *types.Table, status string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.InternalError(fmt.Sprint(r), debug.Stack())
			p.logger.Error("Merge panicked: %v", r)
			table, status = nil, errorStatus(err)
		}
	}()

	if dcrHeaderRow < 0 {
		err = apperrors.InvalidInput(fmt.Sprintf("DCR header row must not be negative, got %d", dcrHeaderRow))
		return nil, errorStatus(err), err
	}

	// =========================================================================
	// STEP 1-2: READ INPUTS
	// =========================================================================

	paxTable, err := readPaxlist(paxlist)
	if err != nil {
		p.logger.Error("Failed to read PAXLIST %q: %v", paxlist.Name, err)
		return nil, errorStatus(err), err
	}
	p.logger.Debug("Read PAXLIST %q: %d rows, columns %v", paxlist.Name, paxTable.Len(), paxTable.Columns)

	dcrTable, err := xlsxparser.ParseBytes(dcr.Data, xlsxparser.Options{HeaderRow: dcrHeaderRow})
	if err != nil {
		err = apperrors.ParseError(err, fmt.Sprintf("failed to read DCR %q", dcr.Name))
		p.logger.Error("%v", err)
		return nil, errorStatus(err), err
	}
	p.logger.Debug("Read DCR %q: %d rows, columns %v", dcr.Name, dcrTable.Len(), dcrTable.Columns)

	// =========================================================================
	// STEP 3: VALIDATE
	// =========================================================================

	if ok, msg := validation.ValidatePaxlist(paxTable); !ok {
		p.logger.Warn("PAXLIST rejected: %s", msg)
		return nil, StatusPaxlistPrefix + msg, apperrors.ValidationError(msg)
	}
	if ok, msg := validation.ValidateDcr(dcrTable); !ok {
		p.logger.Warn("DCR rejected: %s", msg)
		return nil, StatusDcrPrefix + msg, apperrors.ValidationError(msg)
	}

	// =========================================================================
	// STEP 4-5: AGGREGATE AND MERGE
	// =========================================================================

	bookings := merger.GroupBookingCodes(paxTable)
	p.logger.Debug("Aggregated bookings for %d crew IDs", bookings.Len())

	merged := merger.Merge(dcrTable, bookings)
	return merged, StatusSuccess, nil
}

// Run executes the whole pipeline for one request.
func (p *Processor) Run(req Request) (result Result) {
	start := p.now()
	p.logger.Info("Merging PAXLIST %q into DCR %q", req.Paxlist.Name, req.DCR.Name)

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.InternalError(fmt.Sprint(r), debug.Stack())
			p.logger.Error("Run panicked: %v", r)
			result = Result{Status: errorStatus(err), Code: apperrors.GetCode(err), Error: err}
		}
		result.Duration = p.now().Sub(start)
		if p.observer != nil {
			p.observer.ObserveRun(result.Code, result.Duration, result.Warning != "")
		}
	}()

	table, status, err := p.Merge(req.Paxlist, req.DCR, req.DCRHeaderRow)
	if err != nil {
		return Result{Status: status, Code: apperrors.GetCode(err), Error: err}
	}

	// =========================================================================
	// STEP 6: SERIALIZE
	// =========================================================================

	output, err := xlsxwriter.Write(table)
	if err != nil {
		err = apperrors.Wrapf(err, "failed to write output workbook for DCR %q", req.DCR.Name)
		p.logger.Error("%v", err)
		return Result{Status: errorStatus(err), Code: apperrors.GetCode(err), Error: err}
	}

	result = Result{
		Success:  true,
		Status:   status,
		Table:    table,
		Output:   output,
		FileName: utils.GenerateOutputFileName(p.nameFormat, start),
		Stats:    merger.ComputeStats(table),
	}

	// =========================================================================
	// STEP 7: STYLE
	// =========================================================================

	if req.ApplyFormatting {
		styled, err := p.formatter.Format(output)
		if err != nil {
			warning := apperrors.StylingError(err)
			result.Warning = warning.Error()
			p.logger.Warn("Formatting skipped, keeping unstyled output: %v", err)
		} else {
			result.Output = styled
			result.Formatted = true
		}
	}

	p.logger.Info("Merged %d crew rows (%d with booking, %d JUMPSEAT)",
		result.Stats.TotalCrew, result.Stats.CrewWithBooking, result.Stats.JumpseatBookings)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readPaxlist reads the PAXLIST by extension: CSV for ".csv", XLSX otherwise.
func readPaxlist(in Input) (*types.Table, error) {
	var (
		table *types.Table
		err   error
	)
	if in.IsCSV() {
		table, err = csvparser.ParseBytes(in.Data, csvparser.DefaultSettings())
	} else {
		table, err = xlsxparser.ParseBytes(in.Data, xlsxparser.Options{})
	}
	if err != nil {
		return nil, apperrors.ParseError(err, fmt.Sprintf("failed to read PAXLIST %q", in.Name))
	}
	return table, nil
}

// errorStatus renders an unexpected failure with its diagnostic detail.
func errorStatus(err error) string {
	return StatusErrorPrefix + err.Error() + "\n\nDetail:\n" + apperrors.Detail(err)
}
