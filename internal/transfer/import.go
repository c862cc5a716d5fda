package transfer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// Saver stores one candidate. Both tracker.Store and tracker.Service
// satisfy it.
type Saver interface {
	Save(ctx context.Context, c tracker.Candidate) (tracker.Application, error)
}

// Result counts an import. Total is the number of records offered,
// Imported the number saved.
type Result struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

// untitled replaces a missing title in CSV rows.
const untitled = "Untitled"

// record is one imported application before it becomes a Candidate.
type record struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	URL         string     `json:"url" validate:"required"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	DateApplied *time.Time `json:"dateApplied"`
}

func (r record) candidate() tracker.Candidate {
	return tracker.Candidate{
		ID:          r.ID,
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		URL:         r.URL,
		Status:      tracker.Status(r.Status),
		Notes:       r.Notes,
		DateApplied: r.DateApplied,
	}
}

// Importer routes imported records through a Saver. Records that fail
// validation, or that the Saver rejects as invalid, are skipped. Any other
// Saver error stops the import.
type Importer struct {
	saver    Saver
	validate *validator.Validate
}

// NewImporter creates an Importer that saves through saver.
func NewImporter(saver Saver) *Importer {
	return &Importer{
		saver:    saver,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Import reads a document in the given format.
func (im *Importer) Import(ctx context.Context, r io.Reader, format Format) (Result, error) {
	switch format {
	case FormatJSON:
		return im.ImportJSON(ctx, r)
	case FormatCSV:
		return im.ImportCSV(ctx, r)
	default:
		return Result{}, fmt.Errorf("%w: unsupported format %q", tracker.ErrInvalidInput, format)
	}
}

// ImportJSON reads a JSON array of application records.
func (im *Importer) ImportJSON(ctx context.Context, r io.Reader) (Result, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return Result{}, fmt.Errorf("%w: expected a JSON array of applications: %v", tracker.ErrInvalidInput, err)
	}
	if items == nil {
		return Result{}, fmt.Errorf("%w: expected a JSON array of applications", tracker.ErrInvalidInput)
	}

	res := Result{Total: len(items)}
	for i, item := range items {
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			slog.Warn("skipping malformed record", "index", i, "error", err)
			continue
		}
		ok, err := im.save(ctx, rec, i)
		if err != nil {
			return res, err
		}
		if ok {
			res.Imported++
		}
	}
	return res, nil
}

// ImportCSV reads a CSV document whose first row is a header. Columns are
// found by case-insensitive substring match on the header names; "title"
// and "url" columns are required. Rows without a title are saved as
// "Untitled". A row that fails to parse is skipped and still counted in
// the total.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: csv needs a header and at least one data row", tracker.ErrInvalidInput)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: parse csv header: %v", tracker.ErrInvalidInput, err)
	}

	cols := resolveColumns(header)
	if cols.title < 0 || cols.url < 0 {
		return Result{}, fmt.Errorf("%w: csv needs title and url columns", tracker.ErrInvalidInput)
	}

	var res Result
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		res.Total++

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			slog.Warn("skipping unparsable row", "index", res.Total, "line", perr.Line, "error", perr.Err)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("read csv: %w", err)
		}

		rec := record{
			Title:    cell(row, cols.title),
			Company:  cell(row, cols.company),
			Location: cell(row, cols.location),
			URL:      cell(row, cols.url),
			Status:   cell(row, cols.status),
			Notes:    cell(row, cols.notes),
		}
		if rec.Title == "" {
			rec.Title = untitled
		}
		ok, err := im.save(ctx, rec, res.Total)
		if err != nil {
			return res, err
		}
		if ok {
			res.Imported++
		}
	}

	if res.Total == 0 {
		return Result{}, fmt.Errorf("%w: csv needs a header and at least one data row", tracker.ErrInvalidInput)
	}
	return res, nil
}

// save reports whether rec was stored. The error is non-nil only when the
// import must stop.
func (im *Importer) save(ctx context.Context, rec record, index int) (bool, error) {
	rec.Title = strings.TrimSpace(rec.Title)
	rec.URL = strings.TrimSpace(rec.URL)
	if err := im.validate.Struct(rec); err != nil {
		slog.Warn("skipping invalid record", "index", index, "error", err)
		return false, nil
	}

	if _, err := im.saver.Save(ctx, rec.candidate()); err != nil {
		if errors.Is(err, tracker.ErrInvalidInput) {
			slog.Warn("skipping rejected record", "index", index, "error", err)
			return false, nil
		}
		return false, fmt.Errorf("import record %d: %w", index, err)
	}
	return true, nil
}

type columns struct {
	title, company, location, url, status, notes int
}

func resolveColumns(header []string) columns {
	find := func(name string) int {
		for i, h := range header {
			if strings.Contains(strings.ToLower(h), name) {
				return i
			}
		}
		return -1
	}
	return columns{
		title:    find("title"),
		company:  find("company"),
		location: find("location"),
		url:      find("url"),
		status:   find("status"),
		notes:    find("notes"),
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
