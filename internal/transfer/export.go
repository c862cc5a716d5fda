package transfer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// Format names an export or import document type.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv".
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", tracker.ErrInvalidInput, s)
	}
}

// csvHeader is the fixed column order of CSV exports.
var csvHeader = []string{"Job Title", "Company", "Location", "Date Applied", "Status", "Domain", "URL", "Notes"}

// Export writes apps to w in the given format. now anchors relative dates
// in CSV output.
func Export(w io.Writer, format Format, apps []tracker.Application, now time.Time) error {
	switch format {
	case FormatJSON:
		return ExportJSON(w, apps)
	case FormatCSV:
		return ExportCSV(w, apps, now)
	default:
		return fmt.Errorf("%w: unsupported format %q", tracker.ErrInvalidInput, format)
	}
}

// ExportJSON writes apps as a pretty-printed JSON array.
func ExportJSON(w io.Writer, apps []tracker.Application) error {
	if apps == nil {
		apps = []tracker.Application{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(apps); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// ExportCSV writes a header row and one row per application. Fields
// containing commas, quotes or newlines are quoted with doubled quotes.
func ExportCSV(w io.Writer, apps []tracker.Application, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	for _, app := range apps {
		row := []string{
			app.Title,
			app.Company,
			app.Location,
			FormatDate(app.DateApplied, now),
			app.Status.Label(),
			app.Domain,
			app.URL,
			app.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}
