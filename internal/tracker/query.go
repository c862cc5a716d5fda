package tracker

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DateRange is a rolling window evaluated against the time of the search.
type DateRange string

const (
	RangeNone  DateRange = ""
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

// ParseDateRange parses a date range shortcut. The empty string means no range.
func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case RangeNone, RangeToday, RangeWeek, RangeMonth:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown date range %q", ErrInvalidInput, s)
	}
}

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortNone     SortKey = ""
	SortDateDesc SortKey = "date-desc"
	SortDateAsc  SortKey = "date-asc"
	SortTitle    SortKey = "title"
	SortCompany  SortKey = "company"
)

// ParseSortKey parses a sort key. The empty string leaves results unsorted.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortDateDesc, SortDateAsc, SortTitle, SortCompany:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidInput, s)
	}
}

// Query holds search criteria. Zero-valued fields do not filter; all set
// fields must match.
type Query struct {
	// Text is matched case-insensitively as a substring of title, company,
	// notes and domain.
	Text   string
	Status Status
	Domain string
	// DateFrom and DateTo bound DateApplied inclusively. DateTo covers the
	// whole day it falls on.
	DateFrom  time.Time
	DateTo    time.Time
	DateRange DateRange
	Sort      SortKey
}

// Filter returns the records of apps matching q, preserving their order.
// Date ranges are evaluated relative to now.
func Filter(apps []Application, q Query, now time.Time) []Application {
	fold := cases.Fold()
	text := fold.String(strings.TrimSpace(q.Text))

	var from, to time.Time
	if !q.DateFrom.IsZero() {
		from = q.DateFrom
	}
	if !q.DateTo.IsZero() {
		to = endOfDay(q.DateTo)
	}

	var rangeFrom, rangeTo time.Time
	switch q.DateRange {
	case RangeToday:
		rangeFrom = startOfDay(now)
		rangeTo = rangeFrom.AddDate(0, 0, 1)
	case RangeWeek:
		rangeFrom = now.AddDate(0, 0, -7)
	case RangeMonth:
		rangeFrom = now.AddDate(0, -1, 0)
	}

	out := make([]Application, 0, len(apps))
	for _, app := range apps {
		if text != "" && !matchesText(fold, app, text) {
			continue
		}
		if q.Status != "" && app.Status != q.Status {
			continue
		}
		if q.Domain != "" && app.Domain != q.Domain {
			continue
		}
		if !from.IsZero() && app.DateApplied.Before(from) {
			continue
		}
		if !to.IsZero() && app.DateApplied.After(to) {
			continue
		}
		if !rangeFrom.IsZero() && app.DateApplied.Before(rangeFrom) {
			continue
		}
		if !rangeTo.IsZero() && !app.DateApplied.Before(rangeTo) {
			continue
		}
		out = append(out, app)
	}
	return out
}

func matchesText(fold cases.Caser, app Application, text string) bool {
	for _, field := range []string{app.Title, app.Company, app.Notes, app.Domain} {
		if strings.Contains(fold.String(field), text) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Sort orders apps in place by key. The sort is stable, so records with
// equal keys keep their relative order. Titles and companies compare with
// English collation rules.
func Sort(apps []Application, key SortKey) {
	switch key {
	case SortDateDesc:
		slices.SortStableFunc(apps, func(a, b Application) int {
			return b.DateApplied.Compare(a.DateApplied)
		})
	case SortDateAsc:
		slices.SortStableFunc(apps, func(a, b Application) int {
			return a.DateApplied.Compare(b.DateApplied)
		})
	case SortTitle:
		c := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(apps, func(a, b Application) int {
			return c.CompareString(a.Title, b.Title)
		})
	case SortCompany:
		c := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(apps, func(a, b Application) int {
			return c.CompareString(a.Company, b.Company)
		})
	}
}
