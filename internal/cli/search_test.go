package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

// seedSearchData stores three applications spread over January 2026.
func seedSearchData(t *testing.T, svc *tracker.Service) {
	t.Helper()
	seed(t, svc,
		tracker.Candidate{ID: "go", URL: "https://boards.example.com/go-dev", Title: "Go Developer", Company: "Zeta", DateApplied: day(2026, 1, 2)},
		tracker.Candidate{ID: "sre", URL: "https://careers.acme.io/sre", Title: "Site Reliability Engineer", Company: "acme", Status: tracker.StatusInterviewing, Notes: "uses Go", DateApplied: day(2026, 1, 10)},
		tracker.Candidate{ID: "fe", URL: "https://boards.example.com/frontend", Title: "Frontend Engineer", Company: "Beta", Status: tracker.StatusRejected, DateApplied: day(2026, 1, 25)},
	)
}

func searchIDs(t *testing.T, svc *tracker.Service, cmd *SearchCommand, args ...string) []string {
	t.Helper()
	cmd.globals = &GlobalFlags{JSON: true}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, args))
	})

	var result jsonSearchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	ids := make([]string, 0, len(result.Results))
	for _, app := range result.Results {
		ids = append(ids, app.ID)
	}
	assert.Equal(t, len(ids), result.Count)
	return ids
}

func TestSearchCommand_TextMatchesTitleCompanyAndNotes(t *testing.T) {
	svc := testService(t)
	seedSearchData(t, svc)

	ids := searchIDs(t, svc, &SearchCommand{FilterFlags: FilterFlags{Sort: "date-asc"}}, "go")
	assert.Equal(t, []string{"go", "sre"}, ids)
}

func TestSearchCommand_Filters(t *testing.T) {
	svc := testService(t)
	seedSearchData(t, svc)

	tests := []struct {
		name  string
		flags FilterFlags
		want  []string
	}{
		{"all newest first", FilterFlags{Sort: "date-desc"}, []string{"fe", "sre", "go"}},
		{"status value", FilterFlags{Status: "rejected"}, []string{"fe"}},
		{"status ignores case", FilterFlags{Status: "INTERVIEWING"}, []string{"sre"}},
		{"domain", FilterFlags{Domain: "Boards.Example.com", Sort: "date-asc"}, []string{"go", "fe"}},
		{"date window", FilterFlags{From: "2026-01-05", To: "2026-01-20"}, []string{"sre"}},
		{"to is inclusive", FilterFlags{To: "2026-01-10", Sort: "date-asc"}, []string{"go", "sre"}},
		{"company order ignores case", FilterFlags{Sort: "company"}, []string{"sre", "fe", "go"}},
		{"title order", FilterFlags{Sort: "title"}, []string{"fe", "go", "sre"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := searchIDs(t, svc, &SearchCommand{FilterFlags: tt.flags})
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchCommand_InvalidFlags(t *testing.T) {
	svc := testService(t)

	tests := []struct {
		name  string
		flags FilterFlags
		want  string
	}{
		{"status", FilterFlags{Status: "hired"}, "hired"},
		{"from", FilterFlags{From: "yesterday"}, "invalid --from value"},
		{"range", FilterFlags{Range: "decade"}, "decade"},
		{"sort", FilterFlags{Sort: "salary"}, "salary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &SearchCommand{FilterFlags: tt.flags, globals: &GlobalFlags{}}
			err := cmd.executeWithService(svc, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSearchCommand_HumanOutput(t *testing.T) {
	svc := testService(t)
	seedSearchData(t, svc)

	cmd := &SearchCommand{FilterFlags: FilterFlags{Sort: "date-desc"}, globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, []string{"reliability"}))
	})
	assert.Contains(t, out, `Found 1 application for "reliability"`)
	assert.Contains(t, out, "1. Site Reliability Engineer at acme")
	assert.Contains(t, out, "https://careers.acme.io/sre")
	assert.Contains(t, out, "Interviewing")
}

func TestSearchCommand_NoResults(t *testing.T) {
	svc := testService(t)
	seedSearchData(t, svc)

	cmd := &SearchCommand{globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc, []string{"rust"}))
	})
	assert.Contains(t, out, `No applications found for "rust"`)
}
