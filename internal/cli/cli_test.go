package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	out := captureOutput(t, func() {
		err := RunWithArgs("1.2.3", []string{"--version"})
		require.NoError(t, err)
	})
	assert.Equal(t, "jobtrack 1.2.3\n", out)
}

// parseOnly builds the parser with command execution disabled, so flag
// parsing can be checked without opening a database.
func parseOnly(t *testing.T, args ...string) (*GlobalFlags, *commands, error) {
	t.Helper()
	parser, globals, cmds := buildParser("test")
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }
	_, err := parser.ParseArgs(args)
	return globals, cmds, err
}

func TestAllSubcommandsExist(t *testing.T) {
	expected := []string{"add", "show", "update", "delete", "search", "stats", "export", "import", "purge", "settings"}
	parser, _, _ := buildParser("test")

	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestAddSubcommandRecognized(t *testing.T) {
	_, c, err := parseOnly(t, "add", "--url", "https://example.com/job", "--title", "Engineer", "--company", "Acme", "--status", "interviewing")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/job", c.Add.URL)
	assert.Equal(t, "Engineer", c.Add.Title)
	assert.Equal(t, "Acme", c.Add.Company)
	assert.Equal(t, "interviewing", c.Add.Status)
}

func TestUpdateFlagsOnlySetWhenGiven(t *testing.T) {
	_, c, err := parseOnly(t, "update", "--id", "abc", "--status", "offer", "--notes", "")
	require.NoError(t, err)

	assert.Equal(t, "abc", c.Update.ID)
	require.NotNil(t, c.Update.Status)
	assert.Equal(t, "offer", *c.Update.Status)
	require.NotNil(t, c.Update.Notes)
	assert.Equal(t, "", *c.Update.Notes)
	assert.Nil(t, c.Update.Title)
	assert.Nil(t, c.Update.URL)
	assert.Nil(t, c.Update.Applied)
}

func TestSearchFlagsDefaults(t *testing.T) {
	_, c, err := parseOnly(t, "search", "golang")
	require.NoError(t, err)

	assert.Equal(t, "date-desc", c.Search.Sort)
	assert.Empty(t, c.Search.Status)
	assert.Empty(t, c.Search.Range)
}

func TestExportFlagsDefaults(t *testing.T) {
	_, c, err := parseOnly(t, "export", "--domain", "example.com", "-o", "out.json")
	require.NoError(t, err)

	assert.Equal(t, "json", c.Export.Format)
	assert.Equal(t, "date-desc", c.Export.Sort)
	assert.Equal(t, "example.com", c.Export.Domain)
	assert.Equal(t, "out.json", c.Export.Output)
	assert.False(t, c.Export.Summary)
}

func TestGlobalFlags(t *testing.T) {
	globals, _, err := parseOnly(t, "--json", "--verbose", "--config", "/tmp/test.yaml", "--db-path", "/tmp/jobs.db", "stats")
	require.NoError(t, err)

	assert.True(t, globals.JSON)
	assert.True(t, globals.Verbose)
	assert.Equal(t, "/tmp/test.yaml", globals.Config)
	assert.Equal(t, "/tmp/jobs.db", globals.DBPath)
}

func TestUnknownSubcommandFails(t *testing.T) {
	_, _, err := parseOnly(t, "nonexistent")
	require.Error(t, err)
}

func TestHelpFlagDoesNotError(t *testing.T) {
	_ = captureOutput(t, func() {
		err := RunWithArgs("test", []string{"--help"})
		assert.NoError(t, err)
	})
}

func TestRequiredFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add without url", []string{"add", "--title", "Engineer"}, "--url is required"},
		{"update without id", []string{"update", "--title", "Engineer"}, "--id is required"},
		{"delete without id", []string{"delete"}, "--id is required"},
		{"show without selector", []string{"show"}, "exactly one of --id or --url"},
		{"show with both selectors", []string{"show", "--id", "a", "--url", "https://example.com"}, "exactly one of --id or --url"},
		{"import without file", []string{"import"}, "exactly one FILE"},
		{"purge without all", []string{"purge"}, "purge requires --all flag for safety"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunWithArgs("test", tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// writeTestConfig writes a quiet config file and returns its path together
// with a database path in the same temp dir.
func writeTestConfig(t *testing.T) (cfgPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "config.yaml")
	dbPath = filepath.Join(dir, "jobs.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o644))
	return cfgPath, dbPath
}

func TestRunWithArgsEndToEnd(t *testing.T) {
	cfgPath, dbPath := writeTestConfig(t)
	base := []string{"--config", cfgPath, "--db-path", dbPath}
	run := func(args ...string) string {
		t.Helper()
		return captureOutput(t, func() {
			require.NoError(t, RunWithArgs("test", append(append([]string{}, base...), args...)))
		})
	}

	out := run("add", "--url", "https://jobs.example.com/1?utm_source=x", "--title", "Backend Engineer", "--company", "Acme", "--id", "job-1")
	assert.Contains(t, out, "Added application job-1")

	// Reopening the database sees the record under its normalized URL.
	out = run("--json", "show", "--url", "https://JOBS.example.com/1/")
	var app map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &app))
	assert.Equal(t, "job-1", app["id"])
	assert.Equal(t, "Backend Engineer", app["title"])

	out = run("search", "backend")
	assert.Contains(t, out, "Found 1 application")

	out = run("delete", "--id", "job-1")
	assert.Contains(t, out, "Deleted application job-1")

	out = run("search")
	assert.Contains(t, out, "No applications found")
}

func TestRunWithArgsMissingConfigFails(t *testing.T) {
	dir := t.TempDir()
	err := RunWithArgs("test", []string{"--config", filepath.Join(dir, "missing.yaml"), "stats"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
