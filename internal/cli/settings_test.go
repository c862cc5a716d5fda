package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

func TestSettingsCommand_ShowsDefaults(t *testing.T) {
	svc := testService(t)

	cmd := &SettingsCommand{globals: &GlobalFlags{JSON: true}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc))
	})

	var got tracker.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, tracker.DefaultSettings(), got)
}

func TestSettingsCommand_Update(t *testing.T) {
	svc := testService(t)
	seed(t, svc, tracker.Candidate{ID: "a", URL: "https://example.com/a", Title: "A"})

	cmd := &SettingsCommand{Theme: "dark", Overlay: "off", OverlayPosition: "bottom", globals: &GlobalFlags{}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithService(svc))
	})
	assert.Contains(t, out, "Theme:            dark")
	assert.Contains(t, out, "Overlay:          off")
	assert.Contains(t, out, "Notifications:    on")

	ctx := context.Background()
	got, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, tracker.Settings{
		OverlayEnabled:  false,
		OverlayPosition: "bottom",
		Theme:           "dark",
		Notifications:   true,
	}, got)

	// Settings writes leave applications alone.
	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettingsCommand_InvalidSwitch(t *testing.T) {
	svc := testService(t)

	cmd := &SettingsCommand{Notifications: "maybe", globals: &GlobalFlags{}}
	err := cmd.executeWithService(svc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --notifications value "maybe"`)
}

func TestParseSwitch(t *testing.T) {
	for _, s := range []string{"on", "true", "yes"} {
		on, err := parseSwitch("--overlay", s)
		require.NoError(t, err)
		assert.True(t, on, s)
	}
	for _, s := range []string{"off", "false", "no"} {
		on, err := parseSwitch("--overlay", s)
		require.NoError(t, err)
		assert.False(t, on, s)
	}
	_, err := parseSwitch("--overlay", "")
	assert.Error(t, err)
}
