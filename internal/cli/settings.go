package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// Execute implements the go-flags Commander interface for SettingsCommand.
func (c *SettingsCommand) Execute(args []string) error {
	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc)
}

func (c *SettingsCommand) changed() bool {
	return c.Theme != "" || c.OverlayPosition != "" || c.Overlay != "" || c.Notifications != ""
}

// apply copies the given flags over s.
func (c *SettingsCommand) apply(s tracker.Settings) (tracker.Settings, error) {
	if c.Theme != "" {
		s.Theme = c.Theme
	}
	if c.OverlayPosition != "" {
		s.OverlayPosition = c.OverlayPosition
	}
	if c.Overlay != "" {
		on, err := parseSwitch("--overlay", c.Overlay)
		if err != nil {
			return s, err
		}
		s.OverlayEnabled = on
	}
	if c.Notifications != "" {
		on, err := parseSwitch("--notifications", c.Notifications)
		if err != nil {
			return s, err
		}
		s.Notifications = on
	}
	return s, nil
}

// executeWithService runs settings against a provided service (for testing).
func (c *SettingsCommand) executeWithService(svc *tracker.Service) error {
	ctx := context.Background()

	settings, err := svc.Settings(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	if c.changed() {
		if settings, err = c.apply(settings); err != nil {
			return err
		}
		if err := svc.UpdateSettings(ctx, settings); err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
	}

	if c.globals.JSON {
		return printJSON(settings)
	}
	fmt.Printf("Theme:            %s\n", settings.Theme)
	fmt.Printf("Overlay:          %s\n", onOff(settings.OverlayEnabled))
	fmt.Printf("Overlay position: %s\n", settings.OverlayPosition)
	fmt.Printf("Notifications:    %s\n", onOff(settings.Notifications))
	return nil
}

func parseSwitch(flag, s string) (bool, error) {
	switch s {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s value %q (want on or off)", flag, s)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
