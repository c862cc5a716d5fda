package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// Execute implements the go-flags Commander interface for UpdateCommand.
func (c *UpdateCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for update command")
	}

	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc)
}

// patch converts the given flags into a tracker.Patch.
func (c *UpdateCommand) patch() (tracker.Patch, error) {
	p := tracker.Patch{
		Title:    c.Title,
		Company:  c.Company,
		Location: c.Location,
		URL:      c.URL,
		Notes:    c.Notes,
	}
	if c.Status != nil {
		status, err := tracker.ParseStatus(*c.Status)
		if err != nil {
			return tracker.Patch{}, err
		}
		p.Status = &status
	}
	if c.Applied != nil {
		applied, err := parseDate("--applied", *c.Applied)
		if err != nil {
			return tracker.Patch{}, err
		}
		if !applied.IsZero() {
			p.DateApplied = &applied
		}
	}
	return p, nil
}

// executeWithService runs update against a provided service (for testing).
func (c *UpdateCommand) executeWithService(svc *tracker.Service) error {
	p, err := c.patch()
	if err != nil {
		return err
	}

	app, err := svc.Update(context.Background(), c.ID, p)
	if errors.Is(err, tracker.ErrNotFound) {
		return fmt.Errorf("application not found: %s", c.ID)
	}
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if c.globals.JSON {
		return printJSON(app)
	}
	if app.ID != c.ID {
		fmt.Printf("URL already tracked; merged into application %s\n", app.ID)
	} else {
		fmt.Printf("Updated application %s\n", app.ID)
	}
	printApplication(app)
	return nil
}
