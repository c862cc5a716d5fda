package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for add command")
	}

	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc)
}

// executeWithService runs the add logic against a provided service (used by tests).
func (c *AddCommand) executeWithService(svc *tracker.Service) error {
	app, err := svc.Save(context.Background(), tracker.Candidate{
		ID:       c.ID,
		Title:    c.Title,
		Company:  c.Company,
		Location: c.Location,
		URL:      c.URL,
		Status:   tracker.Status(c.Status),
		Notes:    c.Notes,
	})
	if err != nil {
		return fmt.Errorf("saving application: %w", err)
	}

	// A fresh record is stamped applied and modified at the same instant;
	// a merged one keeps its earlier application date or another ID.
	merged := (c.ID != "" && app.ID != c.ID) || app.DateApplied.Before(app.DateModified)

	if c.globals.JSON {
		return printJSON(map[string]any{
			"application": app,
			"merged":      merged,
		})
	}

	if merged {
		fmt.Printf("Updated existing application %s (first applied %s)\n",
			app.ID, app.DateApplied.Local().Format(dateLayout))
	} else {
		fmt.Printf("Added application %s\n", app.ID)
	}
	printApplication(app)
	return nil
}
