package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// errNotApplied is returned by show --url for a URL that is not tracked.
var errNotApplied = errors.New("not applied")

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if (c.ID == "") == (c.URL == "") {
		return fmt.Errorf("show requires exactly one of --id or --url")
	}

	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc)
}

// executeWithService runs show against a provided service (for testing).
func (c *ShowCommand) executeWithService(svc *tracker.Service) error {
	ctx := context.Background()

	var (
		app tracker.Application
		err error
	)
	if c.ID != "" {
		app, err = svc.GetByID(ctx, c.ID)
	} else {
		app, err = svc.GetByURL(ctx, c.URL)
	}
	if errors.Is(err, tracker.ErrNotFound) {
		if c.URL != "" {
			return fmt.Errorf("%s: %w", c.URL, errNotApplied)
		}
		return fmt.Errorf("application not found: %s", c.ID)
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if c.globals.JSON {
		return printJSON(app)
	}
	printApplication(app)
	return nil
}
