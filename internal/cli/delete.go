package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for delete command")
	}

	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc)
}

// executeWithService runs delete against a provided service (for testing).
func (c *DeleteCommand) executeWithService(svc *tracker.Service) error {
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if c.globals.JSON {
		return printJSON(map[string]any{"deleted": c.ID})
	}
	fmt.Printf("Deleted application %s\n", c.ID)
	return nil
}
