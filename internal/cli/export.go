package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/runnerr0/jobtrack/internal/tracker"
	"github.com/runnerr0/jobtrack/internal/transfer"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc, args)
}

// executeWithService runs the export against a provided service (for testing).
func (c *ExportCommand) executeWithService(svc *tracker.Service, args []string) error {
	format, err := transfer.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	q, err := c.query(args)
	if err != nil {
		return err
	}

	apps, err := svc.Search(context.Background(), q)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	now := time.Now()
	if c.Summary {
		_, err = io.WriteString(w, transfer.Summary(apps, now))
	} else {
		err = transfer.Export(w, format, apps, now)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if c.Output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d applications to %s\n", len(apps), c.Output)
	}
	return nil
}
