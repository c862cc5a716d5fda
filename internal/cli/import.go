package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runnerr0/jobtrack/internal/tracker"
	"github.com/runnerr0/jobtrack/internal/transfer"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import requires exactly one FILE argument")
	}

	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc, args[0])
}

// format resolves the input format from --format or the file extension.
func (c *ImportCommand) format(path string) (transfer.Format, error) {
	name := c.Format
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	return transfer.ParseFormat(name)
}

// executeWithService runs the import against a provided service (for testing).
func (c *ImportCommand) executeWithService(svc *tracker.Service, path string) error {
	format, err := c.format(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	res, err := transfer.NewImporter(svc).Import(context.Background(), f, format)
	if err != nil {
		if res.Imported > 0 {
			fmt.Fprintf(os.Stderr, "Imported %d of %d before failing\n", res.Imported, res.Total)
		}
		return fmt.Errorf("import failed: %w", err)
	}

	if c.globals.JSON {
		return printJSON(res)
	}
	fmt.Printf("Imported %d of %d applications\n", res.Imported, res.Total)
	if skipped := res.Total - res.Imported; skipped > 0 {
		fmt.Printf("Skipped %d invalid records\n", skipped)
	}
	return nil
}
