package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc, os.Stdin)
}

// executeWithService runs purge against a provided service, reading the
// confirmation from in (for testing).
func (c *PurgeCommand) executeWithService(svc *tracker.Service, in io.Reader) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("WARNING: This will permanently delete ALL job tracking data.")
		fmt.Println("  - All applications")
		fmt.Println("  - The URL index and cached stats")
		fmt.Println("  - Your settings (reset to defaults)")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		fmt.Print(`Type "PURGE" to confirm: `)

		scanner := bufio.NewScanner(in)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	if err := svc.ClearAll(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals.JSON {
		return printJSON(map[string]any{
			"purged":  true,
			"message": "all data deleted",
		})
	}

	fmt.Println("Purged all data. The tracker is empty.")
	return nil
}
