package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// query converts the filter flags and free-text args into a tracker.Query.
func (f FilterFlags) query(args []string) (tracker.Query, error) {
	q := tracker.Query{
		Text:   strings.Join(args, " "),
		Domain: strings.ToLower(f.Domain),
	}

	if f.Status != "" {
		status, err := tracker.ParseStatus(f.Status)
		if err != nil {
			return tracker.Query{}, err
		}
		q.Status = status
	}

	var err error
	if q.DateFrom, err = parseDate("--from", f.From); err != nil {
		return tracker.Query{}, err
	}
	if q.DateTo, err = parseDate("--to", f.To); err != nil {
		return tracker.Query{}, err
	}
	if q.DateRange, err = tracker.ParseDateRange(f.Range); err != nil {
		return tracker.Query{}, err
	}
	if q.Sort, err = tracker.ParseSortKey(f.Sort); err != nil {
		return tracker.Query{}, err
	}
	return q, nil
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc, args)
}

// executeWithService runs the search against a provided service (for testing).
func (c *SearchCommand) executeWithService(svc *tracker.Service, args []string) error {
	q, err := c.query(args)
	if err != nil {
		return err
	}

	results, err := svc.Search(context.Background(), q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(jsonSearchOutput{
			Count:   len(results),
			Query:   q.Text,
			Results: results,
		})
	}
	c.printHuman(q.Text, results)
	return nil
}

type jsonSearchOutput struct {
	Count   int                   `json:"count"`
	Query   string                `json:"query"`
	Results []tracker.Application `json:"results"`
}

func (c *SearchCommand) printHuman(query string, results []tracker.Application) {
	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No applications found for %q\n", query)
		} else {
			fmt.Println("No applications found")
		}
		return
	}

	resultWord := "applications"
	if len(results) == 1 {
		resultWord = "application"
	}
	if query != "" {
		fmt.Printf("Found %d %s for %q\n\n", len(results), resultWord, query)
	} else {
		fmt.Printf("Found %d %s\n\n", len(results), resultWord)
	}

	for i, app := range results {
		title := app.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%d. %s", i+1, truncate(title, 80))
		if app.Company != "" {
			fmt.Printf(" at %s", app.Company)
		}
		fmt.Println()

		fmt.Printf("   %s\n", app.URL)
		fmt.Printf("   %s · %s · %s\n", app.DateApplied.Local().Format("2006-01-02"), app.Status.Label(), app.ID)

		if i < len(results)-1 {
			fmt.Println()
		}
	}
}
