package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

// statsJSON is the JSON output structure for the stats command.
type statsJSON struct {
	Version              string            `json:"version"`
	TotalApplications    int               `json:"total_applications"`
	ApplicationsThisWeek int               `json:"applications_this_week"`
	ByStatus             map[string]int    `json:"by_status"`
	TopDomains           []domainCountJSON `json:"top_domains"`
	Earliest             string            `json:"earliest,omitempty"`
	Latest               string            `json:"latest,omitempty"`
	LastSync             string            `json:"last_sync,omitempty"`
}

type domainCountJSON struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	svc, cleanup, err := openService(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithService(svc)
}

// executeWithService runs stats against a provided service (for testing).
func (c *StatsCommand) executeWithService(svc *tracker.Service) error {
	ctx := context.Background()

	stats, err := svc.ComputeStats(ctx)
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}
	persisted, err := svc.PersistedStats(ctx)
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatsJSON(stats, persisted)
	}
	c.printStatsHuman(stats, persisted)
	return nil
}

func (c *StatsCommand) printStatsHuman(stats tracker.Stats, persisted tracker.PersistedStats) {
	fmt.Println("Job Applications")
	fmt.Println("================")
	fmt.Printf("Total:         %s\n", formatNumber(int64(stats.TotalApplications)))
	fmt.Printf("This week:     %s\n", formatNumber(int64(stats.ApplicationsThisWeek)))

	if stats.Earliest != nil {
		fmt.Printf("First:         %s\n", stats.Earliest.Local().Format("2006-01-02"))
		fmt.Printf("Latest:        %s\n", stats.Latest.Local().Format("2006-01-02"))
	}
	if persisted.LastSync != nil {
		fmt.Printf("Last change:   %s\n", persisted.LastSync.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("By Status:")
	for _, o := range tracker.StatusOptions {
		fmt.Printf("  %-16s %s\n", o.Label, formatNumber(int64(stats.ByStatus[o.Value])))
	}

	domains := topDomains(stats.ByDomain, 10)
	if len(domains) > 0 {
		fmt.Println()
		fmt.Println("Top Domains:")
		for _, d := range domains {
			fmt.Printf("  %-24s %s\n", d.Domain, formatNumber(int64(d.Count)))
		}
	}
}

func (c *StatsCommand) printStatsJSON(stats tracker.Stats, persisted tracker.PersistedStats) error {
	out := statsJSON{
		Version:              c.version,
		TotalApplications:    stats.TotalApplications,
		ApplicationsThisWeek: stats.ApplicationsThisWeek,
		ByStatus:             make(map[string]int, len(stats.ByStatus)),
		TopDomains:           topDomains(stats.ByDomain, 10),
	}
	for status, n := range stats.ByStatus {
		out.ByStatus[string(status)] = n
	}
	if stats.Earliest != nil {
		out.Earliest = stats.Earliest.UTC().Format(time.RFC3339)
		out.Latest = stats.Latest.UTC().Format(time.RFC3339)
	}
	if persisted.LastSync != nil {
		out.LastSync = persisted.LastSync.UTC().Format(time.RFC3339)
	}
	return printJSON(out)
}

// topDomains ranks domains by count, then name, keeping the first n.
func topDomains(byDomain map[string]int, n int) []domainCountJSON {
	out := make([]domainCountJSON, 0, len(byDomain))
	for d, count := range byDomain {
		out = append(out, domainCountJSON{Domain: d, Count: count})
	}
	slices.SortFunc(out, func(a, b domainCountJSON) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Domain, b.Domain)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
