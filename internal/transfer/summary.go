package transfer

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runnerr0/jobtrack/internal/tracker"
)

const topDomains = 10

// Summary renders a plain-text overview of apps: total, date range,
// per-status counts and the busiest posting domains.
func Summary(apps []tracker.Application, now time.Time) string {
	stats := tracker.ComputeStats(apps, now)

	var b strings.Builder
	b.WriteString("Job Application Export Summary\n")
	b.WriteString("==============================\n\n")
	fmt.Fprintf(&b, "Total Applications: %d\n", stats.TotalApplications)
	if stats.Earliest != nil {
		fmt.Fprintf(&b, "Date Range: %s to %s\n",
			FormatDate(*stats.Earliest, now), FormatDate(*stats.Latest, now))
	}

	b.WriteString("\nBreakdown by Status:\n")
	for _, o := range tracker.StatusOptions {
		fmt.Fprintf(&b, "  %s: %d\n", o.Label, stats.ByStatus[o.Value])
	}

	b.WriteString("\nTop Job Posting Domains:\n")
	for _, d := range rankDomains(stats.ByDomain, topDomains) {
		fmt.Fprintf(&b, "  %s: %d\n", d.domain, d.count)
	}
	return b.String()
}

type domainCount struct {
	domain string
	count  int
}

// rankDomains orders domains by count, then name, and keeps the first n.
func rankDomains(byDomain map[string]int, n int) []domainCount {
	ranked := make([]domainCount, 0, len(byDomain))
	for d, c := range byDomain {
		ranked = append(ranked, domainCount{d, c})
	}
	slices.SortFunc(ranked, func(a, b domainCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.domain, b.domain)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
