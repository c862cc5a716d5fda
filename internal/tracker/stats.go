package tracker

import "time"

// Stats summarizes a set of records. It is always derived, never stored.
type Stats struct {
	TotalApplications    int            `json:"totalApplications"`
	ApplicationsThisWeek int            `json:"applicationsThisWeek"`
	ByStatus             map[Status]int `json:"byStatus"`
	ByDomain             map[string]int `json:"byDomain"`
	// Earliest and Latest are the extreme DateApplied values, nil when empty.
	Earliest *time.Time `json:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty"`
}

// ComputeStats counts apps. ByStatus carries every known status, including
// those with no records. "This week" is the seven days before now.
func ComputeStats(apps []Application, now time.Time) Stats {
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := Stats{
		TotalApplications: len(apps),
		ByStatus:          make(map[Status]int, len(StatusOptions)),
		ByDomain:          make(map[string]int),
	}
	for _, o := range StatusOptions {
		stats.ByStatus[o.Value] = 0
	}

	for _, app := range apps {
		if !app.DateApplied.Before(weekAgo) {
			stats.ApplicationsThisWeek++
		}
		stats.ByStatus[app.Status]++
		stats.ByDomain[app.Domain]++

		applied := app.DateApplied
		if stats.Earliest == nil || applied.Before(*stats.Earliest) {
			stats.Earliest = &applied
		}
		if stats.Latest == nil || applied.After(*stats.Latest) {
			stats.Latest = &applied
		}
	}
	return stats
}
