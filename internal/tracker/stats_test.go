package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleApps(), now)

	assert.Equal(t, 4, stats.TotalApplications)
	assert.Equal(t, 2, stats.ApplicationsThisWeek)
	assert.Len(t, stats.ByStatus, len(StatusOptions), "every status is present")
	assert.Equal(t, 2, stats.ByStatus[StatusApplied])
	assert.Equal(t, 1, stats.ByStatus[StatusInterviewing])
	assert.Equal(t, 1, stats.ByStatus[StatusRejected])
	assert.Equal(t, 0, stats.ByStatus[StatusOffer])
	assert.Equal(t, map[string]int{"acme.com": 2, "jobs.beta.io": 1, "delta.dev": 1}, stats.ByDomain)

	require.NotNil(t, stats.Earliest)
	require.NotNil(t, stats.Latest)
	assert.Equal(t, now.AddDate(0, -2, 0), *stats.Earliest)
	assert.Equal(t, now.Add(-2*time.Hour), *stats.Latest)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, now)
	assert.Equal(t, 0, stats.TotalApplications)
	assert.Nil(t, stats.Earliest)
	assert.Nil(t, stats.Latest)
	assert.Empty(t, stats.ByDomain)
	assert.Equal(t, 0, stats.ByStatus[StatusGhosted])
}

func TestComputeStats_WeekBoundaryIsSevenDays(t *testing.T) {
	apps := []Application{
		{ID: "edge", DateApplied: now.Add(-7 * 24 * time.Hour)},
		{ID: "old", DateApplied: now.Add(-7*24*time.Hour - time.Second)},
	}
	assert.Equal(t, 1, ComputeStats(apps, now).ApplicationsThisWeek)
}

func TestStore_ComputeStatsMatchesRecords(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, Candidate{URL: "https://acme.com/1", Status: StatusOffer})
	require.NoError(t, err)
	_, err = s.Save(ctx, Candidate{URL: "https://acme.com/2"})
	require.NoError(t, err)
	_, err = s.Save(ctx, Candidate{URL: "https://acme.com/2?utm_term=x"})
	require.NoError(t, err)

	clock.Advance(10 * 24 * time.Hour)
	stats, err := s.ComputeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalApplications)
	assert.Equal(t, 0, stats.ApplicationsThisWeek)
	assert.Equal(t, 1, stats.ByStatus[StatusOffer])
	assert.Equal(t, map[string]int{"acme.com": 2}, stats.ByDomain)
}
