package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/jobtrack/internal/storage"
	"github.com/runnerr0/jobtrack/internal/tracker"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testService starts an initialized tracker service over a private
// in-memory database.
func testService(t *testing.T) *tracker.Service {
	t.Helper()

	backend, err := storage.Open(storage.MemoryDSN, "memory")
	require.NoError(t, err)

	svc := tracker.NewService(tracker.NewStore(backend))
	t.Cleanup(func() {
		svc.Close()
		backend.Close()
	})
	require.NoError(t, svc.Initialize(context.Background()))
	return svc
}

// seed saves each candidate and returns the stored records in order.
func seed(t *testing.T, svc *tracker.Service, candidates ...tracker.Candidate) []tracker.Application {
	t.Helper()
	out := make([]tracker.Application, 0, len(candidates))
	for _, c := range candidates {
		app, err := svc.Save(context.Background(), c)
		require.NoError(t, err)
		out = append(out, app)
	}
	return out
}
