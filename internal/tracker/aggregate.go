package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/runnerr0/jobtrack/internal/storage"
)

// Top-level keys of the persisted blob.
const (
	KeyApplications = "applications"
	KeyURLIndex     = "urlIndex"
	KeySettings     = "settings"
	KeyStats        = "stats"
)

var allKeys = []string{KeyApplications, KeyURLIndex, KeySettings, KeyStats}

// PersistedStats is the cached summary kept beside the records. It is
// recomputed on every mutation and never treated as authoritative.
type PersistedStats struct {
	TotalApplications int        `json:"totalApplications"`
	LastSync          *time.Time `json:"lastSync"`
}

// aggregate is the decoded persisted blob.
type aggregate struct {
	applications map[string]Application
	urlIndex     map[string]string
	stats        PersistedStats
	// settings is nil when the key was absent.
	settings *Settings
}

func newAggregate() *aggregate {
	return &aggregate{
		applications: make(map[string]Application),
		urlIndex:     make(map[string]string),
	}
}

// loadAggregate reads the requested keys. Absent or null keys decode to
// empty defaults.
func loadAggregate(ctx context.Context, b storage.Backend, keys ...string) (*aggregate, error) {
	raw, err := b.Get(ctx, keys...)
	if err != nil {
		return nil, &PersistenceError{Op: "read aggregate", Err: err}
	}

	agg := newAggregate()
	if err := decodeKey(raw, KeyApplications, &agg.applications); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, KeyURLIndex, &agg.urlIndex); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, KeyStats, &agg.stats); err != nil {
		return nil, err
	}
	if _, ok := raw[KeySettings]; ok {
		var s Settings
		if err := decodeKey(raw, KeySettings, &s); err != nil {
			return nil, err
		}
		agg.settings = &s
	}

	// A stored JSON null leaves the maps nil.
	if agg.applications == nil {
		agg.applications = make(map[string]Application)
	}
	if agg.urlIndex == nil {
		agg.urlIndex = make(map[string]string)
	}
	return agg, nil
}

func decodeKey(raw map[string][]byte, key string, v any) error {
	data, ok := raw[key]
	if !ok || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &PersistenceError{Op: "decode " + key, Err: err}
	}
	return nil
}

// encode marshals the named keys of agg for a single backend write.
func (a *aggregate) encode(keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var v any
		switch key {
		case KeyApplications:
			v = a.applications
		case KeyURLIndex:
			v = a.urlIndex
		case KeyStats:
			v = a.stats
		case KeySettings:
			v = a.settings
		default:
			return nil, fmt.Errorf("encode aggregate: unknown key %q", key)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

func (a *aggregate) write(ctx context.Context, b storage.Backend, keys ...string) error {
	entries, err := a.encode(keys...)
	if err != nil {
		return err
	}
	if err := b.Set(ctx, entries); err != nil {
		return &PersistenceError{Op: "write aggregate", Err: err}
	}
	return nil
}

// refreshStats recomputes the cached stats from the record map.
func (a *aggregate) refreshStats(now time.Time) {
	a.stats.TotalApplications = len(a.applications)
	a.stats.LastSync = &now
}

// unindex removes every urlIndex entry that points at id.
func (a *aggregate) unindex(id string) {
	for hash, target := range a.urlIndex {
		if target == id {
			delete(a.urlIndex, hash)
		}
	}
}

// verify reports the first broken invariant between records, index and stats.
func (a *aggregate) verify() error {
	counts := make(map[string]int, len(a.applications))
	for hash, id := range a.urlIndex {
		app, ok := a.applications[id]
		if !ok {
			return fmt.Errorf("url index entry %s points to missing application %s", hash, id)
		}
		if app.URLHash != hash {
			return fmt.Errorf("url index entry %s points to application %s with hash %s", hash, id, app.URLHash)
		}
		counts[id]++
	}
	for id, app := range a.applications {
		if app.ID != id {
			return fmt.Errorf("application stored under %s has id %s", id, app.ID)
		}
		if counts[id] != 1 {
			return fmt.Errorf("application %s has %d url index entries", id, counts[id])
		}
	}
	if a.stats.TotalApplications != len(a.applications) {
		return fmt.Errorf("stats total %d does not match %d applications", a.stats.TotalApplications, len(a.applications))
	}
	return nil
}
