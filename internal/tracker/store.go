// Package tracker keeps job application records, their URL identity index
// and the cached stats consistent on top of a storage.Backend.
//
// Every mutation is a read-modify-write of the persisted aggregate. Store on
// its own does not serialize callers: two processes writing the same backend
// race at the granularity of the whole blob and the last write wins. Inside
// one process, route all calls through a Service to get one logical writer.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/runnerr0/jobtrack/internal/storage"
	"github.com/runnerr0/jobtrack/internal/urlid"
)

// Store is the Record Store, URL Index and Mutation Coordinator over one backend.
type Store struct {
	backend  storage.Backend
	hasher   *urlid.Hasher
	now      func() time.Time
	newID    func() string
	defaults Settings
	validate *validator.Validate
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithHasher replaces the default identity hasher.
func WithHasher(h *urlid.Hasher) Option {
	return func(s *Store) {
		s.hasher = h
	}
}

// WithDefaultSettings sets the settings written by Initialize and ClearAll.
func WithDefaultSettings(settings Settings) Option {
	return func(s *Store) {
		s.defaults = settings
	}
}

// NewStore creates a Store over backend.
func NewStore(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		hasher:   urlid.NewHasher(),
		now:      time.Now,
		newID:    uuid.NewString,
		defaults: DefaultSettings(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hasher returns the identity hasher used for lookups and saves.
func (s *Store) Hasher() *urlid.Hasher {
	return s.hasher
}

func (s *Store) clock() time.Time {
	return s.now().UTC().Round(0)
}

// Initialize writes the empty aggregate and default settings when the
// backend holds nothing at all. A partially populated backend is left alone.
func (s *Store) Initialize(ctx context.Context) error {
	_, err := s.initialize(ctx)
	return err
}

// initialize reports whether the fresh aggregate was written.
func (s *Store) initialize(ctx context.Context) (bool, error) {
	raw, err := s.backend.Get(ctx)
	if err != nil {
		return false, &PersistenceError{Op: "read aggregate", Err: err}
	}
	if len(raw) > 0 {
		return false, nil
	}
	if err := s.writeFresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) writeFresh(ctx context.Context) error {
	agg := newAggregate()
	settings := s.defaults
	agg.settings = &settings
	return agg.write(ctx, s.backend, allKeys...)
}

// GetByID returns the record stored under id.
func (s *Store) GetByID(ctx context.Context, id string) (Application, error) {
	agg, err := loadAggregate(ctx, s.backend, KeyApplications)
	if err != nil {
		return Application{}, err
	}
	app, ok := agg.applications[id]
	if !ok {
		return Application{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return app, nil
}

// GetByURL normalizes and hashes rawURL and looks the record up through the
// URL index.
func (s *Store) GetByURL(ctx context.Context, rawURL string) (Application, error) {
	ident := s.hasher.IdentityOf(rawURL)

	agg, err := loadAggregate(ctx, s.backend, KeyApplications, KeyURLIndex)
	if err != nil {
		return Application{}, err
	}
	id, ok := agg.urlIndex[ident.Hash]
	if !ok {
		return Application{}, fmt.Errorf("get by url %s: %w", ident.Normalized, ErrNotFound)
	}
	app, ok := agg.applications[id]
	if !ok {
		return Application{}, fmt.Errorf("get by url %s: %w", ident.Normalized, ErrNotFound)
	}
	return app, nil
}

// GetAll returns every record in no particular order.
func (s *Store) GetAll(ctx context.Context) ([]Application, error) {
	agg, err := loadAggregate(ctx, s.backend, KeyApplications)
	if err != nil {
		return nil, err
	}
	apps := make([]Application, 0, len(agg.applications))
	for _, app := range agg.applications {
		apps = append(apps, app)
	}
	return apps, nil
}

// Search filters a full snapshot of the records with q and sorts the result
// by q.Sort.
func (s *Store) Search(ctx context.Context, q Query) ([]Application, error) {
	apps, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := Filter(apps, q, s.now())
	Sort(matched, q.Sort)
	return matched, nil
}

// ComputeStats derives stats from the current records.
func (s *Store) ComputeStats(ctx context.Context) (Stats, error) {
	apps, err := s.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(apps, s.now()), nil
}

// PersistedStats returns the cached stats as stored.
func (s *Store) PersistedStats(ctx context.Context) (PersistedStats, error) {
	agg, err := loadAggregate(ctx, s.backend, KeyStats)
	if err != nil {
		return PersistedStats{}, err
	}
	return agg.stats, nil
}

// Save stores c and returns the resulting record.
//
// The URL is normalized and hashed. When the hash already belongs to a
// different record, c is merged into that record: its ID is replaced by the
// existing ID and the existing DateApplied is kept. A caller-supplied ID can
// therefore be discarded.
func (s *Store) Save(ctx context.Context, c Candidate) (Application, error) {
	agg, err := loadAggregate(ctx, s.backend, KeyApplications, KeyURLIndex, KeyStats)
	if err != nil {
		return Application{}, err
	}
	app, err := s.apply(agg, c)
	if err != nil {
		return Application{}, err
	}
	if err := agg.write(ctx, s.backend, KeyApplications, KeyURLIndex, KeyStats); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Update merges patch over the record stored under id and saves the result.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Application, error) {
	agg, err := loadAggregate(ctx, s.backend, KeyApplications, KeyURLIndex, KeyStats)
	if err != nil {
		return Application{}, err
	}
	existing, ok := agg.applications[id]
	if !ok {
		return Application{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	app, err := s.apply(agg, patch.Apply(existing.Candidate()))
	if err != nil {
		return Application{}, err
	}
	if err := agg.write(ctx, s.backend, KeyApplications, KeyURLIndex, KeyStats); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Delete removes the record stored under id. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.remove(ctx, id)
	return err
}

// remove deletes id and reports whether anything was written.
func (s *Store) remove(ctx context.Context, id string) (bool, error) {
	agg, err := loadAggregate(ctx, s.backend, KeyApplications, KeyURLIndex, KeyStats)
	if err != nil {
		return false, err
	}
	if _, ok := agg.applications[id]; !ok {
		return false, nil
	}
	delete(agg.applications, id)
	agg.unindex(id)
	agg.refreshStats(s.clock())
	if err := agg.write(ctx, s.backend, KeyApplications, KeyURLIndex, KeyStats); err != nil {
		return false, err
	}
	slog.Debug("application deleted", "id", id)
	return true, nil
}

// ClearAll wipes the backend and writes back an empty aggregate with default
// settings.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return &PersistenceError{Op: "clear aggregate", Err: err}
	}
	return s.writeFresh(ctx)
}

// Settings returns the stored settings, or the defaults when none are stored.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	agg, err := loadAggregate(ctx, s.backend, KeySettings)
	if err != nil {
		return Settings{}, err
	}
	if agg.settings == nil {
		return s.defaults, nil
	}
	return *agg.settings, nil
}

// UpdateSettings replaces the stored settings.
func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	agg := newAggregate()
	agg.settings = &settings
	return agg.write(ctx, s.backend, KeySettings)
}

// Verify checks that every record has exactly one URL index entry pointing
// back to it, that no index entry dangles, and that the cached total matches.
func (s *Store) Verify(ctx context.Context) error {
	agg, err := loadAggregate(ctx, s.backend, KeyApplications, KeyURLIndex, KeyStats)
	if err != nil {
		return err
	}
	return agg.verify()
}

// apply resolves c against agg and writes the result into it.
func (s *Store) apply(agg *aggregate, c Candidate) (Application, error) {
	c.URL = strings.TrimSpace(c.URL)
	if err := s.validate.Struct(c); err != nil {
		return Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	status, err := ParseStatus(string(c.Status))
	if err != nil {
		return Application{}, err
	}

	now := s.clock()
	ident := s.hasher.IdentityOf(c.URL)
	app := Application{
		ID:           c.ID,
		URL:          ident.Normalized,
		URLHash:      ident.Hash,
		URLHashWeak:  ident.Weak,
		Title:        c.Title,
		Company:      c.Company,
		Location:     c.Location,
		Status:       status,
		Notes:        c.Notes,
		Domain:       urlid.Domain(ident.Normalized),
		DateApplied:  now,
		DateModified: now,
	}
	if app.ID == "" {
		app.ID = s.newID()
	}
	hasDate := c.DateApplied != nil && !c.DateApplied.IsZero()
	if hasDate {
		app.DateApplied = c.DateApplied.UTC()
	}

	if ownerID, ok := agg.urlIndex[app.URLHash]; ok && ownerID != app.ID {
		if owner, ok := agg.applications[ownerID]; ok {
			slog.Debug("merging into existing application",
				"id", ownerID, "candidate_id", app.ID, "url_hash", app.URLHash)
			app.ID = ownerID
			app.DateApplied = owner.DateApplied
		} else {
			delete(agg.urlIndex, app.URLHash)
		}
	} else if existing, ok := agg.applications[app.ID]; ok && !hasDate {
		app.DateApplied = existing.DateApplied
	}

	agg.unindex(app.ID)
	agg.urlIndex[app.URLHash] = app.ID
	agg.applications[app.ID] = app
	agg.refreshStats(now)

	slog.Debug("application saved", "id", app.ID, "url_hash", app.URLHash, "weak", app.URLHashWeak)
	return app, nil
}
