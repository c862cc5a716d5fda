package tracker

import (
	"context"
	"sync"
)

// command is one unit of work run by the owner goroutine.
type command struct {
	ctx context.Context
	run func(ctx context.Context, s *Store)
}

// Service is the single owner of a Store. Every call is queued and executed
// one at a time on the owner goroutine, so read-modify-write cycles never
// interleave within the process.
//
// Subscribers are told that the store changed, not what changed: each
// subscription channel has a buffer of one and coalesces notifications that
// arrive before the subscriber drains it.
type Service struct {
	store    *Store
	commands chan command
	quit     chan struct{}
	stopped  chan struct{}
	once     sync.Once

	mu     sync.Mutex
	subs   map[int]chan struct{}
	nextID int
	closed bool
}

// NewService starts the owner goroutine for store.
func NewService(store *Store) *Service {
	s := &Service{
		store:    store,
		commands: make(chan command),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		subs:     make(map[int]chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Service) loop() {
	defer close(s.stopped)
	for {
		select {
		case cmd := <-s.commands:
			cmd.run(cmd.ctx, s.store)
		case <-s.quit:
			return
		}
	}
}

// Close stops the owner goroutine after the running command finishes and
// closes every subscription channel. Queued callers receive ErrClosed.
func (s *Service) Close() error {
	s.once.Do(func() {
		close(s.quit)
		<-s.stopped

		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		for id, ch := range s.subs {
			close(ch)
			delete(s.subs, id)
		}
	})
	return nil
}

// Subscribe registers for change notifications. The returned function
// cancels the subscription and closes the channel.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			close(sub)
			delete(s.subs, id)
		}
	}
}

func (s *Service) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

type result[T any] struct {
	val T
	err error
}

// call runs fn on the owner goroutine and waits for its result. Once
// queued, fn runs to completion even if ctx is cancelled; the caller just
// stops waiting.
func call[T any](ctx context.Context, s *Service, mutates bool, fn func(context.Context, *Store) (T, error)) (T, error) {
	var zero T
	reply := make(chan result[T], 1)
	cmd := command{
		ctx: context.WithoutCancel(ctx),
		run: func(ctx context.Context, st *Store) {
			v, err := fn(ctx, st)
			if err == nil && mutates {
				s.notify()
			}
			reply <- result[T]{val: v, err: err}
		},
	}

	select {
	case <-s.quit:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	case s.commands <- cmd:
	}

	select {
	case r := <-reply:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Initialize writes the empty aggregate on first run. Subscribers are only
// notified when something was written.
func (s *Service) Initialize(ctx context.Context) error {
	_, err := call(ctx, s, false, func(ctx context.Context, st *Store) (struct{}, error) {
		wrote, err := st.initialize(ctx)
		if wrote {
			s.notify()
		}
		return struct{}{}, err
	})
	return err
}

// Save queues Store.Save.
func (s *Service) Save(ctx context.Context, c Candidate) (Application, error) {
	return call(ctx, s, true, func(ctx context.Context, st *Store) (Application, error) {
		return st.Save(ctx, c)
	})
}

// Update queues Store.Update.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Application, error) {
	return call(ctx, s, true, func(ctx context.Context, st *Store) (Application, error) {
		return st.Update(ctx, id, patch)
	})
}

// Delete queues Store.Delete. Deleting an unknown id does not notify.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := call(ctx, s, false, func(ctx context.Context, st *Store) (struct{}, error) {
		wrote, err := st.remove(ctx, id)
		if wrote {
			s.notify()
		}
		return struct{}{}, err
	})
	return err
}

// ClearAll queues Store.ClearAll.
func (s *Service) ClearAll(ctx context.Context) error {
	_, err := call(ctx, s, true, func(ctx context.Context, st *Store) (struct{}, error) {
		return struct{}{}, st.ClearAll(ctx)
	})
	return err
}

// UpdateSettings queues Store.UpdateSettings.
func (s *Service) UpdateSettings(ctx context.Context, settings Settings) error {
	_, err := call(ctx, s, true, func(ctx context.Context, st *Store) (struct{}, error) {
		return struct{}{}, st.UpdateSettings(ctx, settings)
	})
	return err
}

// GetByID returns the record stored under id.
func (s *Service) GetByID(ctx context.Context, id string) (Application, error) {
	return call(ctx, s, false, func(ctx context.Context, st *Store) (Application, error) {
		return st.GetByID(ctx, id)
	})
}

// GetByURL returns the record whose normalized URL matches rawURL.
func (s *Service) GetByURL(ctx context.Context, rawURL string) (Application, error) {
	return call(ctx, s, false, func(ctx context.Context, st *Store) (Application, error) {
		return st.GetByURL(ctx, rawURL)
	})
}

// GetAll returns every record in no particular order.
func (s *Service) GetAll(ctx context.Context) ([]Application, error) {
	return call(ctx, s, false, func(ctx context.Context, st *Store) ([]Application, error) {
		return st.GetAll(ctx)
	})
}

// Search filters and sorts a snapshot of all records.
func (s *Service) Search(ctx context.Context, q Query) ([]Application, error) {
	return call(ctx, s, false, func(ctx context.Context, st *Store) ([]Application, error) {
		return st.Search(ctx, q)
	})
}

// ComputeStats derives statistics from a snapshot of all records.
func (s *Service) ComputeStats(ctx context.Context) (Stats, error) {
	return call(ctx, s, false, func(ctx context.Context, st *Store) (Stats, error) {
		return st.ComputeStats(ctx)
	})
}

// PersistedStats returns the cached stats stored with the aggregate.
func (s *Service) PersistedStats(ctx context.Context) (PersistedStats, error) {
	return call(ctx, s, false, func(ctx context.Context, st *Store) (PersistedStats, error) {
		return st.PersistedStats(ctx)
	})
}

// Settings returns the stored settings.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	return call(ctx, s, false, func(ctx context.Context, st *Store) (Settings, error) {
		return st.Settings(ctx)
	})
}

// Verify checks the URL index and stats invariants.
func (s *Service) Verify(ctx context.Context) error {
	_, err := call(ctx, s, false, func(ctx context.Context, st *Store) (struct{}, error) {
		return struct{}{}, st.Verify(ctx)
	})
	return err
}
