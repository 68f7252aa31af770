package cache

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrStoreClosed = errors.New("cache store is closed")

// FetchFunc loads the data for a key from the backend.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Result is a snapshot of a cache entry.
//
// Loading is true only while the very first fetch for a key is in flight;
// later background refetches set Refetching instead, so callers showing
// last-known-good data don't flash a full loading state.
type Result struct {
	Data       interface{}
	Err        error
	Loading    bool
	Refetching bool
	Stale      bool
}

type entry struct {
	key      Key
	data     interface{}
	hasData  bool
	err      error
	stale    bool
	inFlight bool
	// gen counts invalidations. A fetch captures it at start; a settle
	// whose fetch began before the latest invalidation may not clear
	// stale, since it carries pre-invalidation data.
	gen     int
	fetch   FetchFunc
	subs    map[int]chan Result
	nextSub int
}

func (e *entry) snapshot() Result {
	return Result{
		Data:       e.data,
		Err:        e.err,
		Loading:    e.inFlight && !e.hasData,
		Refetching: e.inFlight && e.hasData,
		Stale:      e.stale,
	}
}

// Store is a keyed cache of server data with staleness, background refetch,
// and prefix invalidation. It is constructed explicitly and passed to its
// consumers; Close releases it. All state lives in memory for the lifetime
// of the process, nothing is persisted.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	logger  *zap.Logger
	wg      sync.WaitGroup
	closed  bool
}

// NewStore creates an empty cache store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Close waits for in-flight background refetches and tears down all
// subscriptions. Queries after Close fail with ErrStoreClosed.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, e := range s.entries {
		for id, ch := range e.subs {
			close(ch)
			delete(e.subs, id)
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Query returns the cached data for key, fetching it when the entry is
// missing or stale. A fresh cached entry returns immediately with no network
// call. A missing entry blocks on the fetch (deduplicated: concurrent calls
// with an equal key share one in-flight request). A stale entry with data
// returns that data immediately and revalidates in the background.
//
// A failed fetch never evicts previously cached good data: the error is
// recorded on the entry and reported alongside the stale data.
func (s *Store) Query(ctx context.Context, key Key, fetch FetchFunc) (Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{}, ErrStoreClosed
	}

	e := s.entry(key)
	e.fetch = fetch

	if e.hasData && !e.stale {
		res := e.snapshot()
		s.mu.Unlock()
		return res, nil
	}

	if e.hasData && e.stale {
		// Stale-while-revalidate: hand back what we have, refresh behind it.
		s.refetchLocked(e)
		res := e.snapshot()
		s.mu.Unlock()
		return res, nil
	}

	// First fetch for this key.
	e.inFlight = true
	startGen := e.gen
	s.mu.Unlock()

	data, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		return fetch(ctx)
	})

	s.mu.Lock()
	s.settleLocked(e, data, err, startGen)
	res := e.snapshot()
	s.mu.Unlock()

	if err != nil {
		return res, err
	}
	return res, nil
}

// Get returns the current snapshot for key without triggering a fetch.
func (s *Store) Get(key Key) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	if !ok {
		return Result{}, false
	}
	return e.snapshot(), true
}

// Invalidate marks every entry whose key starts with prefix as stale, and
// schedules a background refetch for entries that currently have
// subscribers. Entries outside the prefix are untouched.
func (s *Store) Invalidate(prefix Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for _, e := range s.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		e.gen++
		if len(e.subs) > 0 && e.fetch != nil {
			s.refetchLocked(e)
		}
	}
	s.logger.Debug("cache invalidated", zap.String("prefix", prefix.String()))
}

// Subscription delivers entry snapshots as fetches settle. C is closed by
// Unsubscribe and by Store.Close.
type Subscription struct {
	C           <-chan Result
	unsubscribe func()
	once        sync.Once
}

// Unsubscribe tears the subscription down. Fetches that complete afterwards
// are stored but not delivered; the result for an unmounted view is dropped,
// not applied.
func (sub *Subscription) Unsubscribe() {
	sub.once.Do(sub.unsubscribe)
}

// Subscribe registers an observer for key. Subscribing to a stale entry
// triggers a background refetch, matching the new-subscriber-mounts rule.
// On a closed store the returned channel is already closed.
func (s *Store) Subscribe(key Key) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		ch := make(chan Result)
		close(ch)
		return &Subscription{C: ch, unsubscribe: func() {}}
	}

	e := s.entry(key)
	ch := make(chan Result, 8)
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch

	if e.stale && e.fetch != nil {
		s.refetchLocked(e)
	}

	return &Subscription{
		C: ch,
		unsubscribe: func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(c)
			}
		},
	}
}

func (s *Store) entry(key Key) *entry {
	ks := key.String()
	e, ok := s.entries[ks]
	if !ok {
		e = &entry{key: key, subs: make(map[int]chan Result)}
		s.entries[ks] = e
	}
	return e
}

// refetchLocked starts a background revalidation for e. Callers hold s.mu.
func (s *Store) refetchLocked(e *entry) {
	if s.closed || e.inFlight || e.fetch == nil {
		return
	}
	e.inFlight = true
	fetch := e.fetch
	startGen := e.gen

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		data, err, _ := s.group.Do(e.key.String(), func() (interface{}, error) {
			return fetch(context.Background())
		})

		s.mu.Lock()
		s.settleLocked(e, data, err, startGen)
		s.mu.Unlock()
	}()
}

// settleLocked applies a fetch outcome to e and notifies subscribers.
// Callers hold s.mu. startGen is the invalidation generation the fetch was
// started under: a fetch overlapped by an Invalidate carries data from
// before the mutation, so the entry stays stale and, when subscribed, a
// follow-up refetch is scheduled.
func (s *Store) settleLocked(e *entry, data interface{}, err error, startGen int) {
	e.inFlight = false
	e.err = err
	invalidatedMidFlight := startGen != e.gen
	if err == nil {
		e.data = data
		e.hasData = true
		if !invalidatedMidFlight {
			e.stale = false
		}
	} else {
		s.logger.Debug("cache fetch failed",
			zap.String("key", e.key.String()),
			zap.Error(err),
		)
	}
	if invalidatedMidFlight && len(e.subs) > 0 {
		s.refetchLocked(e)
	}

	snap := e.snapshot()
	for _, ch := range e.subs {
		// Non-blocking: a slow consumer misses intermediate snapshots but
		// can always read the latest via Get.
		select {
		case ch <- snap:
		default:
		}
	}
}
