package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dreitier/releasegate/metrics"
	"github.com/dreitier/releasegate/release"
	"github.com/dreitier/releasegate/remote"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// the service only ever lists a single tree
const rootKey = "/"

type Walker interface {
	Walk(ctx context.Context) (*remote.WalkResult, error)
}

// Snapshot is the result of the latest successful tree walk. It is never modified once stored.
type Snapshot struct {
	Entries   []release.FileRecord
	Skipped   []remote.Skipped
	FetchedAt time.Time
}

// Manager shields the remote API from repeated walks by caching the listing for a fixed TTL.
type Manager struct {
	walker Walker
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	snapshot *Snapshot
	// incremented on every invalidation, walks started before are not stored
	generation uint64

	flight singleflight.Group
}

func NewManager(walker Walker, ttl time.Duration) *Manager {
	return &Manager{
		walker: walker,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Listing returns the cached entries or walks the remote tree if there is no fresh snapshot.
// If the walk fails the error is returned together with an empty list; a previous snapshot is
// kept but not served.
func (m *Manager) Listing(ctx context.Context) ([]release.FileRecord, error) {
	if entries, ok := m.fresh(); ok {
		metrics.GetListingMetrics().CacheHit()
		return entries, nil
	}

	metrics.GetListingMetrics().CacheMiss()

	// callers arriving while a walk is running wait for its result instead of starting another one
	v, err, shared := m.flight.Do(rootKey, func() (interface{}, error) {
		return m.refresh(context.WithoutCancel(ctx))
	})

	if err != nil {
		return []release.FileRecord{}, err
	}

	if shared {
		log.Debug("Served listing from a walk shared with concurrent requests")
	}

	return copyEntries(v.([]release.FileRecord)), nil
}

func (m *Manager) fresh() ([]release.FileRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil || m.now().Sub(m.snapshot.FetchedAt) >= m.ttl {
		return nil, false
	}

	return copyEntries(m.snapshot.Entries), true
}

func (m *Manager) refresh(ctx context.Context) (interface{}, error) {
	// another walk may have finished between our lookup and joining the flight
	if entries, ok := m.fresh(); ok {
		return entries, nil
	}

	m.mu.Lock()
	generation := m.generation
	m.mu.Unlock()

	result, err := m.walker.Walk(ctx)
	if err != nil {
		log.Errorf("Refreshing the listing failed, keeping the previous snapshot: %s", err)
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != generation {
		log.Debug("Cache has been invalidated during the walk, not storing its result")
		return result.Records, nil
	}

	fetchedAt := m.now()
	m.snapshot = &Snapshot{
		Entries:   result.Records,
		Skipped:   result.Skipped,
		FetchedAt: fetchedAt,
	}
	metrics.GetListingMetrics().SnapshotReplaced(len(result.Records), fetchedAt)

	return result.Records, nil
}

// Invalidate drops the snapshot so that the next Listing walks the remote tree again.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = nil
	m.generation++
	// a running walk keeps serving its callers, later callers start a new one
	m.flight.Forget(rootKey)
	metrics.GetListingMetrics().Invalidated()

	log.Info("Listing cache invalidated")
}

// Snapshot returns the current snapshot, regardless of its age, or nil if there is none.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil {
		return nil
	}

	return &Snapshot{
		Entries:   copyEntries(m.snapshot.Entries),
		Skipped:   append([]remote.Skipped(nil), m.snapshot.Skipped...),
		FetchedAt: m.snapshot.FetchedAt,
	}
}

func copyEntries(entries []release.FileRecord) []release.FileRecord {
	out := make([]release.FileRecord, len(entries))
	copy(out, entries)
	return out
}
