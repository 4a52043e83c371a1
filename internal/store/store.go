// Package store maintains the local cache of completed analyses: records by
// id, a bounded most-recent-first list, and the single active pointer. Every
// mutation re-serializes the whole state into one snapshot slot so a restart
// picks up exactly where the operator left off.
package store

import (
	"context"
	"sync"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultRecentLimit = 12

// Store is an explicitly constructed state container; the application root
// owns one instance and hands it to consumers. Guarded by a mutex since gin
// runs handlers concurrently.
type Store struct {
	mu        sync.RWMutex
	state     domain.StoreState
	limit     int
	snapshots SnapshotStore
}

// New builds a store over the given snapshot backend and loads the persisted
// state once, before any mutation. A malformed or partially-shaped snapshot
// is discarded wholesale; there is no partial merge.
func New(ctx context.Context, snapshots SnapshotStore, recentLimit int) *Store {
	if snapshots == nil {
		snapshots = NewNoopSnapshots()
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	s := &Store{
		state:     emptyState(),
		limit:     recentLimit,
		snapshots: snapshots,
	}

	snap, ok, err := snapshots.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("analysis store: snapshot load failed, starting empty")
		return s
	}
	if !ok {
		return s
	}
	if snap.ByID == nil || snap.RecentIDs == nil {
		log.Warn().Msg("analysis store: snapshot missing byId/recentIds, starting empty")
		return s
	}

	s.state = *snap
	s.sanitize()
	return s
}

// Upsert inserts or overwrites a record, moves it to the front of the recency
// list and makes it active. It always succeeds.
func (s *Store) Upsert(ctx context.Context, rec domain.AnalysisRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ByID[rec.ID] = rec
	s.touch(rec.ID)
	// Only the recency list is bounded. Records evicted from it stay in byId
	// and can be re-promoted by SetActive, matching the frontend contract.
	if len(s.state.RecentIDs) > s.limit {
		s.state.RecentIDs = s.state.RecentIDs[:s.limit]
	}
	id := rec.ID
	s.state.ActiveID = &id

	s.persist(ctx)
}

// SetActive promotes a known record to active and to the front of the recency
// list. Unknown ids leave the state untouched and report false.
func (s *Store) SetActive(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.ByID[id]; !ok {
		return false
	}
	s.touch(id)
	active := id
	s.state.ActiveID = &active

	s.persist(ctx)
	return true
}

// Remove deletes a record; a no-op for unknown ids. When the active record is
// removed, the most recent remaining record becomes active.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.ByID[id]; !ok {
		return false
	}
	delete(s.state.ByID, id)
	s.state.RecentIDs = withoutID(s.state.RecentIDs, id)

	if s.state.ActiveID != nil && *s.state.ActiveID == id {
		if len(s.state.RecentIDs) > 0 {
			next := s.state.RecentIDs[0]
			s.state.ActiveID = &next
		} else {
			s.state.ActiveID = nil
		}
	}

	s.persist(ctx)
	return true
}

// Clear resets the store to its empty initial state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = emptyState()
	s.persist(ctx)
}

// GetActive returns the active record. The second return is false when no
// record is active or the pointer is stale.
func (s *Store) GetActive() (domain.AnalysisRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.ActiveID == nil {
		return domain.AnalysisRecord{}, false
	}
	rec, ok := s.state.ByID[*s.state.ActiveID]
	return rec, ok
}

// Get returns one record by id.
func (s *Store) Get(id string) (domain.AnalysisRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.state.ByID[id]
	return rec, ok
}

// Recent returns the stored records in recency order, most recent first.
func (s *Store) Recent() []domain.AnalysisRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AnalysisRecord, 0, len(s.state.RecentIDs))
	for _, id := range s.state.RecentIDs {
		if rec, ok := s.state.ByID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// State returns a deep copy of the current state.
func (s *Store) State() domain.StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// touch moves id to the front of the recency list, removing any prior
// occurrence so the list never holds duplicates.
func (s *Store) touch(id string) {
	recents := make([]string, 0, len(s.state.RecentIDs)+1)
	recents = append(recents, id)
	recents = append(recents, withoutID(s.state.RecentIDs, id)...)
	s.state.RecentIDs = recents
}

// persist writes the full state to the snapshot slot. Persistence failures
// are logged and swallowed: the in-memory state is already updated and the
// next successful mutation rewrites the whole slot anyway.
func (s *Store) persist(ctx context.Context) {
	if err := s.snapshots.Save(ctx, copyState(s.state)); err != nil {
		log.Warn().Err(err).Msg("analysis store: snapshot save failed")
	}
}

// sanitize enforces the store invariants on loaded state: every recency entry
// references an existing record, no duplicates, bounded length, and the
// active pointer references an existing record.
func (s *Store) sanitize() {
	seen := make(map[string]struct{}, len(s.state.RecentIDs))
	recents := make([]string, 0, len(s.state.RecentIDs))
	for _, id := range s.state.RecentIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		if _, ok := s.state.ByID[id]; !ok {
			continue
		}
		seen[id] = struct{}{}
		recents = append(recents, id)
	}
	if len(recents) > s.limit {
		recents = recents[:s.limit]
	}
	s.state.RecentIDs = recents

	if s.state.ActiveID != nil {
		if _, ok := s.state.ByID[*s.state.ActiveID]; !ok {
			s.state.ActiveID = nil
		}
	}
}

func emptyState() domain.StoreState {
	return domain.StoreState{
		ByID:      make(map[string]domain.AnalysisRecord),
		RecentIDs: make([]string, 0),
	}
}

func copyState(state domain.StoreState) domain.StoreState {
	out := domain.StoreState{
		ByID:      make(map[string]domain.AnalysisRecord, len(state.ByID)),
		RecentIDs: make([]string, len(state.RecentIDs)),
	}
	for id, rec := range state.ByID {
		out.ByID[id] = rec
	}
	copy(out.RecentIDs, state.RecentIDs)
	if state.ActiveID != nil {
		active := *state.ActiveID
		out.ActiveID = &active
	}
	return out
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
