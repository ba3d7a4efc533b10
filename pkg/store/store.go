// Package store persists computed layout runs for the layout service.
//
// A run captures one layout computation: the resulting diagram plus a few
// summary counters. Runs are immutable once saved; the service reads them
// back by id for clients that want to re-open an earlier diagram.
//
// Two backends are provided:
//   - memory: in-process map for development and tests
//   - mongo: MongoDB collection for deployments
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tracemetro/tracemetro/pkg/diagram"
	"github.com/tracemetro/tracemetro/pkg/errors"
)

// Run is one persisted layout computation.
type Run struct {
	ID        string         `json:"id" bson:"_id"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	StepCount int            `json:"step_count" bson:"step_count"`
	StopCount int            `json:"stop_count" bson:"stop_count"`
	LaneCount int            `json:"lane_count" bson:"lane_count"`
	Layout    diagram.Layout `json:"layout" bson:"layout"`
}

// Store persists and retrieves layout runs.
type Store interface {
	// Save stores a run under its ID.
	Save(ctx context.Context, run Run) error

	// Get returns the run with the given id.
	// Returns an error with ErrCodeLayoutNotFound when it does not exist.
	Get(ctx context.Context, id string) (Run, error)

	// List returns the most recent runs, newest first, without layouts
	// (summary fields only) to keep listings cheap.
	List(ctx context.Context, limit int) ([]Run, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]Run)}
}

// Save stores a run.
func (s *MemoryStore) Save(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// Get returns a stored run.
func (s *MemoryStore) Get(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, errors.New(errors.ErrCodeLayoutNotFound, "layout run %s not found", id)
	}
	return run, nil
}

// List returns run summaries, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		run.Layout = diagram.Layout{}
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the memory backend.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
