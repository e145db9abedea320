// Package pricing - Resolved tier snapshot
package pricing

import (
	"sort"
	"sync"

	"repairdesk/core/types"
)

// TierState is the lookup state of one issue's tiers
type TierState int

const (
	// TierUnknown - never requested
	TierUnknown TierState = iota
	// TierPending - lookup in flight
	TierPending
	// TierResolved - tiers available (possibly zero of them)
	TierResolved
	// TierFailed - lookup failed
	TierFailed
)

// String returns string representation
func (s TierState) String() string {
	switch s {
	case TierUnknown:
		return "unknown"
	case TierPending:
		return "pending"
	case TierResolved:
		return "resolved"
	case TierFailed:
		return "failed"
	default:
		return "invalid"
	}
}

type tierEntry struct {
	state TierState
	tiers []types.QualityTier
	err   error
}

// Snapshot holds the resolved tier data per issue.
// Tiers are scoped to their issue and never shared between issues.
type Snapshot struct {
	mu      sync.RWMutex
	entries map[string]*tierEntry
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{entries: make(map[string]*tierEntry)}
}

// SnapshotOf builds a snapshot from batch results
func SnapshotOf(results map[string]TierResult) *Snapshot {
	s := NewSnapshot()
	for _, res := range results {
		s.Apply(res)
	}
	return s
}

// MarkPending records that a lookup for issueID is in flight.
// Previously resolved tiers are kept until the new result arrives.
func (s *Snapshot) MarkPending(issueID string) {
	id := types.NormalizeID(issueID)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &tierEntry{}
		s.entries[id] = e
	}
	e.state = TierPending
	e.err = nil
}

// Apply stores a lookup result
func (s *Snapshot) Apply(res TierResult) {
	id := types.NormalizeID(res.IssueID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.Err != nil {
		s.entries[id] = &tierEntry{state: TierFailed, err: res.Err}
		return
	}
	tiers := make([]types.QualityTier, len(res.Tiers))
	copy(tiers, res.Tiers)
	s.entries[id] = &tierEntry{state: TierResolved, tiers: tiers}
}

// Forget drops everything known about issueID
func (s *Snapshot) Forget(issueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, types.NormalizeID(issueID))
}

// Reset drops all entries
func (s *Snapshot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*tierEntry)
}

// State returns the lookup state of issueID
func (s *Snapshot) State(issueID string) TierState {
	if s == nil {
		return TierUnknown
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[types.NormalizeID(issueID)]; ok {
		return e.state
	}
	return TierUnknown
}

// Err returns the lookup error of issueID, if it failed
func (s *Snapshot) Err(issueID string) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[types.NormalizeID(issueID)]; ok {
		return e.err
	}
	return nil
}

// Tiers returns a copy of the resolved tiers of issueID
func (s *Snapshot) Tiers(issueID string) []types.QualityTier {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[types.NormalizeID(issueID)]
	if !ok {
		return nil
	}
	out := make([]types.QualityTier, len(e.tiers))
	copy(out, e.tiers)
	return out
}

// Find returns the tier tierID of issueID when its tiers are known
func (s *Snapshot) Find(issueID string, tierID int) (types.QualityTier, bool) {
	if s == nil {
		return types.QualityTier{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[types.NormalizeID(issueID)]
	if !ok {
		return types.QualityTier{}, false
	}
	return types.FindTier(e.tiers, tierID)
}

// Pending returns the sorted ids with a lookup in flight
func (s *Snapshot) Pending() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for id, e := range s.entries {
		if e.state == TierPending {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
