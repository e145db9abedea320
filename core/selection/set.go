// Package selection provides the in-progress set of issues chosen for one repair intake.
package selection

import (
	"repairdesk/core/types"
)

// SelectedIssue is one entry of the selection
type SelectedIssue struct {
	// IssueID is the canonical issue id, unique within a Set
	IssueID string `json:"issue_id"`

	// IssueName is the issue name at selection time
	IssueName string `json:"issue_name"`

	// CategoryType is the issue category at selection time
	CategoryType types.CategoryType `json:"category_type"`

	// SelectedTierID is the chosen quality tier (part-based issues)
	SelectedTierID *int `json:"selected_tier_id,omitempty"`

	// Notes is free text for the technician
	Notes string `json:"notes,omitempty"`

	// seq identifies this particular insertion of the issue
	seq uint64
}

// Complete reports whether the entry can be priced
func (s SelectedIssue) Complete() bool {
	switch s.CategoryType {
	case types.CategoryPart:
		return s.SelectedTierID != nil
	default:
		return true
	}
}

// Seq returns the insertion sequence number of the entry.
// Removing and re-adding an issue gives it a new sequence number.
func (s SelectedIssue) Seq() uint64 {
	return s.seq
}

// Set is an insertion-ordered collection of selected issues keyed by issue id.
// It is not safe for concurrent use; callers serialize access.
type Set struct {
	entries []SelectedIssue
	index   map[string]int
	nextSeq uint64
}

// New creates an empty set
func New() *Set {
	return &Set{index: make(map[string]int)}
}

// Add appends an issue. It is a no-op, returning false, if the id is already present
// or blank. An unknown category is stored as service-based.
func (s *Set) Add(issueID interface{}, issueName string, category types.CategoryType) bool {
	id := types.NormalizeID(issueID)
	if id == "" {
		return false
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	if !category.Valid() {
		category = types.CategoryService
	}
	s.nextSeq++
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, SelectedIssue{
		IssueID:      id,
		IssueName:    issueName,
		CategoryType: category,
		seq:          s.nextSeq,
	})
	return true
}

// Remove drops the entry for issueID, if present
func (s *Set) Remove(issueID interface{}) bool {
	id := types.NormalizeID(issueID)
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	delete(s.index, id)
	for i := idx; i < len(s.entries); i++ {
		s.index[s.entries[i].IssueID] = i
	}
	return true
}

// SetTier stores the chosen tier on the entry for issueID, if present
func (s *Set) SetTier(issueID interface{}, tierID int) bool {
	e := s.entry(issueID)
	if e == nil {
		return false
	}
	e.SelectedTierID = &tierID
	return true
}

// ClearTier removes the chosen tier from the entry for issueID, if present
func (s *Set) ClearTier(issueID interface{}) bool {
	e := s.entry(issueID)
	if e == nil {
		return false
	}
	e.SelectedTierID = nil
	return true
}

// SetNotes stores notes on the entry for issueID, if present
func (s *Set) SetNotes(issueID interface{}, notes string) bool {
	e := s.entry(issueID)
	if e == nil {
		return false
	}
	e.Notes = notes
	return true
}

func (s *Set) entry(issueID interface{}) *SelectedIssue {
	idx, ok := s.index[types.NormalizeID(issueID)]
	if !ok {
		return nil
	}
	return &s.entries[idx]
}

// Contains reports whether issueID is selected
func (s *Set) Contains(issueID interface{}) bool {
	_, ok := s.index[types.NormalizeID(issueID)]
	return ok
}

// Get returns a copy of the entry for issueID
func (s *Set) Get(issueID interface{}) (SelectedIssue, bool) {
	e := s.entry(issueID)
	if e == nil {
		return SelectedIssue{}, false
	}
	return copyEntry(*e), true
}

// Entries returns a copy of the entries in insertion order
func (s *Set) Entries() []SelectedIssue {
	out := make([]SelectedIssue, len(s.entries))
	for i, e := range s.entries {
		out[i] = copyEntry(e)
	}
	return out
}

func copyEntry(e SelectedIssue) SelectedIssue {
	if e.SelectedTierID != nil {
		tierID := *e.SelectedTierID
		e.SelectedTierID = &tierID
	}
	return e
}

// Len returns the number of entries
func (s *Set) Len() int {
	return len(s.entries)
}

// IsEmpty reports whether nothing is selected
func (s *Set) IsEmpty() bool {
	return len(s.entries) == 0
}

// IsComplete reports whether every entry can be priced.
// An empty set is vacuously complete; see IsSubmittable.
func (s *Set) IsComplete() bool {
	for _, e := range s.entries {
		if !e.Complete() {
			return false
		}
	}
	return true
}

// IsSubmittable reports whether the set is non-empty and complete
func (s *Set) IsSubmittable() bool {
	return !s.IsEmpty() && s.IsComplete()
}

// Incomplete returns the ids of entries still waiting for a tier
func (s *Set) Incomplete() []string {
	var out []string
	for _, e := range s.entries {
		if !e.Complete() {
			out = append(out, e.IssueID)
		}
	}
	return out
}

// PartIDs returns the ids of part-based entries, in insertion order
func (s *Set) PartIDs() []string {
	var out []string
	for _, e := range s.entries {
		if e.CategoryType == types.CategoryPart {
			out = append(out, e.IssueID)
		}
	}
	return out
}

// Clear removes every entry
func (s *Set) Clear() {
	s.entries = nil
	s.index = make(map[string]int)
}
