package selection

import (
	"testing"

	"repairdesk/core/types"
)

func TestAddIsIdempotent(t *testing.T) {
	s := New()
	if !s.Add("5", "Screen replacement", types.CategoryPart) {
		t.Fatal("first add should succeed")
	}
	if s.Add(5, "Screen replacement (again)", types.CategoryPart) {
		t.Error("adding the numeric form of a present id should be a no-op")
	}
	if s.Add("05", "Screen", types.CategoryService) {
		t.Error("adding a zero-padded form of a present id should be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("expected exactly one entry, got %d", s.Len())
	}
	e, _ := s.Get("5")
	if e.IssueName != "Screen replacement" || e.CategoryType != types.CategoryPart {
		t.Errorf("original entry must be preserved, got %+v", e)
	}
	if e.SelectedTierID != nil || e.Notes != "" {
		t.Error("a new entry has no tier and no notes")
	}
}

func TestAddRejectsBlankAndNormalizesCategory(t *testing.T) {
	s := New()
	if s.Add("  ", "blank", types.CategoryService) {
		t.Error("blank id should be rejected")
	}
	s.Add(3, "Odd", types.CategoryType("labour"))
	e, ok := s.Get("3")
	if !ok || e.CategoryType != types.CategoryService {
		t.Errorf("unknown category should default to service, got %+v", e)
	}
}

func TestRemoveIsTotal(t *testing.T) {
	s := New()
	s.Add("1", "A", types.CategoryService)
	s.Add("2", "B", types.CategoryPart)
	s.Add("3", "C", types.CategoryService)

	if s.Remove("42") {
		t.Error("removing an absent id should report false")
	}
	if s.Len() != 3 {
		t.Fatalf("absent removal must not change the set")
	}

	if !s.Remove(2) {
		t.Fatal("removing a present id should report true")
	}
	entries := s.Entries()
	if len(entries) != 2 || entries[0].IssueID != "1" || entries[1].IssueID != "3" {
		t.Fatalf("expected [1 3], got %+v", entries)
	}
	if !s.SetNotes("3", "still indexed") {
		t.Error("index must be rebuilt after removal")
	}
	if e, _ := s.Get("3"); e.Notes != "still indexed" {
		t.Error("notes written to the wrong entry")
	}
}

func TestSetTierAndNotesOnAbsentAreNoops(t *testing.T) {
	s := New()
	if s.SetTier("9", 7) || s.SetNotes("9", "x") || s.ClearTier("9") {
		t.Error("mutating an absent entry should report false")
	}
	if !s.IsEmpty() {
		t.Error("no-ops must not create entries")
	}
}

func TestCompletenessGate(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*Set)
		complete    bool
		submittable bool
	}{
		{
			name:        "empty set is vacuously complete but not submittable",
			setup:       func(*Set) {},
			complete:    true,
			submittable: false,
		},
		{
			name:        "one service entry",
			setup:       func(s *Set) { s.Add("1", "Speaker", types.CategoryService) },
			complete:    true,
			submittable: true,
		},
		{
			name:        "part entry without tier",
			setup:       func(s *Set) { s.Add("5", "Screen", types.CategoryPart) },
			complete:    false,
			submittable: false,
		},
		{
			name: "part entry with tier",
			setup: func(s *Set) {
				s.Add("5", "Screen", types.CategoryPart)
				s.SetTier("5", 7)
			},
			complete:    true,
			submittable: true,
		},
		{
			name: "tier cleared again",
			setup: func(s *Set) {
				s.Add("5", "Screen", types.CategoryPart)
				s.SetTier("5", 7)
				s.ClearTier("5")
			},
			complete:    false,
			submittable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.setup(s)
			if s.IsComplete() != tt.complete {
				t.Errorf("IsComplete = %v, want %v", s.IsComplete(), tt.complete)
			}
			if s.IsSubmittable() != tt.submittable {
				t.Errorf("IsSubmittable = %v, want %v", s.IsSubmittable(), tt.submittable)
			}
		})
	}
}

func TestEntriesAreCopies(t *testing.T) {
	s := New()
	s.Add("5", "Screen", types.CategoryPart)
	s.SetTier("5", 7)

	entries := s.Entries()
	*entries[0].SelectedTierID = 99
	entries[0].Notes = "mutated"

	e, _ := s.Get("5")
	if *e.SelectedTierID != 7 || e.Notes != "" {
		t.Errorf("set was mutated through a returned entry: %+v", e)
	}
}

func TestReAddGetsNewSequence(t *testing.T) {
	s := New()
	s.Add("5", "Screen", types.CategoryPart)
	first, _ := s.Get("5")
	s.Remove("5")
	s.Add("5", "Screen", types.CategoryPart)
	second, _ := s.Get("5")

	if first.Seq() == second.Seq() {
		t.Error("re-added entry must get a fresh sequence number")
	}
}

func TestIncompleteAndPartIDs(t *testing.T) {
	s := New()
	s.Add("1", "Speaker", types.CategoryService)
	s.Add("5", "Screen", types.CategoryPart)
	s.Add("6", "Battery", types.CategoryPart)
	s.SetTier("6", 3)

	if got := s.Incomplete(); len(got) != 1 || got[0] != "5" {
		t.Errorf("Incomplete = %v", got)
	}
	if got := s.PartIDs(); len(got) != 2 || got[0] != "5" || got[1] != "6" {
		t.Errorf("PartIDs = %v", got)
	}

	s.Clear()
	if !s.IsEmpty() || s.Contains("1") {
		t.Error("Clear should empty the set")
	}
}
