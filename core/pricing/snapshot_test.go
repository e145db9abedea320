package pricing

import (
	"errors"
	"testing"

	"repairdesk/core/types"
)

func TestSnapshotLifecycle(t *testing.T) {
	s := NewSnapshot()

	if s.State("5") != TierUnknown {
		t.Fatalf("expected unknown state for untouched issue")
	}

	s.MarkPending(" 5")
	if s.State("5") != TierPending {
		t.Errorf("expected pending, got %s", s.State("5"))
	}
	if pending := s.Pending(); len(pending) != 1 || pending[0] != "5" {
		t.Errorf("unexpected pending list %v", pending)
	}

	s.Apply(TierResult{IssueID: "5", Tiers: []types.QualityTier{tier(7, "89.50")}})
	if s.State("5") != TierResolved {
		t.Errorf("expected resolved, got %s", s.State("5"))
	}
	found, ok := s.Find("5", 7)
	if !ok || found.Price.String() != "89.5" {
		t.Errorf("expected tier 7 at 89.5, got %+v %v", found, ok)
	}
	if _, ok := s.Find("5", 8); ok {
		t.Error("tier 8 should not exist")
	}
	if _, ok := s.Find("6", 7); ok {
		t.Error("tiers must not leak across issues")
	}

	s.Apply(TierResult{IssueID: "5", Err: errors.New("boom")})
	if s.State("5") != TierFailed || s.Err("5") == nil {
		t.Errorf("expected failed state with error")
	}
	if len(s.Tiers("5")) != 0 {
		t.Error("failed lookup should clear tiers")
	}

	s.Forget("5")
	if s.State("5") != TierUnknown {
		t.Error("Forget should drop the entry")
	}
}

func TestSnapshotTiersReturnsCopy(t *testing.T) {
	s := SnapshotOf(map[string]TierResult{
		"5": {IssueID: "5", Tiers: []types.QualityTier{tier(7, "10")}},
	})
	tiers := s.Tiers("5")
	tiers[0].ID = 99
	if _, ok := s.Find("5", 7); !ok {
		t.Error("mutating the returned slice must not affect the snapshot")
	}
}

func TestNilSnapshotIsEmpty(t *testing.T) {
	var s *Snapshot
	if s.State("5") != TierUnknown || s.Tiers("5") != nil || s.Pending() != nil {
		t.Error("nil snapshot should behave as empty")
	}
	if _, ok := s.Find("5", 1); ok {
		t.Error("nil snapshot finds nothing")
	}
}
