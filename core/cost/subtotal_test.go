package cost

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"repairdesk/core/catalog"
	"repairdesk/core/pricing"
	"repairdesk/core/selection"
	"repairdesk/core/types"
)

func testCatalog() *catalog.IssueCatalog {
	return catalog.FromIssues("smartphone", []types.Issue{
		{ID: "1", Name: "Speaker repair", Pricing: types.ServicePricing{BasePrice: decimal.RequireFromString("30.00")}},
		{ID: "2", Name: "Diagnostic", Pricing: types.ServicePricing{BasePrice: decimal.RequireFromString("15.00")}},
		{ID: "5", Name: "Screen replacement", Pricing: types.PartPricing{}},
		{ID: "6", Name: "Battery replacement", Pricing: types.PartPricing{}},
	})
}

func qt(id int, price string) types.QualityTier {
	return types.QualityTier{ID: id, Tier: types.TierPremium, Price: decimal.RequireFromString(price)}
}

func TestIntakeScenario(t *testing.T) {
	cat := testCatalog()
	tiers := pricing.NewSnapshot()
	set := selection.New()

	// 1. service issue at 30.00
	set.Add("1", "Speaker repair", types.CategoryService)
	if got := CalculateSet(set, cat, tiers).Display(); got != "30.00" {
		t.Fatalf("step 1: expected 30.00, got %s", got)
	}
	set.Remove("1")

	// 2. part issue, no tier yet
	set.Add("5", "Screen replacement", types.CategoryPart)
	sub := CalculateSet(set, cat, tiers)
	if sub.Display() != "0.00" || set.IsComplete() {
		t.Fatalf("step 2: expected 0.00 and incomplete, got %s complete=%v", sub.Display(), set.IsComplete())
	}
	if sub.Lines[0].Status != LineUnpriced {
		t.Errorf("step 2: expected awaiting_tier, got %s", sub.Lines[0].Status)
	}

	// 3. tier 7 at 89.50
	tiers.Apply(pricing.TierResult{IssueID: "5", Tiers: []types.QualityTier{qt(7, "89.50"), qt(8, "120.00")}})
	set.SetTier("5", 7)
	sub = CalculateSet(set, cat, tiers)
	if sub.Display() != "89.50" || !set.IsComplete() {
		t.Fatalf("step 3: expected 89.50 and complete, got %s complete=%v", sub.Display(), set.IsComplete())
	}

	// 4. second service issue at 15.00
	set.Add("2", "Diagnostic", types.CategoryService)
	if got := CalculateSet(set, cat, tiers).Display(); got != "104.50" {
		t.Fatalf("step 4: expected 104.50, got %s", got)
	}

	// 5. remove the screen
	set.Remove("5")
	if got := CalculateSet(set, cat, tiers).Display(); got != "15.00" {
		t.Fatalf("step 5: expected 15.00, got %s", got)
	}
}

func TestSubtotalIsOrderIndependent(t *testing.T) {
	cat := testCatalog()
	tiers := pricing.SnapshotOf(map[string]pricing.TierResult{
		"5": {IssueID: "5", Tiers: []types.QualityTier{qt(7, "89.50")}},
		"6": {IssueID: "6", Tiers: []types.QualityTier{qt(3, "45.99")}},
	})

	build := func(order []string) Subtotal {
		set := selection.New()
		for _, id := range order {
			issue, _ := cat.Lookup(id)
			set.Add(id, issue.Name, issue.CategoryType())
		}
		set.SetTier("5", 7)
		set.SetTier("6", 3)
		return CalculateSet(set, cat, tiers)
	}

	a := build([]string{"1", "2", "5", "6"})
	b := build([]string{"6", "5", "2", "1"})
	if !a.Total.Equal(b.Total) {
		t.Errorf("order changed the total: %s vs %s", a.Total, b.Total)
	}
	if a.Display() != "180.49" {
		t.Errorf("expected 180.49, got %s", a.Display())
	}

	// calculating twice is idempotent
	if again := build([]string{"1", "2", "5", "6"}); !again.Total.Equal(a.Total) {
		t.Error("recalculation changed the total")
	}
}

func TestSubtotalToleratesPartialResolution(t *testing.T) {
	cat := testCatalog()
	tiers := pricing.NewSnapshot()
	tiers.Apply(pricing.TierResult{IssueID: "5", Tiers: []types.QualityTier{qt(7, "89.50")}})
	tiers.MarkPending("6")

	set := selection.New()
	set.Add("5", "Screen", types.CategoryPart)
	set.Add("6", "Battery", types.CategoryPart)
	set.SetTier("5", 7)
	set.SetTier("6", 3)

	sub := CalculateSet(set, cat, tiers)
	if sub.Display() != "89.50" {
		t.Errorf("expected the resolved part only, got %s", sub.Display())
	}
	if sub.Settled {
		t.Error("subtotal with an outstanding lookup must not be settled")
	}
	if len(sub.Pending) != 1 || sub.Pending[0] != "6" {
		t.Errorf("expected 6 pending, got %v", sub.Pending)
	}
	if sub.String() != "89.50 (partial)" {
		t.Errorf("unexpected rendering %q", sub.String())
	}

	tiers.Apply(pricing.TierResult{IssueID: "6", Tiers: []types.QualityTier{qt(3, "40.00")}})
	sub = CalculateSet(set, cat, tiers)
	if sub.Display() != "129.50" || !sub.Settled {
		t.Errorf("expected settled 129.50, got %s settled=%v", sub.Display(), sub.Settled)
	}
}

func TestSubtotalDegradesToZero(t *testing.T) {
	cat := testCatalog()
	tiers := pricing.NewSnapshot()
	tiers.Apply(pricing.TierResult{IssueID: "5", Tiers: []types.QualityTier{qt(7, "89.50")}})
	tiers.Apply(pricing.TierResult{IssueID: "6", Err: errors.New("timeout")})
	tiers.Apply(pricing.TierResult{IssueID: "9", Tiers: nil})

	set := selection.New()
	set.Add("77", "Not in catalog", types.CategoryService)
	set.Add("5", "Screen", types.CategoryPart)
	set.SetTier("5", 999)
	set.Add("6", "Battery", types.CategoryPart)
	set.SetTier("6", 3)
	set.Add("9", "Camera", types.CategoryPart)

	sub := CalculateSet(set, cat, tiers)
	if !sub.Total.IsZero() {
		t.Errorf("expected zero total, got %s", sub.Total)
	}

	want := []LineStatus{LineMissing, LineTierNotFound, LineFailed, LineNoOptions}
	for i, status := range want {
		if sub.Lines[i].Status != status {
			t.Errorf("line %d: expected %s, got %s", i, status, sub.Lines[i].Status)
		}
		if sub.Lines[i].Counted() {
			t.Errorf("line %d should not be counted", i)
		}
	}
	if len(sub.Failed) != 1 || sub.Failed[0] != "6" {
		t.Errorf("expected 6 failed, got %v", sub.Failed)
	}
	if !sub.Settled {
		t.Error("failures are settled, only pending lookups are not")
	}
}

func TestSubtotalWithoutCatalogOrTiers(t *testing.T) {
	set := selection.New()
	set.Add("1", "Speaker", types.CategoryService)
	set.Add("5", "Screen", types.CategoryPart)

	sub := CalculateSet(set, nil, nil)
	if !sub.Total.IsZero() {
		t.Errorf("expected zero, got %s", sub.Total)
	}
	if sub.Lines[0].Status != LineMissing || sub.Lines[1].Status != LineUnpriced {
		t.Errorf("unexpected statuses %s %s", sub.Lines[0].Status, sub.Lines[1].Status)
	}
}

func TestSubtotalKeepsUnroundedTotal(t *testing.T) {
	cat := catalog.FromIssues("tablet", []types.Issue{
		{ID: "1", Name: "A", Pricing: types.ServicePricing{BasePrice: decimal.RequireFromString("0.005")}},
		{ID: "2", Name: "B", Pricing: types.ServicePricing{BasePrice: decimal.RequireFromString("0.005")}},
	})
	set := selection.New()
	set.Add("1", "A", types.CategoryService)
	set.Add("2", "B", types.CategoryService)

	sub := CalculateSet(set, cat, nil)
	if sub.Total.String() != "0.01" {
		t.Errorf("expected exact 0.01, got %s", sub.Total)
	}
	if got := sub.Add(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2")); got.String() != "0.31" {
		t.Errorf("expected 0.31 without float drift, got %s", got)
	}
}
