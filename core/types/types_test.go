package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"int", 7, "7"},
		{"int64", int64(42), "42"},
		{"float whole", 7.0, "7"},
		{"string", "7", "7"},
		{"string padded", " 007 ", "7"},
		{"string float", "7.0", "7"},
		{"json number", json.Number("12"), "12"},
		{"string trailing zeros", "12.00", "12"},
		{"slug", "screen-repair", "screen-repair"},
		{"exponent kept", "1e3", "1e3"},
		{"fraction kept", "7.5", "7.5"},
		{"bare dot kept", "7.", "7."},
		{"beyond int64 kept", "123456789012345678901234567890", "123456789012345678901234567890"},
		{"distinct long ids", "123456789012345678901234567891", "123456789012345678901234567891"},
		{"nil", nil, ""},
		{"unsupported", struct{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.in); got != tt.want {
				t.Errorf("NormalizeID(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIssueDecodeCategories(t *testing.T) {
	data := `[
		{"id": 3, "name": "Speaker repair", "requires_part": false, "base_price": "30.00", "category_type": "service_based"},
		{"id": "5", "name": "Screen replacement", "requires_part": true, "base_price": null, "category_type": "product_based", "associated_product": 11},
		{"id": 8, "name": "Battery", "requires_part": true, "base_price": ""},
		{"id": 9, "name": "Diagnostic", "requires_part": false, "base_price": 15}
	]`

	var issues []Issue
	if err := json.Unmarshal([]byte(data), &issues); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d", len(issues))
	}

	speaker := issues[0]
	if speaker.ID != "3" || speaker.CategoryType() != CategoryService {
		t.Errorf("speaker decoded wrong: %+v", speaker)
	}
	if !speaker.BasePrice().Equal(decimal.RequireFromString("30")) {
		t.Errorf("expected base price 30, got %s", speaker.BasePrice())
	}

	screen := issues[1]
	part, ok := screen.Pricing.(PartPricing)
	if !ok {
		t.Fatalf("expected part pricing, got %T", screen.Pricing)
	}
	if part.AssociatedProduct == nil || *part.AssociatedProduct != 11 {
		t.Errorf("expected associated product 11, got %v", part.AssociatedProduct)
	}
	if !screen.BasePrice().IsZero() {
		t.Errorf("part issue should have no base price")
	}

	// category_type missing: requires_part decides
	if issues[2].CategoryType() != CategoryPart {
		t.Errorf("expected battery to fall back to product_based")
	}
	if !issues[3].BasePrice().Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected numeric base price 15, got %s", issues[3].BasePrice())
	}
}

func TestIssueDecodeRejectsMissingID(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(`{"name": "orphan"}`), &issue); err == nil {
		t.Fatal("expected error for issue without id")
	}
}

func TestQualityTierDecode(t *testing.T) {
	var tiers []QualityTier
	data := `[{"id": 7, "quality_tier": "premium", "price": "89.50", "warranty_days": 180, "availability_status": "low_stock"},
	          {"id": 8, "quality_tier": "gold", "price": 12, "warranty_days": -3, "availability_status": "backorder"}]`
	if err := json.Unmarshal([]byte(data), &tiers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tiers[0].Price.Equal(decimal.RequireFromString("89.5")) {
		t.Errorf("expected 89.50, got %s", tiers[0].Price)
	}
	if !tiers[0].Availability.Orderable() {
		t.Errorf("low_stock should be orderable")
	}
	if tiers[1].Tier.IsKnown() || tiers[1].Availability.IsKnown() {
		t.Errorf("unknown enum values should report IsKnown() == false")
	}
	if tiers[1].WarrantyDays != 0 {
		t.Errorf("negative warranty should clamp to 0, got %d", tiers[1].WarrantyDays)
	}

	if _, ok := FindTier(tiers, 8); !ok {
		t.Error("expected to find tier 8")
	}
	if _, ok := FindTier(tiers, 99); ok {
		t.Error("did not expect to find tier 99")
	}
}

func TestAccessoryList(t *testing.T) {
	list := ParseAccessories(" charger, , case ,sim tray,")
	if len(list) != 3 || list[0] != "charger" || list[1] != "case" || list[2] != "sim tray" {
		t.Fatalf("unexpected accessories: %#v", list)
	}

	out, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"charger, case, sim tray"` {
		t.Errorf("unexpected encoding %s", out)
	}

	empty, _ := json.Marshal(ParseAccessories("  ,  "))
	if string(empty) != "null" {
		t.Errorf("empty accessories should encode as null, got %s", empty)
	}
}

func TestPageAcceptsArrayAndEnvelope(t *testing.T) {
	var bare Page[Brand]
	if err := json.Unmarshal([]byte(`[{"id":1,"name":"Apple"}]`), &bare); err != nil {
		t.Fatalf("bare: %v", err)
	}
	if bare.Count != 1 || bare.Results[0].Name != "Apple" {
		t.Errorf("unexpected bare page %+v", bare)
	}

	var env Page[Brand]
	if err := json.Unmarshal([]byte(`{"count":12,"next":"http://x/?page=2","results":[{"id":2,"name":"Samsung"}]}`), &env); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if env.Count != 12 || env.Next == "" || env.Results[0].ID != 2 {
		t.Errorf("unexpected envelope page %+v", env)
	}
}

func TestClientMatches(t *testing.T) {
	c := Client{FirstName: "Ana", LastName: "Dupont", Profile: Profile{PhoneNumber: "0612345678"}}
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"dupont", true},
		{"ana du", true},
		{"0612", true},
		{"martin", false},
	}
	for _, tt := range tests {
		if got := c.Matches(tt.query); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
