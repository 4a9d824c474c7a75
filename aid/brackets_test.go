package aid_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/famiz/aid-engine/aid"
)

func testTable() aid.BracketTable {
	return aid.BracketTable{
		Name: "lookup_test",
		Brackets: []aid.Bracket{
			{UpperBound: 600, Tier: "A", Value: decimal.NewFromInt(60)},
			{UpperBound: 900, Tier: "B", Value: decimal.NewFromInt(40)},
			{UpperBound: 1200, Tier: "C", Value: decimal.NewFromInt(20)},
			{Tier: "D", Value: decimal.Zero},
		},
	}
}

func TestLookup_EdgeResolvesToLowerTier(t *testing.T) {
	// Upper bounds are inclusive: a quotient exactly on a bracket edge
	// resolves to the lower (more generous) tier.
	table := testTable()

	tier, value := table.Lookup(600)
	if tier != "A" || !value.Equal(decimal.NewFromInt(60)) {
		t.Errorf("quotient 600: expected tier A / 60, got %s / %v", tier, value)
	}

	tier, value = table.Lookup(601)
	if tier != "B" || !value.Equal(decimal.NewFromInt(40)) {
		t.Errorf("quotient 601: expected tier B / 40, got %s / %v", tier, value)
	}
}

func TestLookup_FinalBracketIsUnbounded(t *testing.T) {
	table := testTable()

	tier, value := table.Lookup(999999)
	if tier != "D" || !value.IsZero() {
		t.Errorf("expected unbounded tier D / 0, got %s / %v", tier, value)
	}
}

func TestLookup_NegativeClampsToLowestTier(t *testing.T) {
	table := testTable()

	tier, value := table.Lookup(-50)
	if tier != "A" || !value.Equal(decimal.NewFromInt(60)) {
		t.Errorf("negative quotient: expected lowest tier A, got %s / %v", tier, value)
	}
}

func TestLookup_ZeroValue(t *testing.T) {
	table := testTable()

	tier, value := table.Lookup(0)
	if tier != "A" || !value.Equal(decimal.NewFromInt(60)) {
		t.Errorf("quotient 0: expected tier A / 60, got %s / %v", tier, value)
	}
}

func TestValidate_RejectsMalformedTables(t *testing.T) {
	cases := []struct {
		name  string
		table aid.BracketTable
	}{
		{"empty", aid.BracketTable{Name: "empty"}},
		{"descending bounds", aid.BracketTable{Name: "desc", Brackets: []aid.Bracket{
			{UpperBound: 900, Tier: "A", Value: decimal.NewFromInt(1)},
			{UpperBound: 600, Tier: "B", Value: decimal.NewFromInt(1)},
			{Tier: "C", Value: decimal.Zero},
		}}},
		{"negative value", aid.BracketTable{Name: "neg", Brackets: []aid.Bracket{
			{UpperBound: 600, Tier: "A", Value: decimal.NewFromInt(-5)},
			{Tier: "B", Value: decimal.Zero},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.table.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestValidate_AcceptsWellFormedTable(t *testing.T) {
	if err := testTable().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
