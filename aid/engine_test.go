package aid_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/famiz/aid-engine/aid"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func euros(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

// baseContext is a plain sport/term context qualifying for the fixture
// voucher below.
func baseContext() aid.Context {
	return aid.Context{
		Age:        10,
		Quotient:   500,
		Department: "38",
		Category:   aid.CategorySport,
		Period:     aid.PeriodSchoolTerm,
		Price:      euros(200),
	}
}

// testCatalog is a reduced catalog exercising every resolver shape and
// scope-tag combination. Engine tests run against it rather than the
// full production set.
func testCatalog(t *testing.T) *aid.Catalog {
	t.Helper()

	table := aid.BracketTable{
		Name: "test_amounts",
		Brackets: []aid.Bracket{
			{UpperBound: 600, Tier: "low", Value: euros(60)},
			{UpperBound: 900, Tier: "mid", Value: euros(40)},
			{Tier: "high", Value: decimal.Zero},
		},
	}
	rates := aid.BracketTable{
		Name: "test_rates",
		Brackets: []aid.Bracket{
			{UpperBound: 600, Tier: "low", Value: decimal.RequireFromString("0.50")},
			{Tier: "high", Value: decimal.Zero},
		},
	}

	cat, err := aid.NewCatalog(
		aid.Program{
			ID: "voucher", Name: "Sport Voucher", Level: aid.LevelNational,
			Categories: []aid.Category{aid.CategorySport},
			Eligible:   func(c aid.Context) bool { return c.Quotient <= 800 },
			Amount:     aid.FixedAmount(50),
		},
		aid.Program{
			ID: "bracket", Name: "Bracket Aid", Level: aid.LevelRegional,
			Eligible: func(c aid.Context) bool { return c.Department == "38" },
			Amount:   aid.BracketAmount(table),
		},
		aid.Program{
			ID: "holiday-stay", Name: "Holiday Stay Aid", Level: aid.LevelWelfareFund,
			Periods:    []aid.Period{aid.PeriodSchoolHoliday},
			Categories: []aid.Category{aid.CategoryVacation},
			Amount:     aid.BracketRateOfPrice(rates),
			Estimate:   true,
		},
		aid.Program{
			ID: "term-club", Name: "Term Club Pass", Level: aid.LevelMunicipal,
			Periods: []aid.Period{aid.PeriodSchoolTerm},
			Amount:  aid.FixedAmount(10),
		},
		aid.Program{
			ID: "sibling", Name: "Sibling Discount", Level: aid.LevelClubInternal,
			Eligible: func(c aid.Context) bool {
				n, ok := c.Siblings()
				return ok && n >= 2
			},
			Amount:   aid.PercentOfPrice(decimal.RequireFromString("0.10")),
			Estimate: true,
		},
	)
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return cat
}

func findAid(result aid.Result, programID string) (aid.CalculatedAid, bool) {
	for _, a := range result.Aids {
		if a.ProgramID == programID {
			return a, true
		}
	}
	return aid.CalculatedAid{}, false
}

// =============================================================================
// PIPELINE TESTS
// =============================================================================

func TestSimulate_StacksAcrossLevels(t *testing.T) {
	// GIVEN: A modest quotient in the covered department, sport, term
	// WHEN: Simulating
	// THEN: National voucher, regional bracket and term pass all stack

	eng := aid.NewEngine(testCatalog(t))
	result := eng.Simulate(baseContext())

	if len(result.Aids) != 3 {
		t.Fatalf("expected 3 aids, got %d: %+v", len(result.Aids), result.Aids)
	}
	if !result.Total.Equal(euros(120)) { // 50 + 60 + 10
		t.Errorf("expected total 120, got %v", result.Total)
	}
	if !result.RemainingCost.Equal(euros(80)) {
		t.Errorf("expected remaining 80, got %v", result.RemainingCost)
	}
	if result.PercentSaved != 60 {
		t.Errorf("expected 60%% saved, got %d", result.PercentSaved)
	}
}

func TestSimulate_ResultOrderFollowsDeclarationOrder(t *testing.T) {
	eng := aid.NewEngine(testCatalog(t))
	result := eng.Simulate(baseContext())

	want := []string{"voucher", "bracket", "term-club"}
	for i, id := range want {
		if result.Aids[i].ProgramID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, result.Aids[i].ProgramID)
		}
	}
}

func TestSimulate_Idempotent(t *testing.T) {
	// Same context twice must yield identical results: no hidden state.
	eng := aid.NewEngine(testCatalog(t))
	ctx := baseContext()
	ctx.SiblingCount = intPtr(3)

	first := eng.Simulate(ctx)
	second := eng.Simulate(ctx)

	if len(first.Aids) != len(second.Aids) {
		t.Fatalf("aid counts differ: %d vs %d", len(first.Aids), len(second.Aids))
	}
	for i := range first.Aids {
		a, b := first.Aids[i], second.Aids[i]
		if a.ProgramID != b.ProgramID || a.Level != b.Level || !a.Amount.Equal(b.Amount) || a.Estimate != b.Estimate {
			t.Errorf("aid %d differs: %+v vs %+v", i, a, b)
		}
	}
	if !first.Total.Equal(second.Total) || first.PercentSaved != second.PercentSaved {
		t.Errorf("totals differ: %+v vs %+v", first, second)
	}
}

func TestSimulate_AllAmountsNonNegative(t *testing.T) {
	eng := aid.NewEngine(testCatalog(t))

	contexts := []aid.Context{
		baseContext(),
		{Age: 0, Quotient: 0, Category: aid.CategoryOther, Period: aid.PeriodSchoolHoliday, Price: euros(0)},
		{Age: 17, Quotient: 5000, Department: "99", Category: aid.CategoryVacation, Period: aid.PeriodSchoolHoliday, Price: euros(1000)},
	}
	for _, ctx := range contexts {
		result := eng.Simulate(ctx)
		for _, a := range result.Aids {
			if a.Amount.IsNegative() {
				t.Errorf("negative amount for %s: %v", a.ProgramID, a.Amount)
			}
		}
		if !result.RemainingCost.Equal(decimal.Max(decimal.Zero, ctx.Price.Sub(result.Total))) {
			t.Errorf("remaining cost invariant violated: %+v", result)
		}
	}
}

// =============================================================================
// PERIOD / CATEGORY FILTER
// =============================================================================

func TestSimulate_HolidayOnlyProgramHiddenInTerm(t *testing.T) {
	eng := aid.NewEngine(testCatalog(t))

	ctx := baseContext()
	ctx.Category = aid.CategoryVacation
	ctx.Period = aid.PeriodSchoolTerm

	result := eng.Simulate(ctx)
	if _, found := findAid(result, "holiday-stay"); found {
		t.Error("holiday-only program must not appear for a school-term context")
	}
}

func TestSimulate_TermOnlyProgramHiddenInHolidays(t *testing.T) {
	eng := aid.NewEngine(testCatalog(t))

	ctx := baseContext()
	ctx.Period = aid.PeriodSchoolHoliday

	result := eng.Simulate(ctx)
	if _, found := findAid(result, "term-club"); found {
		t.Error("term-only program must not appear for a holiday context")
	}
	// The period-agnostic voucher still applies.
	if _, found := findAid(result, "voucher"); !found {
		t.Error("period-agnostic voucher should still appear in holidays")
	}
}

func TestSimulate_CategoryAllowListEnforced(t *testing.T) {
	eng := aid.NewEngine(testCatalog(t))

	ctx := baseContext()
	ctx.Category = aid.CategoryCulture // voucher is sport-only

	result := eng.Simulate(ctx)
	if _, found := findAid(result, "voucher"); found {
		t.Error("sport-only voucher must not appear for a culture activity")
	}
}

func TestInScope_UntaggedProgramAlwaysInScope(t *testing.T) {
	p := aid.Program{ID: "floor", Name: "Floor", Level: aid.LevelNational, Amount: aid.FixedAmount(1)}
	for _, period := range aid.Periods {
		for _, cat := range aid.Categories {
			if !aid.InScope(p, aid.Context{Period: period, Category: cat}) {
				t.Errorf("untagged program out of scope for %s/%s", period, cat)
			}
		}
	}
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestSimulate_ZeroAmountProgramsExcluded(t *testing.T) {
	// Quotient above the last funded bracket tier resolves to zero and
	// must not produce a zero-value aid line.
	eng := aid.NewEngine(testCatalog(t))

	ctx := baseContext()
	ctx.Quotient = 1500 // above voucher ceiling and bracket funding

	result := eng.Simulate(ctx)
	if _, found := findAid(result, "bracket"); found {
		t.Error("zero-amount bracket aid must be excluded")
	}
	if _, found := findAid(result, "voucher"); found {
		t.Error("voucher above its quotient ceiling must be excluded")
	}
}

func TestSimulate_MissingOptionalFieldFailsClosed(t *testing.T) {
	// GIVEN: A context without a sibling count
	// WHEN: Simulating
	// THEN: The sibling discount silently does not apply; nothing errors

	eng := aid.NewEngine(testCatalog(t))
	result := eng.Simulate(baseContext())

	if _, found := findAid(result, "sibling"); found {
		t.Error("sibling discount must not apply when the count is unknown")
	}

	ctx := baseContext()
	ctx.SiblingCount = intPtr(2)
	result = eng.Simulate(ctx)
	if a, found := findAid(result, "sibling"); !found {
		t.Error("sibling discount should apply with 2 siblings")
	} else {
		if !a.Amount.Equal(euros(20)) { // 10% of 200
			t.Errorf("expected sibling discount 20, got %v", a.Amount)
		}
		if !a.Estimate {
			t.Error("percentage discount must be flagged as estimate")
		}
	}
}

func TestSimulate_NoEligibleProgramsIsValidOutcome(t *testing.T) {
	eng := aid.NewEngine(testCatalog(t))

	result := eng.Simulate(aid.Context{
		Age: 10, Quotient: 3000, Department: "75",
		Category: aid.CategoryOther, Period: aid.PeriodSchoolHoliday,
		Price: euros(120),
	})

	if len(result.Aids) != 0 {
		t.Fatalf("expected no aids, got %+v", result.Aids)
	}
	if !result.Total.IsZero() {
		t.Errorf("expected total 0, got %v", result.Total)
	}
	if !result.RemainingCost.Equal(euros(120)) {
		t.Errorf("expected remaining = price, got %v", result.RemainingCost)
	}
}

func TestSimulate_TotalMayExceedPrice(t *testing.T) {
	// Stacking is intentional: the sum is not capped, only the
	// remaining cost is floored.
	eng := aid.NewEngine(testCatalog(t))

	ctx := baseContext()
	ctx.Price = euros(80) // total aid is 50+60+10 = 120 > 80

	result := eng.Simulate(ctx)
	if !result.Total.Equal(euros(120)) {
		t.Errorf("expected uncapped total 120, got %v", result.Total)
	}
	if !result.RemainingCost.IsZero() {
		t.Errorf("expected remaining floored at 0, got %v", result.RemainingCost)
	}
	if result.PercentSaved != 150 {
		t.Errorf("expected 150%% saved, got %d", result.PercentSaved)
	}
}

func TestSimulate_FreeActivityGuardsDivision(t *testing.T) {
	// GIVEN: A free activity
	// THEN: percent_saved is 0, fixed aids may still apply, remaining is 0

	eng := aid.NewEngine(testCatalog(t))

	ctx := baseContext()
	ctx.Price = euros(0)

	result := eng.Simulate(ctx)
	if result.PercentSaved != 0 {
		t.Errorf("expected 0%% saved for a free activity, got %d", result.PercentSaved)
	}
	if !result.RemainingCost.IsZero() {
		t.Errorf("expected remaining 0, got %v", result.RemainingCost)
	}
	if result.Total.IsZero() {
		t.Error("fixed-amount aids should still apply to a free activity")
	}
}

// =============================================================================
// AGGREGATOR
// =============================================================================

func TestAggregate_EmptyList(t *testing.T) {
	result := aid.Aggregate(nil, euros(100))
	if result.Aids == nil || len(result.Aids) != 0 {
		t.Errorf("expected empty non-nil aid slice, got %#v", result.Aids)
	}
	if !result.Total.IsZero() || !result.RemainingCost.Equal(euros(100)) || result.PercentSaved != 0 {
		t.Errorf("unexpected empty aggregate: %+v", result)
	}
}

func TestAggregate_PercentRoundsHalfUp(t *testing.T) {
	aids := []aid.CalculatedAid{{ProgramID: "x", Amount: euros(1)}}
	// 1/3 of 3 = 33.33% -> 33; 0.5 edge: 1 of 200 = 0.5% -> 1
	result := aid.Aggregate(aids, euros(3))
	if result.PercentSaved != 33 {
		t.Errorf("expected 33, got %d", result.PercentSaved)
	}
	result = aid.Aggregate(aids, euros(200))
	if result.PercentSaved != 1 {
		t.Errorf("expected 0.5%% to round up to 1, got %d", result.PercentSaved)
	}
}

// =============================================================================
// CATALOG VALIDATION
// =============================================================================

func TestNewCatalog_FailsFastOnBadConfig(t *testing.T) {
	valid := aid.Program{ID: "ok", Name: "OK", Level: aid.LevelNational, Amount: aid.FixedAmount(1)}

	cases := []struct {
		name    string
		program aid.Program
	}{
		{"missing ID", aid.Program{Name: "X", Level: aid.LevelNational, Amount: aid.FixedAmount(1)}},
		{"duplicate ID", aid.Program{ID: "ok", Name: "Dup", Level: aid.LevelNational, Amount: aid.FixedAmount(1)}},
		{"missing name", aid.Program{ID: "x", Level: aid.LevelNational, Amount: aid.FixedAmount(1)}},
		{"unknown level", aid.Program{ID: "x", Name: "X", Level: "galactic", Amount: aid.FixedAmount(1)}},
		{"nil amount", aid.Program{ID: "x", Name: "X", Level: aid.LevelNational}},
		{"unknown period tag", aid.Program{ID: "x", Name: "X", Level: aid.LevelNational, Amount: aid.FixedAmount(1), Periods: []aid.Period{"weekend"}}},
		{"unknown category tag", aid.Program{ID: "x", Name: "X", Level: aid.LevelNational, Amount: aid.FixedAmount(1), Categories: []aid.Category{"esports"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := aid.NewCatalog(valid, tc.program)
			if err == nil {
				t.Fatal("expected a catalog error")
			}
		})
	}
}

func TestCatalog_Get(t *testing.T) {
	cat := testCatalog(t)
	if _, ok := cat.Get("voucher"); !ok {
		t.Error("expected voucher to be found")
	}
	if _, ok := cat.Get("nope"); ok {
		t.Error("unexpected program found")
	}
	if cat.Len() != 5 {
		t.Errorf("expected 5 programs, got %d", cat.Len())
	}
}
