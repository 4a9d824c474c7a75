package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famiz/aid-engine/aid"
	"github.com/famiz/aid-engine/catalog"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func euros(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func intPtr(n int) *int { return &n }

// coveredSportTerm is the reference context: a 10-year-old with a
// modest quotient, in the covered region, registering for a 200 euro
// term-time sport course.
func coveredSportTerm() aid.Context {
	return aid.Context{
		Age:        10,
		Quotient:   500,
		Department: "38",
		Category:   aid.CategorySport,
		Period:     aid.PeriodSchoolTerm,
		Price:      euros(200),
	}
}

func amountOf(t *testing.T, result aid.Result, programID string) decimal.Decimal {
	t.Helper()
	for _, a := range result.Aids {
		if a.ProgramID == programID {
			return a.Amount
		}
	}
	t.Fatalf("program %s not in result: %+v", programID, result.Aids)
	return decimal.Zero
}

func has(result aid.Result, programID string) bool {
	for _, a := range result.Aids {
		if a.ProgramID == programID {
			return true
		}
	}
	return false
}

// =============================================================================
// CATALOG CONSISTENCY
// =============================================================================

func TestDefault_CatalogValidates(t *testing.T) {
	cat, err := aid.NewCatalog(catalog.Programs()...)
	require.NoError(t, err)
	assert.Equal(t, 14, cat.Len())
}

func TestTables_AllValidate(t *testing.T) {
	for name, table := range catalog.Tables {
		assert.NoError(t, table.Validate(), "table %s", name)
	}
}

func TestPercentagePrograms_AreFlaggedEstimate(t *testing.T) {
	// Every percentage-of-price program carries Estimate: the engine
	// does not know the external caps of the issuing bodies.
	for _, id := range []string{"dept-holiday-camp", "fund-vacation", "welfare-solidarity", "club-sibling"} {
		p, ok := catalog.Default().Get(id)
		require.True(t, ok, "program %s", id)
		assert.True(t, p.Estimate, "program %s must be an estimate", id)
	}
}

// =============================================================================
// REFERENCE SCENARIOS
// =============================================================================

func TestScenario_CoveredRegionSportTerm(t *testing.T) {
	// Modest quotient in the covered region: the national sport
	// voucher and the regional bracket aid stack.
	eng := aid.NewEngine(catalog.Default())
	result := eng.Simulate(coveredSportTerm())

	assert.True(t, amountOf(t, result, "pass-sport").Equal(euros(50)))
	assert.True(t, amountOf(t, result, "region-activity").Equal(euros(60)))
	assert.Len(t, result.Aids, 2)
	assert.True(t, result.Total.Equal(euros(110)), "total %v", result.Total)
	assert.True(t, result.RemainingCost.Equal(euros(90)), "remaining %v", result.RemainingCost)
	assert.EqualValues(t, 55, result.PercentSaved)
}

func TestScenario_QuotientAboveVoucherCeiling(t *testing.T) {
	// At quotient 900 the national voucher is gone; only the regional
	// aid (whose own ceiling is higher) remains, one tier down.
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Quotient = 900
	result := eng.Simulate(ctx)

	assert.False(t, has(result, "pass-sport"), "voucher must be absent above its ceiling")
	assert.True(t, amountOf(t, result, "region-activity").Equal(euros(40)))
	assert.Len(t, result.Aids, 1)
}

func TestScenario_SportInHolidays(t *testing.T) {
	// The sport voucher is period-agnostic and survives a holiday
	// context; vacation-stay-only programs must never leak into a
	// sport activity.
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Period = aid.PeriodSchoolHoliday
	ctx.Flags = map[aid.Flag]bool{aid.FlagFamilyFundMember: true}
	result := eng.Simulate(ctx)

	assert.True(t, has(result, "pass-sport"))
	assert.False(t, has(result, "fund-vacation"), "vacation-stay-only program must not appear for sport")
	assert.False(t, has(result, "dept-holiday-camp"), "vacation-stay-only program must not appear for sport")
	assert.False(t, has(result, "fund-leisure"), "term-only program must not appear in holidays")
}

func TestScenario_FreeActivity(t *testing.T) {
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Price = euros(0)
	result := eng.Simulate(ctx)

	assert.EqualValues(t, 0, result.PercentSaved)
	assert.True(t, result.RemainingCost.IsZero())
	// Fixed-amount programs still fire on a free activity.
	assert.True(t, has(result, "pass-sport"))
}

func TestScenario_SiblingDiscount(t *testing.T) {
	// Two siblings on a 300 euro activity: a 30 euro estimate line.
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Price = euros(300)
	ctx.SiblingCount = intPtr(2)
	result := eng.Simulate(ctx)

	assert.True(t, amountOf(t, result, "club-sibling").Equal(euros(30)))
	for _, a := range result.Aids {
		if a.ProgramID == "club-sibling" {
			assert.True(t, a.Estimate)
		}
	}
}

// =============================================================================
// PROGRAM-SPECIFIC RULES
// =============================================================================

func TestPassSport_FlagOverridesQuotientCeiling(t *testing.T) {
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Quotient = 2000
	ctx.Flags = map[aid.Flag]bool{aid.FlagScholarship: true}
	result := eng.Simulate(ctx)

	assert.True(t, has(result, "pass-sport"), "scholarship holders qualify regardless of quotient")
}

func TestMetroActivity_CategoryDifferentiatedBrackets(t *testing.T) {
	// The same quotient tier pays differently for sport and culture.
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Commune = "38185"
	sport := eng.Simulate(ctx)
	assert.True(t, amountOf(t, sport, "metro-activity").Equal(euros(45)))

	ctx.Category = aid.CategoryCulture
	culture := eng.Simulate(ctx)
	assert.True(t, amountOf(t, culture, "metro-activity").Equal(euros(35)))

	ctx.Category = aid.CategoryLeisure
	leisure := eng.Simulate(ctx)
	assert.False(t, has(leisure, "metro-activity"), "metro pass covers sport and culture only")
}

func TestDeptCulture_AgeBandAmounts(t *testing.T) {
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Category = aid.CategoryCulture

	ctx.Age = 12
	assert.True(t, amountOf(t, eng.Simulate(ctx), "dept-culture").Equal(euros(20)))

	ctx.Age = 16
	assert.True(t, amountOf(t, eng.Simulate(ctx), "dept-culture").Equal(euros(30)))

	ctx.Age = 4 // below every band: zero amount, excluded
	assert.False(t, has(eng.Simulate(ctx), "dept-culture"))
}

func TestFundVacation_PercentageByBracket(t *testing.T) {
	eng := aid.NewEngine(catalog.Default())

	ctx := aid.Context{
		Age:        9,
		Quotient:   430,
		Department: "38",
		Category:   aid.CategoryVacation,
		Period:     aid.PeriodSchoolHoliday,
		Price:      euros(420),
		Flags:      map[aid.Flag]bool{aid.FlagFamilyFundMember: true},
	}
	result := eng.Simulate(ctx)

	// 60% of 420 and 50% of 420.
	assert.True(t, amountOf(t, result, "fund-vacation").Equal(euros(252)))
	assert.True(t, amountOf(t, result, "dept-holiday-camp").Equal(euros(210)))
}

func TestWorksCouncilFund_PlaceholderEstimate(t *testing.T) {
	// The variable-amount fund keeps a small fixed placeholder line
	// rather than disappearing; it is flagged as an estimate even
	// though it is not a percentage program.
	p, ok := catalog.Default().Get("works-council-fund")
	require.True(t, ok)
	assert.True(t, p.Estimate)

	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Flags = map[aid.Flag]bool{aid.FlagWorksCouncilMember: true}
	result := eng.Simulate(ctx)

	assert.True(t, amountOf(t, result, "works-council-fund").Equal(euros(15)))
	for _, a := range result.Aids {
		if a.ProgramID == "works-council-fund" {
			assert.True(t, a.Estimate)
		}
	}
}

func TestUncoveredGeography_NoTerritorialAid(t *testing.T) {
	eng := aid.NewEngine(catalog.Default())

	ctx := coveredSportTerm()
	ctx.Quotient = 2400
	ctx.Department = "75"
	result := eng.Simulate(ctx)

	assert.Empty(t, result.Aids)
	assert.True(t, result.Total.IsZero())
	assert.True(t, result.RemainingCost.Equal(ctx.Price))
}
