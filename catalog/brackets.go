/*
brackets.go - Concrete quotient bracket tables

PURPOSE:
  The bracket tables referenced by the canonical program set. Upper
  bounds are inclusive; the final bracket of each table is unbounded.
  Values are whole-euro amounts except for the *Rates tables, whose
  values are price fractions (0.40 = 40% of the activity price).

  A zero value in the top bracket is how a table expresses its income
  ceiling: the engine drops zero-amount resolutions, so families above
  the last funded tier simply see nothing from that program.

SEE ALSO:
  - programs.go: Which program uses which table
*/
package catalog

import (
	"github.com/famiz/aid-engine/aid"
	"github.com/shopspring/decimal"
)

func euros(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// AMOUNT TABLES (whole euros)
// =============================================================================

// RegionalActivityBrackets funds any supported activity in the covered
// region, degressively by quotient.
var RegionalActivityBrackets = aid.BracketTable{
	Name: "regional_activity",
	Brackets: []aid.Bracket{
		{UpperBound: 600, Tier: "A", Value: euros(60)},
		{UpperBound: 900, Tier: "B", Value: euros(40)},
		{UpperBound: 1200, Tier: "C", Value: euros(20)},
		{Tier: "D", Value: decimal.Zero},
	},
}

// MetroSportBrackets and MetroCultureBrackets are the metropolitan
// activity-pass tables. The same quotient tier maps to different
// amounts depending on the activity category.
var MetroSportBrackets = aid.BracketTable{
	Name: "metro_sport",
	Brackets: []aid.Bracket{
		{UpperBound: 500, Tier: "1", Value: euros(45)},
		{UpperBound: 800, Tier: "2", Value: euros(30)},
		{UpperBound: 1100, Tier: "3", Value: euros(15)},
		{Tier: "4", Value: decimal.Zero},
	},
}

var MetroCultureBrackets = aid.BracketTable{
	Name: "metro_culture",
	Brackets: []aid.Bracket{
		{UpperBound: 500, Tier: "1", Value: euros(35)},
		{UpperBound: 800, Tier: "2", Value: euros(25)},
		{UpperBound: 1100, Tier: "3", Value: euros(10)},
		{Tier: "4", Value: decimal.Zero},
	},
}

// FundLeisureBrackets is the welfare-fund leisure pass for term-time
// activities. The fund stops at quotient 800.
var FundLeisureBrackets = aid.BracketTable{
	Name: "fund_leisure",
	Brackets: []aid.Bracket{
		{UpperBound: 400, Tier: "1", Value: euros(80)},
		{UpperBound: 600, Tier: "2", Value: euros(55)},
		{UpperBound: 800, Tier: "3", Value: euros(30)},
		{Tier: "4", Value: decimal.Zero},
	},
}

// =============================================================================
// RATE TABLES (fraction of activity price)
// =============================================================================

// FundVacationRates is the welfare-fund holiday-stay coverage rate.
var FundVacationRates = aid.BracketTable{
	Name: "fund_vacation_rates",
	Brackets: []aid.Bracket{
		{UpperBound: 450, Tier: "1", Value: rate("0.60")},
		{UpperBound: 700, Tier: "2", Value: rate("0.40")},
		{UpperBound: 900, Tier: "3", Value: rate("0.20")},
		{Tier: "4", Value: decimal.Zero},
	},
}

// DeptHolidayCampRates is the departmental holiday-camp coverage rate.
var DeptHolidayCampRates = aid.BracketTable{
	Name: "dept_holiday_camp_rates",
	Brackets: []aid.Bracket{
		{UpperBound: 550, Tier: "1", Value: rate("0.50")},
		{UpperBound: 800, Tier: "2", Value: rate("0.30")},
		{Tier: "3", Value: decimal.Zero},
	},
}

// Tables indexes every table by name, for the JSON program factory.
var Tables = map[string]aid.BracketTable{
	RegionalActivityBrackets.Name: RegionalActivityBrackets,
	MetroSportBrackets.Name:       MetroSportBrackets,
	MetroCultureBrackets.Name:     MetroCultureBrackets,
	FundLeisureBrackets.Name:      FundLeisureBrackets,
	FundVacationRates.Name:        FundVacationRates,
	DeptHolidayCampRates.Name:     DeptHolidayCampRates,
}
