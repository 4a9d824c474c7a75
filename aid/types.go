/*
Package aid provides the core financial-aid eligibility and amount engine.

PURPOSE:
  This package contains the domain types and algorithms for determining
  which subsidy programs a family qualifies for, and how much each one
  is worth, for a single activity. The engine is a pure function over a
  context snapshot: no I/O, no clock, no hidden state.

KEY CONCEPTS IN THIS FILE (types.go):
  - Context: An immutable snapshot of family + activity facts
  - Program: An aid program definition (predicate + amount resolver)
  - CalculatedAid: One granted aid line in a simulation result
  - Result: The full simulation outcome (aid lines + totals)

DESIGN PRINCIPLES:
  1. Purity: Simulate is deterministic; same context, same result
  2. Precision: Uses decimal.Decimal for all currency math
  3. Fail-closed: A predicate reading an absent optional field is false
  4. Stability: Result order follows catalog declaration order

USAGE:
  eng := aid.NewEngine(catalog)
  result := eng.Simulate(aid.Context{
      Age:      10,
      Quotient: 500,
      Category: aid.CategorySport,
      Period:   aid.PeriodSchoolTerm,
      Price:    decimal.NewFromInt(200),
  })

SEE ALSO:
  - brackets.go: Income-quotient bracket tables
  - amounts.go:  Amount resolver constructors
  - filter.go:   Period/category scope filter
  - engine.go:   Catalog, evaluator and aggregator
*/
package aid

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMS - Activity category, calendar period, territory level
// =============================================================================

// Category classifies the activity being simulated.
type Category string

const (
	CategorySport    Category = "sport"
	CategoryCulture  Category = "culture"
	CategoryLeisure  Category = "leisure"
	CategoryVacation Category = "vacation_stay"
	CategoryOther    Category = "other"
)

// Categories lists every valid activity category.
var Categories = []Category{
	CategorySport, CategoryCulture, CategoryLeisure, CategoryVacation, CategoryOther,
}

// Period indicates whether the activity runs during school term or holidays.
// Several programs are restricted to one or the other.
type Period string

const (
	PeriodSchoolTerm    Period = "school_term"
	PeriodSchoolHoliday Period = "school_holiday"
)

// Periods lists every valid calendar period.
var Periods = []Period{PeriodSchoolTerm, PeriodSchoolHoliday}

// TerritoryLevel is the administrative scope issuing a program.
type TerritoryLevel string

const (
	LevelNational     TerritoryLevel = "national"
	LevelRegional     TerritoryLevel = "regional"
	LevelDepartmental TerritoryLevel = "departmental"
	LevelMetropolitan TerritoryLevel = "metropolitan"
	LevelMunicipal    TerritoryLevel = "municipal"
	LevelWelfareFund  TerritoryLevel = "welfare_fund"
	LevelClubInternal TerritoryLevel = "club_internal"
)

// TerritoryLevels lists every valid territory level, broadest first.
var TerritoryLevels = []TerritoryLevel{
	LevelNational, LevelRegional, LevelDepartmental, LevelMetropolitan,
	LevelMunicipal, LevelWelfareFund, LevelClubInternal,
}

// =============================================================================
// SOCIAL-CONDITION FLAGS
// =============================================================================

// Flag is an optional boolean social condition attached to a context.
// Absence of a flag means "unknown", which predicates treat as false.
type Flag string

const (
	FlagDisabilityAllowance   Flag = "disability_allowance"
	FlagScholarship           Flag = "scholarship"
	FlagWelfareRecipient      Flag = "welfare_recipient"
	FlagFamilyFundMember      Flag = "family_fund_member"
	FlagWorksCouncilMember    Flag = "works_council_member"
	FlagBackToSchoolAllowance Flag = "back_to_school_allowance"
)

// Flags lists every recognized social-condition flag.
var Flags = []Flag{
	FlagDisabilityAllowance, FlagScholarship, FlagWelfareRecipient,
	FlagFamilyFundMember, FlagWorksCouncilMember, FlagBackToSchoolAllowance,
}

// =============================================================================
// CONTEXT - Immutable input snapshot for one simulation
// =============================================================================

// Context carries everything the engine may look at for one simulation.
// Callers resolve derived values up front: age from a birth date, the
// department from a postal code. The engine never reads "now".
type Context struct {
	// Age of the child in whole years.
	Age int

	// Quotient is the household income-proxy value. Lower means more
	// deprived. It is the primary axis for bracket tables.
	Quotient int

	// Department is the department code ("38", "2A", ...). Commune is
	// the optional commune code; empty means unknown.
	Department string
	Commune    string

	// Activity facts.
	Category Category
	Period   Period
	Price    decimal.Decimal // whole-euro amount, never negative

	// Optional social-condition flags. A nil map means none are known.
	Flags map[Flag]bool

	// Optional fields. Nil means unknown; predicates fail closed.
	SiblingCount         *int
	PriorityNeighborhood *bool
	UpperSecondary       *bool
}

// HasFlag reports whether the flag is present and set. An absent flag
// is false, which is the fail-closed behavior predicates rely on.
func (c Context) HasFlag(f Flag) bool {
	return c.Flags != nil && c.Flags[f]
}

// Siblings returns the sibling count and whether it is known.
func (c Context) Siblings() (int, bool) {
	if c.SiblingCount == nil {
		return 0, false
	}
	return *c.SiblingCount, true
}

// InPriorityNeighborhood reports whether the family is known to live in
// a priority neighborhood. Unknown counts as false.
func (c Context) InPriorityNeighborhood() bool {
	return c.PriorityNeighborhood != nil && *c.PriorityNeighborhood
}

// IsUpperSecondary reports whether the child is known to be an
// upper-secondary student or apprentice. Unknown counts as false.
func (c Context) IsUpperSecondary() bool {
	return c.UpperSecondary != nil && *c.UpperSecondary
}

// =============================================================================
// PROGRAM - One aid program definition
// =============================================================================

// Predicate is a program's eligibility test. It must be pure and must
// treat missing optional context fields as "condition not met".
type Predicate func(Context) bool

// AmountResolver computes a program's value for a context. It must be
// pure and never return a negative amount. A zero result means the
// program grants nothing and is dropped from the simulation.
type AmountResolver func(Context) decimal.Decimal

// Program is a single aid program in the catalog. Programs are static
// configuration: built once at startup and never mutated.
type Program struct {
	ID    string
	Name  string
	Level TerritoryLevel

	// Scope tags enforced by the period/category filter (filter.go).
	// An empty slice means unrestricted on that axis.
	Periods    []Period
	Categories []Category

	// Eligibility beyond period/category scope. Nil means always
	// eligible (scope tags alone decide).
	Eligible Predicate

	// Amount resolves the granted value. Required.
	Amount AmountResolver

	// Link is an optional informational URL for the program.
	Link string

	// Estimate marks amounts that are approximate (typically
	// percentage-of-price with an external cap the engine cannot
	// know). Callers must not present estimate amounts as guaranteed.
	Estimate bool
}

// =============================================================================
// RESULT - Simulation output
// =============================================================================

// CalculatedAid is one granted aid line.
type CalculatedAid struct {
	ProgramID string
	Name      string
	Level     TerritoryLevel
	Amount    decimal.Decimal
	Link      string
	Estimate  bool
}

// Result is the aggregate outcome of one simulation. Aids preserve
// catalog declaration order; the order carries no meaning but is stable
// for display and tests.
type Result struct {
	Aids          []CalculatedAid
	Total         decimal.Decimal
	RemainingCost decimal.Decimal // max(0, price - total)
	PercentSaved  int64           // round(100 * total / price), 0 for a free activity
}
