/*
Package catalog defines the canonical aid program rule set.

PURPOSE:
  One place declaring every subsidy program the simulator knows about,
  from the national sport voucher down to club-internal sibling
  discounts. Programs are declared broadest territory first; the
  declaration order is the display order of simulation results.

PROGRAM ANATOMY:
  Each program combines:
  - Scope tags (periods, categories) enforced by the central filter
  - A predicate over the context (age range, quotient ceiling,
    geography, social-condition flags, sibling count)
  - An amount resolver (fixed, bracket-based or percentage-of-price)

  Predicates read optional context fields through the fail-closed
  accessors: a family that never declared a sibling count is simply
  not eligible for the sibling discount, no error involved.

ESTIMATE AMOUNTS:
  Percentage-of-price programs carry Estimate: the issuing body may
  enforce a ceiling the engine cannot know, so the amount is an upper
  indication, not a guarantee. The variable-amount works-council fund
  keeps a small fixed placeholder, also flagged Estimate, rather than
  disappearing from results entirely.

USAGE:
  eng := aid.NewEngine(catalog.Default())
  result := eng.Simulate(ctx)

SEE ALSO:
  - brackets.go: The quotient tables used below
  - factory/program.go: Declaring equivalent programs in JSON
*/
package catalog

import (
	"github.com/famiz/aid-engine/aid"
)

// =============================================================================
// GEOGRAPHY
// =============================================================================

// regionDepartments is the department allow-list of the regional
// activity voucher.
var regionDepartments = map[string]bool{
	"01": true, "03": true, "07": true, "15": true, "26": true, "38": true,
	"42": true, "43": true, "63": true, "69": true, "73": true, "74": true,
}

// metroCommunes enumerates the communes of the metropolitan activity
// pass (INSEE codes).
var metroCommunes = map[string]bool{
	"38185": true, // Grenoble
	"38151": true, // Échirolles
	"38169": true, // Fontaine
	"38421": true, // Saint-Martin-d'Hères
	"38516": true, // Seyssinet-Pariset
	"38229": true, // Meylan
}

// deptCode is the department running the departmental programs.
const deptCode = "38"

// =============================================================================
// CANONICAL PROGRAM SET
// =============================================================================

// Default returns the canonical catalog. The catalog is immutable; a
// reduced or amended set for tests is built with aid.NewCatalog
// directly.
func Default() *aid.Catalog {
	return aid.MustCatalog(Programs()...)
}

// Programs returns the canonical program definitions in declaration
// order.
func Programs() []aid.Program {
	return []aid.Program{
		{
			ID:         "pass-sport",
			Name:       "National Sport Voucher",
			Level:      aid.LevelNational,
			Categories: []aid.Category{aid.CategorySport},
			// Period-agnostic on purpose: the voucher funds club
			// registration whether the course runs in term or holidays.
			Eligible: func(c aid.Context) bool {
				if c.Age < 6 || c.Age > 17 {
					return false
				}
				return c.Quotient <= 800 ||
					c.HasFlag(aid.FlagBackToSchoolAllowance) ||
					c.HasFlag(aid.FlagScholarship) ||
					c.HasFlag(aid.FlagDisabilityAllowance)
			},
			Amount: aid.FixedAmount(50),
			Link:   "https://www.sports.gouv.fr/pass-sport",
		},
		{
			ID:         "culture-teens",
			Name:       "National Teen Culture Pass",
			Level:      aid.LevelNational,
			Categories: []aid.Category{aid.CategoryCulture},
			Eligible: func(c aid.Context) bool {
				return c.Age >= 15 && c.Age <= 17
			},
			Amount: aid.FixedAmount(30),
			Link:   "https://pass.culture.fr",
		},
		{
			ID:    "region-activity",
			Name:  "Regional Activity Voucher",
			Level: aid.LevelRegional,
			Eligible: func(c aid.Context) bool {
				return c.Age >= 3 && c.Age <= 17 && regionDepartments[c.Department]
			},
			Amount: aid.BracketAmount(RegionalActivityBrackets),
		},
		{
			ID:         "dept-culture",
			Name:       "Departmental Culture Grant",
			Level:      aid.LevelDepartmental,
			Categories: []aid.Category{aid.CategoryCulture},
			Eligible: func(c aid.Context) bool {
				return c.Department == deptCode && c.Quotient <= 1000
			},
			Amount: aid.AgeBandAmount(
				aid.AgeBand{MinAge: 6, MaxAge: 15, Euros: 20},
				aid.AgeBand{MinAge: 16, MaxAge: 17, Euros: 30},
			),
		},
		{
			ID:         "dept-holiday-camp",
			Name:       "Departmental Holiday Camp Aid",
			Level:      aid.LevelDepartmental,
			Periods:    []aid.Period{aid.PeriodSchoolHoliday},
			Categories: []aid.Category{aid.CategoryVacation},
			Eligible: func(c aid.Context) bool {
				return c.Department == deptCode && c.Age >= 4 && c.Age <= 17
			},
			Amount:   aid.BracketRateOfPrice(DeptHolidayCampRates),
			Estimate: true,
		},
		{
			ID:         "metro-activity",
			Name:       "Metropolitan Activity Pass",
			Level:      aid.LevelMetropolitan,
			Categories: []aid.Category{aid.CategorySport, aid.CategoryCulture},
			Eligible: func(c aid.Context) bool {
				return metroCommunes[c.Commune] && c.Age <= 17
			},
			Amount: aid.CategoryBracketAmount(map[aid.Category]aid.BracketTable{
				aid.CategorySport:   MetroSportBrackets,
				aid.CategoryCulture: MetroCultureBrackets,
			}),
		},
		{
			ID:    "city-priority",
			Name:  "City Priority Neighborhood Grant",
			Level: aid.LevelMunicipal,
			Eligible: func(c aid.Context) bool {
				return c.Commune == "38185" && c.InPriorityNeighborhood()
			},
			Amount: aid.FixedAmount(40),
		},
		{
			ID:         "fund-leisure",
			Name:       "Family Fund Leisure Pass",
			Level:      aid.LevelWelfareFund,
			Periods:    []aid.Period{aid.PeriodSchoolTerm},
			Categories: []aid.Category{aid.CategorySport, aid.CategoryCulture, aid.CategoryLeisure},
			Eligible: func(c aid.Context) bool {
				return c.HasFlag(aid.FlagFamilyFundMember) && c.Age >= 3 && c.Age <= 17
			},
			Amount: aid.BracketAmount(FundLeisureBrackets),
		},
		{
			ID:         "fund-vacation",
			Name:       "Family Fund Holiday Stay Aid",
			Level:      aid.LevelWelfareFund,
			Periods:    []aid.Period{aid.PeriodSchoolHoliday},
			Categories: []aid.Category{aid.CategoryVacation},
			Eligible: func(c aid.Context) bool {
				return c.HasFlag(aid.FlagFamilyFundMember)
			},
			Amount:   aid.BracketRateOfPrice(FundVacationRates),
			Estimate: true,
		},
		{
			ID:    "scholar-secondary",
			Name:  "Upper-Secondary Scholar Grant",
			Level: aid.LevelNational,
			Eligible: func(c aid.Context) bool {
				return c.IsUpperSecondary() && c.HasFlag(aid.FlagScholarship)
			},
			Amount: aid.AgeBandAmount(
				aid.AgeBand{MinAge: 15, MaxAge: 15, Euros: 20},
				aid.AgeBand{MinAge: 16, MaxAge: 17, Euros: 30},
			),
		},
		{
			ID:    "disability-extra",
			Name:  "Disability Inclusion Supplement",
			Level: aid.LevelNational,
			Eligible: func(c aid.Context) bool {
				return c.HasFlag(aid.FlagDisabilityAllowance) && c.Age <= 19
			},
			Amount: aid.FixedAmount(60),
		},
		{
			ID:    "welfare-solidarity",
			Name:  "Welfare Solidarity Tariff",
			Level: aid.LevelWelfareFund,
			Eligible: func(c aid.Context) bool {
				return c.HasFlag(aid.FlagWelfareRecipient)
			},
			Amount:   aid.PercentOfPrice(rate("0.30")),
			Estimate: true,
		},
		{
			ID:    "club-sibling",
			Name:  "Club Sibling Discount",
			Level: aid.LevelClubInternal,
			Eligible: func(c aid.Context) bool {
				n, ok := c.Siblings()
				return ok && n >= 2
			},
			Amount:   aid.PercentOfPrice(rate("0.10")),
			Estimate: true,
		},
		{
			ID:    "works-council-fund",
			Name:  "Works Council Activity Fund",
			Level: aid.LevelWelfareFund,
			Eligible: func(c aid.Context) bool {
				return c.HasFlag(aid.FlagWorksCouncilMember) && c.Quotient <= 900
			},
			// Real fund amounts vary per employer; a small fixed
			// placeholder keeps the program visible in results.
			Amount:   aid.FixedAmount(15),
			Estimate: true,
		},
	}
}
