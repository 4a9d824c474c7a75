/*
engine.go - Catalog, evaluator and aggregator

PURPOSE:
  The simulation pipeline:

    Context -> evaluator (catalog + scope filter) -> amounts -> aggregate

  One synchronous pass over the catalog in declaration order. Each
  program is kept when its scope tags admit the context AND its own
  predicate holds AND its resolved amount is positive. The aggregator
  then sums the kept amounts and derives the remaining cost and the
  percentage saved.

CATALOG:
  The catalog is explicit, injected, immutable configuration. It is
  validated once at construction (NewCatalog fails fast on malformed
  programs) and shared freely across goroutines afterwards: Simulate
  never mutates anything.

STACKING:
  Amounts stack across territory levels without deduplication: a
  national voucher, a municipal bracket discount and a club sibling
  discount may all appear together, and their sum may exceed the
  activity price. Only the displayed remaining cost is floored at zero.

SEE ALSO:
  - types.go:   Program and Result definitions
  - filter.go:  The period/category scope filter
  - errors.go:  Load-time and boundary validation
*/
package aid

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG - Immutable program rule set
// =============================================================================

// Catalog is a validated, immutable set of aid programs. Build one at
// process start with NewCatalog and share it; it is safe for
// concurrent use.
type Catalog struct {
	programs []Program
	byID     map[string]int
}

// NewCatalog validates the programs and returns a catalog preserving
// declaration order. Validation failures are configuration errors and
// fail fast here, never per simulation.
func NewCatalog(programs ...Program) (*Catalog, error) {
	byID := make(map[string]int, len(programs))
	for i, p := range programs {
		if p.ID == "" {
			return nil, &CatalogError{Ref: p.Name, Reason: "program has no ID"}
		}
		if _, dup := byID[p.ID]; dup {
			return nil, &CatalogError{Ref: p.ID, Reason: "duplicate program ID"}
		}
		if p.Name == "" {
			return nil, &CatalogError{Ref: p.ID, Reason: "program has no name"}
		}
		if !validLevel(p.Level) {
			return nil, &CatalogError{Ref: p.ID, Reason: "unknown territory level"}
		}
		if p.Amount == nil {
			return nil, &CatalogError{Ref: p.ID, Reason: "program has no amount resolver"}
		}
		for _, per := range p.Periods {
			if !validPeriod(per) {
				return nil, &CatalogError{Ref: p.ID, Reason: "unknown period tag"}
			}
		}
		for _, cat := range p.Categories {
			if !validCategory(cat) {
				return nil, &CatalogError{Ref: p.ID, Reason: "unknown category tag"}
			}
		}
		byID[p.ID] = i
	}
	return &Catalog{programs: programs, byID: byID}, nil
}

// MustCatalog is NewCatalog for statically known catalogs; it panics
// on a validation error. Intended for package-level defaults and tests.
func MustCatalog(programs ...Program) *Catalog {
	c, err := NewCatalog(programs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Programs returns the programs in declaration order. Callers must not
// mutate the returned slice.
func (c *Catalog) Programs() []Program { return c.programs }

// Get returns the program with the given ID.
func (c *Catalog) Get(id string) (Program, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Program{}, false
	}
	return c.programs[i], true
}

// Len returns the number of programs.
func (c *Catalog) Len() int { return len(c.programs) }

// =============================================================================
// ENGINE - Evaluator
// =============================================================================

// Engine evaluates simulation contexts against a catalog.
type Engine struct {
	catalog *Catalog
}

// NewEngine wraps a validated catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Simulate runs the full pipeline for one context. It is pure and
// total: a context qualifying for nothing yields an empty aid list
// with total zero, never an error. Callers wanting eager input checks
// run ValidateContext first.
func (e *Engine) Simulate(c Context) Result {
	var aids []CalculatedAid
	for _, p := range e.catalog.programs {
		if !InScope(p, c) {
			continue
		}
		if p.Eligible != nil && !p.Eligible(c) {
			continue
		}
		amount := p.Amount(c)
		if !amount.IsPositive() {
			// Zero or negative resolution means the program grants
			// nothing for this context; no zero-value aid lines.
			continue
		}
		aids = append(aids, CalculatedAid{
			ProgramID: p.ID,
			Name:      p.Name,
			Level:     p.Level,
			Amount:    amount,
			Link:      p.Link,
			Estimate:  p.Estimate,
		})
	}
	return Aggregate(aids, c.Price)
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregate combines aid lines into a result. The total is NOT capped
// to the price; only the remaining cost is floored at zero. A free
// activity reports zero percent saved regardless of the total.
func Aggregate(aids []CalculatedAid, price decimal.Decimal) Result {
	if aids == nil {
		aids = []CalculatedAid{}
	}
	total := decimal.Zero
	for _, a := range aids {
		total = total.Add(a.Amount)
	}

	remaining := price.Sub(total)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	var percent int64
	if price.IsPositive() {
		percent = total.Mul(decimal.NewFromInt(100)).Div(price).Round(0).IntPart()
	}

	return Result{
		Aids:          aids,
		Total:         total,
		RemainingCost: remaining,
		PercentSaved:  percent,
	}
}
