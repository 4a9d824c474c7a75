/*
brackets.go - Income-quotient bracket tables

PURPOSE:
  Ordered range lookup mapping a continuous value (the household
  quotient) to a discrete tier and a tabulated value. The tabulated
  value is either a whole-euro amount or a percentage rate, depending
  on the program using the table.

SEMANTICS:
  - Brackets are declared in ascending upper-bound order
  - Upper bounds are INCLUSIVE: a quotient exactly on an edge resolves
    to the lower (more generous) tier
  - The final bracket is unbounded: any value above the highest finite
    bound falls into it
  - Negative input clamps to the lowest tier (callers should not pass
    negative quotients; the table stays total if they do)

SEE ALSO:
  - amounts.go: Resolvers built on top of bracket tables
  - catalog/brackets.go: The concrete tables in use
*/
package aid

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BRACKET TABLE
// =============================================================================

// Bracket is one (upper-bound, tier, value) tuple on the quotient axis.
// UpperBound is inclusive and ignored on the final bracket, which is
// treated as unbounded.
type Bracket struct {
	UpperBound int
	Tier       string
	Value      decimal.Decimal
}

// BracketTable is an ordered list of brackets, lowest bound first.
// Tables are static configuration; they must be non-empty and must be
// validated at catalog load time, never per call.
type BracketTable struct {
	Name     string
	Brackets []Bracket
}

// Lookup resolves a quotient to its tier label and tabulated value.
// Pure and total: it always returns a result for a validated table.
func (t BracketTable) Lookup(quotient int) (string, decimal.Decimal) {
	if len(t.Brackets) == 0 {
		return "", decimal.Zero
	}
	if quotient < 0 {
		quotient = 0
	}
	for i, b := range t.Brackets {
		if i == len(t.Brackets)-1 {
			break // final bracket is the unbounded fallback
		}
		if quotient <= b.UpperBound {
			return b.Tier, b.Value
		}
	}
	last := t.Brackets[len(t.Brackets)-1]
	return last.Tier, last.Value
}

// Value is a convenience wrapper returning only the tabulated value.
func (t BracketTable) Value(quotient int) decimal.Decimal {
	_, v := t.Lookup(quotient)
	return v
}

// Validate checks the table's structural invariants: non-empty, every
// value non-negative, and finite upper bounds strictly ascending.
func (t BracketTable) Validate() error {
	if len(t.Brackets) == 0 {
		return &CatalogError{Ref: t.Name, Reason: "bracket table has no brackets"}
	}
	prev := -1
	for i, b := range t.Brackets {
		if b.Value.IsNegative() {
			return &CatalogError{Ref: t.Name, Reason: "bracket value is negative"}
		}
		if i == len(t.Brackets)-1 {
			continue // unbounded
		}
		if b.UpperBound <= prev {
			return &CatalogError{Ref: t.Name, Reason: "bracket bounds not strictly ascending"}
		}
		prev = b.UpperBound
	}
	return nil
}
