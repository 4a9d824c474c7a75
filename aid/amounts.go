/*
amounts.go - Amount resolver constructors

PURPOSE:
  The three resolver shapes every program amount reduces to:

  Fixed:    A constant whole-euro value, possibly selected by age band
            ("20 at age 15, 30 at ages 16-17").
  Bracket:  lookup(table, quotient), optionally differentiated by
            activity category (same tier, different euro amounts for
            sport vs culture).
  Percent:  round(price * rate), with the rate either constant or
            itself selected by quotient bracket. Percent amounts must
            be flagged Estimate on the program: the engine does not
            know the external caps the issuing body enforces.

ROUNDING:
  Fixed and bracket amounts are whole-euro integers by construction.
  Percent amounts round half-up to the nearest whole euro. All prices
  entering the engine are already whole-euro decimals; cent-precision
  conversion happens once, at the storage boundary, never here.

SEE ALSO:
  - brackets.go: The lookup these resolvers delegate to
  - catalog/programs.go: Programs wiring resolvers to tables
*/
package aid

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FIXED AMOUNTS
// =============================================================================

// FixedAmount returns a resolver granting a constant whole-euro value.
func FixedAmount(euros int64) AmountResolver {
	v := decimal.NewFromInt(euros)
	return func(Context) decimal.Decimal { return v }
}

// AgeBand maps an inclusive age range to a whole-euro value.
type AgeBand struct {
	MinAge int
	MaxAge int
	Euros  int64
}

// AgeBandAmount returns a resolver selecting a fixed value by age band.
// An age outside every band resolves to zero, which excludes the
// program from the result.
func AgeBandAmount(bands ...AgeBand) AmountResolver {
	return func(c Context) decimal.Decimal {
		for _, b := range bands {
			if c.Age >= b.MinAge && c.Age <= b.MaxAge {
				return decimal.NewFromInt(b.Euros)
			}
		}
		return decimal.Zero
	}
}

// =============================================================================
// BRACKET AMOUNTS
// =============================================================================

// BracketAmount returns a resolver granting the table value for the
// context's quotient tier.
func BracketAmount(table BracketTable) AmountResolver {
	return func(c Context) decimal.Decimal {
		return table.Value(c.Quotient)
	}
}

// CategoryBracketAmount returns a resolver that picks a bracket table
// by activity category. A category with no table resolves to zero.
func CategoryBracketAmount(tables map[Category]BracketTable) AmountResolver {
	return func(c Context) decimal.Decimal {
		table, ok := tables[c.Category]
		if !ok {
			return decimal.Zero
		}
		return table.Value(c.Quotient)
	}
}

// =============================================================================
// PERCENTAGE AMOUNTS
// =============================================================================

// PercentOfPrice returns a resolver granting rate * price, rounded
// half-up to the whole euro. Programs using it must set Estimate.
func PercentOfPrice(rate decimal.Decimal) AmountResolver {
	return func(c Context) decimal.Decimal {
		return c.Price.Mul(rate).Round(0)
	}
}

// BracketRateOfPrice returns a resolver whose rate comes from a
// quotient bracket table (table values are rates, e.g. 0.40), applied
// to the activity price and rounded half-up to the whole euro.
// Programs using it must set Estimate.
func BracketRateOfPrice(table BracketTable) AmountResolver {
	return func(c Context) decimal.Decimal {
		rate := table.Value(c.Quotient)
		return c.Price.Mul(rate).Round(0)
	}
}
