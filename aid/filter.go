/*
filter.go - Period/category scope filter

PURPOSE:
  A program's period and category tags are enforced here, centrally,
  rather than folded into each program's predicate. The filter is ANDed
  with the predicate by the evaluator, which keeps scoping auditable in
  one place and independently testable.

RULES:
  - Holiday-only programs never match a school-term context, and vice
    versa
  - A category allow-list excludes any context whose category is not a
    member
  - No tags means no restriction: "floor" programs like a national
    sport voucher apply to both periods

SEE ALSO:
  - engine.go: Where the filter is applied
*/
package aid

// InScope reports whether a program's period and category tags admit
// the context. It deliberately ignores the program's own predicate.
func InScope(p Program, c Context) bool {
	if len(p.Periods) > 0 && !containsPeriod(p.Periods, c.Period) {
		return false
	}
	if len(p.Categories) > 0 && !containsCategory(p.Categories, c.Category) {
		return false
	}
	return true
}

func containsPeriod(ps []Period, p Period) bool {
	for _, v := range ps {
		if v == p {
			return true
		}
	}
	return false
}

func containsCategory(cs []Category, c Category) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}
