/*
errors.go - Error types for the aid engine

PURPOSE:
  All error types in one place. The engine itself is total for
  semantically valid contexts: a simulation never fails, it just
  returns an empty aid list. Errors exist at two boundaries only:

  1. Catalog load time - malformed program configuration fails fast
     (a configuration error, never a per-call one)
  2. Request boundary - ValidateContext rejects structurally invalid
     input before the engine runs

  An ineligible program is normal control flow, not an error, and must
  never surface as one.

USAGE:
  if err := aid.ValidateContext(ctx); err != nil {
      var verr *aid.ContextError
      if errors.As(err, &verr) {
          // verr.Fields lists the offending fields
      }
  }

SEE ALSO:
  - engine.go: NewCatalog fails fast with CatalogError
*/
package aid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidContext is returned when a context is structurally
	// invalid (negative age or price, unknown category or period).
	ErrInvalidContext = errors.New("invalid simulation context")

	// ErrInvalidCatalog is returned when a program catalog fails its
	// load-time validation.
	ErrInvalidCatalog = errors.New("invalid program catalog")

	// ErrProgramNotFound is returned when a program ID is not in the
	// catalog.
	ErrProgramNotFound = errors.New("program not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FieldError names one invalid context field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ContextError reports every structurally invalid field of a context.
type ContextError struct {
	Fields []FieldError
}

func (e *ContextError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid simulation context: " + strings.Join(parts, "; ")
}

func (e *ContextError) Unwrap() error { return ErrInvalidContext }

// CatalogError reports a malformed program or bracket table.
type CatalogError struct {
	Ref    string // program ID or table name
	Reason string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("invalid program catalog: %s: %s", e.Ref, e.Reason)
}

func (e *CatalogError) Unwrap() error { return ErrInvalidCatalog }

// =============================================================================
// CONTEXT VALIDATION
// =============================================================================

// ValidateContext checks a context for structural validity. It is the
// eager boundary check recommended before calling Simulate; the engine
// itself does not re-validate. Eligibility misses are NOT validation
// failures: a context that qualifies for nothing is perfectly valid.
func ValidateContext(c Context) error {
	var fields []FieldError

	if c.Age < 0 {
		fields = append(fields, FieldError{Field: "age", Reason: "must not be negative"})
	}
	if c.Price.IsNegative() {
		fields = append(fields, FieldError{Field: "price", Reason: "must not be negative"})
	}
	if !validCategory(c.Category) {
		fields = append(fields, FieldError{Field: "category", Reason: fmt.Sprintf("unknown category %q", c.Category)})
	}
	if !validPeriod(c.Period) {
		fields = append(fields, FieldError{Field: "period", Reason: fmt.Sprintf("unknown period %q", c.Period)})
	}
	// Map iteration order is random; sort the keys so the error text
	// is stable across runs.
	flagKeys := make([]Flag, 0, len(c.Flags))
	for f := range c.Flags {
		flagKeys = append(flagKeys, f)
	}
	sort.Slice(flagKeys, func(i, j int) bool { return flagKeys[i] < flagKeys[j] })
	for _, f := range flagKeys {
		if !validFlag(f) {
			fields = append(fields, FieldError{Field: "flags", Reason: fmt.Sprintf("unknown flag %q", f)})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ContextError{Fields: fields}
}

func validCategory(c Category) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func validPeriod(p Period) bool {
	for _, v := range Periods {
		if p == v {
			return true
		}
	}
	return false
}

func validFlag(f Flag) bool {
	for _, v := range Flags {
		if f == v {
			return true
		}
	}
	return false
}

// validLevel is used by catalog validation.
func validLevel(l TerritoryLevel) bool {
	for _, v := range TerritoryLevels {
		if l == v {
			return true
		}
	}
	return false
}
