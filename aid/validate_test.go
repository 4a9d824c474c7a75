package aid_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/famiz/aid-engine/aid"
)

func TestValidateContext_AcceptsValidContext(t *testing.T) {
	if err := aid.ValidateContext(baseContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateContext_RejectsStructurallyInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*aid.Context)
		field  string
	}{
		{"negative age", func(c *aid.Context) { c.Age = -1 }, "age"},
		{"negative price", func(c *aid.Context) { c.Price = decimal.NewFromInt(-10) }, "price"},
		{"unknown category", func(c *aid.Context) { c.Category = "chess-boxing" }, "category"},
		{"unknown period", func(c *aid.Context) { c.Period = "weekend" }, "period"},
		{"unknown flag", func(c *aid.Context) { c.Flags = map[aid.Flag]bool{"vip": true} }, "flags"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := baseContext()
			tc.mutate(&ctx)

			err := aid.ValidateContext(ctx)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, aid.ErrInvalidContext) {
				t.Errorf("expected ErrInvalidContext, got %v", err)
			}

			var cerr *aid.ContextError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ContextError, got %T", err)
			}
			found := false
			for _, f := range cerr.Fields {
				if f.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field %q in %+v", tc.field, cerr.Fields)
			}
		})
	}
}

func TestValidateContext_CollectsAllFields(t *testing.T) {
	err := aid.ValidateContext(aid.Context{
		Age:      -1,
		Price:    decimal.NewFromInt(-1),
		Category: "bad",
		Period:   "bad",
	})
	var cerr *aid.ContextError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ContextError, got %T", err)
	}
	if len(cerr.Fields) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(cerr.Fields), cerr.Fields)
	}
}

func TestValidateContext_UnknownFlagOrderIsStable(t *testing.T) {
	// Several unknown flags must report in the same order on every
	// call, so the error text stays comparable across runs.
	ctx := baseContext()
	ctx.Flags = map[aid.Flag]bool{"zeta": true, "alpha": true, "mid": true}

	want := aid.ValidateContext(ctx).Error()
	for i := 0; i < 10; i++ {
		if got := aid.ValidateContext(ctx).Error(); got != want {
			t.Fatalf("error text changed between calls:\n%s\nvs\n%s", want, got)
		}
	}

	var cerr *aid.ContextError
	if !errors.As(aid.ValidateContext(ctx), &cerr) {
		t.Fatal("expected *ContextError")
	}
	reasons := make([]string, len(cerr.Fields))
	for i, f := range cerr.Fields {
		reasons[i] = f.Reason
	}
	wantReasons := []string{`unknown flag "alpha"`, `unknown flag "mid"`, `unknown flag "zeta"`}
	if len(reasons) != len(wantReasons) {
		t.Fatalf("expected %d field errors, got %d: %v", len(wantReasons), len(reasons), reasons)
	}
	for i := range wantReasons {
		if reasons[i] != wantReasons[i] {
			t.Errorf("field %d: expected %q, got %q", i, wantReasons[i], reasons[i])
		}
	}
}

func TestContextAccessors_FailClosed(t *testing.T) {
	var ctx aid.Context

	if ctx.HasFlag(aid.FlagScholarship) {
		t.Error("absent flag must read false")
	}
	if _, ok := ctx.Siblings(); ok {
		t.Error("absent sibling count must be unknown")
	}
	if ctx.InPriorityNeighborhood() {
		t.Error("absent priority flag must read false")
	}
	if ctx.IsUpperSecondary() {
		t.Error("absent upper-secondary flag must read false")
	}

	ctx.Flags = map[aid.Flag]bool{aid.FlagScholarship: true}
	ctx.SiblingCount = intPtr(2)
	ctx.PriorityNeighborhood = boolPtr(true)
	ctx.UpperSecondary = boolPtr(true)

	if !ctx.HasFlag(aid.FlagScholarship) {
		t.Error("set flag must read true")
	}
	if n, ok := ctx.Siblings(); !ok || n != 2 {
		t.Errorf("expected siblings (2, true), got (%d, %v)", n, ok)
	}
	if !ctx.InPriorityNeighborhood() || !ctx.IsUpperSecondary() {
		t.Error("set optional booleans must read true")
	}
}
