package filtertest

import (
	"testing"

	"github.com/badtuple/pipelang"
	tt "github.com/badtuple/pipelang/internal/testtools"
)

// Test runs the checks every Filter implementation must pass.
//
// The factory must return a fresh prototype on each call,
// and inputs should contain Datums the filter accepts.
func Test(t *testing.T, factory func() pipelang.Filter, inputs []pipelang.Datum) {
	t.Run("clone returns a new instance", func(t *testing.T) {
		prototype := factory()
		clone := prototype.Clone()

		tt.AssertEqual(t, clone != prototype, true)
	})

	t.Run("clones evolve independently", func(t *testing.T) {
		prototype := factory()
		a := prototype.Clone()
		b := prototype.Clone()

		// Feed `a` only, so any leak between instances
		// would change what `b` produces below:
		for _, d := range inputs {
			_, _, err := a.Apply(d)
			tt.AssertNoErr(t, err)
		}

		expected := applyAll(t, factory(), inputs)
		got := applyAll(t, b, inputs)
		tt.AssertEqual(t, got, expected)
	})

	t.Run("clone keeps the configuration of the prototype", func(t *testing.T) {
		expected := applyAll(t, factory(), inputs)
		got := applyAll(t, factory().Clone(), inputs)
		tt.AssertEqual(t, got, expected)
	})

	t.Run("prototype is not changed by its clones", func(t *testing.T) {
		prototype := factory()
		clone := prototype.Clone()
		applyAll(t, clone, inputs)

		expected := applyAll(t, factory(), inputs)
		got := applyAll(t, prototype, inputs)
		tt.AssertEqual(t, got, expected)
	})
}

func applyAll(t *testing.T, f pipelang.Filter, inputs []pipelang.Datum) []pipelang.Datum {
	out := []pipelang.Datum{}
	for _, d := range inputs {
		result, emit, err := f.Apply(d)
		tt.AssertNoErr(t, err)
		if emit {
			out = append(out, result)
		}
	}
	return out
}
