package filters

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-bexpr"

	"github.com/badtuple/pipelang"
)

// Match lets through the Datums for which a boolean expression holds.
//
// The expression is written in the go-bexpr syntax and is evaluated
// against the following fields:
//
//	kind:   "integer" or "vec"
//	value:  the value of an Integer, 0 for Vecs
//	length: the number of elements of a Vec, 0 for Integers
//
// E.g. `kind == "integer" and value != 0`
type Match struct {
	expr      string
	evaluator *bexpr.Evaluator
}

func NewMatch(expr string) (*Match, error) {
	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, pipelang.InvalidFilterErr("error parsing match expression", map[string]any{
			"expression": expr,
			"error":      err,
		})
	}

	// Every Datum exposes the same fields with the same types, so a
	// sample evaluation catches unknown fields and mistyped literals.
	_, err = evaluator.Evaluate(datumVars(pipelang.Integer(0)))
	if err != nil {
		return nil, pipelang.InvalidFilterErr("match expression cannot be evaluated", map[string]any{
			"expression": expr,
			"error":      err,
		})
	}

	return &Match{
		expr:      expr,
		evaluator: evaluator,
	}, nil
}

func (m *Match) Expression() string {
	return m.expr
}

func (m *Match) Apply(in pipelang.Datum) (pipelang.Datum, bool, error) {
	vars := datumVars(in)
	result, err := m.evaluator.Evaluate(vars)
	if err != nil {
		return nil, false, pipelang.InvalidFilterErr("error evaluating match expression", map[string]any{
			"expression": m.expr,
			"error":      err,
			"input":      stringify(vars),
		})
	}

	if !result {
		return nil, false, nil
	}

	return in, true, nil
}

// Clone shares the compiled evaluator since it holds no state
func (m *Match) Clone() pipelang.Filter {
	return &Match{
		expr:      m.expr,
		evaluator: m.evaluator,
	}
}

func datumVars(d pipelang.Datum) map[string]any {
	vars := map[string]any{
		"kind":   pipelang.KindOf(d),
		"value":  int64(0),
		"length": 0,
	}

	switch v := d.(type) {
	case pipelang.Integer:
		vars["value"] = int64(v)
	case pipelang.Vec:
		vars["length"] = len(v)
	}

	return vars
}

func stringify(obj any) string {
	b, err := json.Marshal(obj)
	if err != nil {
		b = []byte(fmt.Sprintf("%+v", obj))
	}

	return string(b)
}
