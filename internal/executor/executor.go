package executor

import (
	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/internal"
)

// Report describes the outcome of a Run
type Report struct {
	// Output holds the Datums that made it through every filter,
	// in the same relative order as their inputs
	Output []pipelang.Datum

	// Suppressed counts the inputs dropped by some filter
	Suppressed int
}

// Run feeds each input through the filters of the Pipeline, in order.
//
// An input dropped by a filter is never seen by the filters after it.
//
// If any filter fails the whole Run is aborted and no output is
// returned, the returned error is a pipelang.FilterFailed wrapping
// the error of the filter. State changed by the filters before the
// failure is kept.
func Run(p internal.Pipeline, inputs []pipelang.Datum) (Report, error) {
	output := []pipelang.Datum{}
	suppressed := 0

	for i, input := range inputs {
		datum, emit, err := runOne(p.Stages, input)
		if err != nil {
			return Report{}, pipelang.FilterFailedErr(err.cause, map[string]any{
				"source": p.Source,
				"filter": err.stage,
				"index":  i,
				"datum":  input.String(),
			})
		}

		if !emit {
			suppressed++
			continue
		}

		output = append(output, datum)
	}

	return Report{
		Output:     output,
		Suppressed: suppressed,
	}, nil
}

type stageErr struct {
	stage string
	cause error
}

func runOne(stages []internal.Stage, datum pipelang.Datum) (_ pipelang.Datum, emit bool, _ *stageErr) {
	for _, stage := range stages {
		var err error
		datum, emit, err = stage.Filter.Apply(datum)
		if err != nil {
			return nil, false, &stageErr{
				stage: stage.Name,
				cause: err,
			}
		}

		if !emit {
			return nil, false, nil
		}
	}

	return datum, true, nil
}
