package executor

import (
	"strconv"
	"testing"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/filters"
	"github.com/badtuple/pipelang/internal"
	tt "github.com/badtuple/pipelang/internal/testtools"
)

func TestRun(t *testing.T) {
	t.Run("should return the input unchanged when there are no filters", func(t *testing.T) {
		report, err := Run(newPipeline(t), ints(4, 1, 3))
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, report.Output, ints(4, 1, 3))
		tt.AssertEqual(t, report.Suppressed, 0)
	})

	t.Run("should apply filters in order", func(t *testing.T) {
		p := newPipeline(t, double{}, double{})

		report, err := Run(p, ints(4))
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, report.Output, ints(16))
	})

	t.Run("should drop suppressed datums", func(t *testing.T) {
		p := newPipeline(t, filters.NewGreaterThan(12))

		report, err := Run(p, ints(3, 42))
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, report.Output, ints(42))
		tt.AssertEqual(t, report.Suppressed, 1)
	})

	t.Run("later filters should not see suppressed datums", func(t *testing.T) {
		spy := &recorder{}
		p := newPipeline(t, filters.NewGreaterThan(2), spy)

		_, err := Run(p, ints(1, 2, 3, 4))
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, spy.seen, ints(3, 4))
	})

	t.Run("should handle aggregate filters", func(t *testing.T) {
		tests := []struct {
			size     int
			expected []pipelang.Datum
		}{
			{
				size:     2,
				expected: []pipelang.Datum{pipelang.Vec(ints(1, 2))},
			},
			{
				size: 1,
				expected: []pipelang.Datum{
					pipelang.Vec(ints(1)),
					pipelang.Vec(ints(2)),
					pipelang.Vec(ints(3)),
				},
			},
			{
				size:     5,
				expected: []pipelang.Datum{},
			},
		}

		for _, test := range tests {
			b, err := filters.NewBatch(test.size)
			tt.AssertNoErr(t, err)

			report, err := Run(newPipeline(t, b), ints(1, 2, 3))
			tt.AssertNoErr(t, err)
			tt.AssertEqual(t, report.Output, test.expected)
		}
	})

	t.Run("should feed filters after an aggregation with its output", func(t *testing.T) {
		b, err := filters.NewBatch(2)
		tt.AssertNoErr(t, err)
		spy := &recorder{}

		report, err := Run(newPipeline(t, b, spy), ints(1, 2, 3, 4))
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, spy.seen, []pipelang.Datum{
			pipelang.Vec(ints(1, 2)),
			pipelang.Vec(ints(3, 4)),
		})
		tt.AssertEqual(t, report.Suppressed, 2)
	})

	t.Run("should abort the run when a filter fails", func(t *testing.T) {
		b, err := filters.NewBatch(2)
		tt.AssertNoErr(t, err)

		// The batch turns integers into vecs which greater_than can't handle:
		p := newPipeline(t, b, filters.NewGreaterThan(0))

		report, err := Run(p, ints(1, 2, 3))
		tt.AssertErrCode(t, err, pipelang.FilterFailed)
		tt.AssertErrCode(t, err, pipelang.FilterCannotProcessDataType)
		tt.AssertErrContains(t, err, "filter = stage1", "index = 1", "source = sensor")
		tt.AssertEqual(t, len(report.Output), 0)
	})
}

func newPipeline(t *testing.T, fs ...pipelang.Filter) internal.Pipeline {
	stages := []internal.Stage{}
	for i, f := range fs {
		stages = append(stages, internal.Stage{
			Name:   "stage" + strconv.Itoa(i),
			Filter: f,
		})
	}

	return internal.Pipeline{
		Source: "sensor",
		Stages: stages,
	}
}

type double struct{}

func (double) Apply(in pipelang.Datum) (pipelang.Datum, bool, error) {
	i, ok := in.(pipelang.Integer)
	if !ok {
		return nil, false, pipelang.DataTypeErr("double", in)
	}
	return i * 2, true, nil
}

func (d double) Clone() pipelang.Filter {
	return d
}

// recorder emits everything it receives and keeps a copy
type recorder struct {
	seen []pipelang.Datum
}

func (r *recorder) Apply(in pipelang.Datum) (pipelang.Datum, bool, error) {
	r.seen = append(r.seen, in)
	return in, true, nil
}

func (r *recorder) Clone() pipelang.Filter {
	return &recorder{}
}

func ints(values ...int64) []pipelang.Datum {
	out := make([]pipelang.Datum, 0, len(values))
	for _, v := range values {
		out = append(out, pipelang.Integer(v))
	}
	return out
}
