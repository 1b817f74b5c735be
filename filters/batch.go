package filters

import (
	"github.com/badtuple/pipelang"
)

// Batch groups every n Datums it receives into a single Vec.
//
// Datums are kept in arrival order and a Vec is only emitted once
// the buffer is full. There is no flush: a partial batch stays in
// the instance until enough Datums arrive on a later call.
type Batch struct {
	n          int
	inProgress []pipelang.Datum
}

func NewBatch(n int) (*Batch, error) {
	if n < 1 {
		return nil, pipelang.InvalidFilterErr("batch size must be at least 1", map[string]any{
			"size": n,
		})
	}

	return &Batch{
		n: n,
	}, nil
}

func (b *Batch) Size() int {
	return b.n
}

// Pending returns how many Datums are waiting for the batch to fill up
func (b *Batch) Pending() int {
	return len(b.inProgress)
}

func (b *Batch) Apply(in pipelang.Datum) (pipelang.Datum, bool, error) {
	b.inProgress = append(b.inProgress, in)

	if len(b.inProgress) < b.n {
		return nil, false, nil
	}

	out := pipelang.Vec(b.inProgress)
	b.inProgress = nil
	return out, true, nil
}

func (b *Batch) Clone() pipelang.Filter {
	return &Batch{
		n:          b.n,
		inProgress: append([]pipelang.Datum(nil), b.inProgress...),
	}
}
