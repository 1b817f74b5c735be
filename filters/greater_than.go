package filters

import (
	"github.com/badtuple/pipelang"
)

// GreaterThan only lets Integers bigger than Threshold through.
type GreaterThan struct {
	Threshold int64
}

func NewGreaterThan(threshold int64) *GreaterThan {
	return &GreaterThan{
		Threshold: threshold,
	}
}

func (g *GreaterThan) Apply(in pipelang.Datum) (pipelang.Datum, bool, error) {
	i, ok := in.(pipelang.Integer)
	if !ok {
		return nil, false, pipelang.DataTypeErr("greater_than", in)
	}

	if int64(i) <= g.Threshold {
		return nil, false, nil
	}

	return in, true, nil
}

func (g *GreaterThan) Clone() pipelang.Filter {
	return &GreaterThan{
		Threshold: g.Threshold,
	}
}
