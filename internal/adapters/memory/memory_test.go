package memory

import (
	"testing"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/filters"
	"github.com/badtuple/pipelang/internal"
	tt "github.com/badtuple/pipelang/internal/testtools"
)

func TestSourceRepo(t *testing.T) {
	t.Run("should drain datums in push order", func(t *testing.T) {
		repo := NewSourceRepo()
		repo.Create("sensor")

		tt.AssertNoErr(t, repo.Append("sensor", pipelang.Integer(1), pipelang.Integer(2)))
		tt.AssertNoErr(t, repo.Append("sensor", pipelang.Integer(3)))

		datums, err := repo.Drain("sensor")
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, datums, []pipelang.Datum{
			pipelang.Integer(1), pipelang.Integer(2), pipelang.Integer(3),
		})

		datums, err = repo.Drain("sensor")
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, len(datums), 0)
	})

	t.Run("create should not clear existing sources", func(t *testing.T) {
		repo := NewSourceRepo()
		repo.Create("sensor")
		tt.AssertNoErr(t, repo.Append("sensor", pipelang.Integer(1)))
		repo.Create("sensor")

		datums, err := repo.Drain("sensor")
		tt.AssertNoErr(t, err)
		tt.AssertEqual(t, datums, []pipelang.Datum{pipelang.Integer(1)})
	})

	t.Run("should reject unknown sources", func(t *testing.T) {
		repo := NewSourceRepo()

		err := repo.Append("nope", pipelang.Integer(1))
		tt.AssertErrCode(t, err, pipelang.CannotPushToUnregisteredSource)

		_, err = repo.Drain("nope")
		tt.AssertErrCode(t, err, pipelang.CannotReadFromUnregisteredSource)

		tt.AssertEqual(t, repo.Exists("nope"), false)
	})
}

func TestPipelineRepo(t *testing.T) {
	repo := NewPipelineRepo()
	repo.Save(internal.Pipeline{Source: "sensor"})
	repo.Save(internal.Pipeline{Source: "sensor", Stages: []internal.Stage{
		{Name: "gt", Filter: filters.NewGreaterThan(1)},
	}})

	p, found := repo.FindBySource("sensor")
	tt.AssertEqual(t, found, true)
	tt.AssertEqual(t, len(p.Stages), 1)

	_, found = repo.FindBySource("other")
	tt.AssertEqual(t, found, false)
}

func TestFilterRegistry(t *testing.T) {
	registry := NewFilterRegistry()
	registry.Register("gt", filters.NewGreaterThan(1))
	registry.Register("gt", filters.NewGreaterThan(5))
	registry.Register("a_first", filters.NewGreaterThan(0))

	f, found := registry.Lookup("gt")
	tt.AssertEqual(t, found, true)
	tt.AssertEqual(t, f, pipelang.Filter(filters.NewGreaterThan(5)))

	tt.AssertEqual(t, registry.Names(), []string{"a_first", "gt"})
}
