// Package memory implements the interpreter stores as plain maps.
//
// None of these types are safe for concurrent use, the host is
// expected to serialize access to a single interpreter.
package memory

import (
	"sort"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/internal"
)

var (
	_ internal.FilterRegistry = FilterRegistry{}
	_ internal.SourceRepo     = SourceRepo{}
	_ internal.PipelineRepo   = PipelineRepo{}
)

type FilterRegistry map[string]pipelang.Filter

func NewFilterRegistry() FilterRegistry {
	return FilterRegistry{}
}

// Register adds a prototype, replacing any other with the same name
func (r FilterRegistry) Register(name string, prototype pipelang.Filter) {
	r[name] = prototype
}

func (r FilterRegistry) Lookup(name string) (pipelang.Filter, bool) {
	f, found := r[name]
	return f, found
}

func (r FilterRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type SourceRepo map[string][]pipelang.Datum

func NewSourceRepo() SourceRepo {
	return SourceRepo{}
}

func (s SourceRepo) Create(name string) {
	if _, exists := s[name]; exists {
		return
	}
	s[name] = nil
}

func (s SourceRepo) Exists(name string) bool {
	_, exists := s[name]
	return exists
}

func (s SourceRepo) Append(name string, datums ...pipelang.Datum) error {
	queue, exists := s[name]
	if !exists {
		return pipelang.UnregisteredSourceErr(pipelang.CannotPushToUnregisteredSource, name)
	}

	s[name] = append(queue, datums...)
	return nil
}

func (s SourceRepo) Drain(name string) ([]pipelang.Datum, error) {
	queue, exists := s[name]
	if !exists {
		return nil, pipelang.UnregisteredSourceErr(pipelang.CannotReadFromUnregisteredSource, name)
	}

	s[name] = nil
	return queue, nil
}

type PipelineRepo map[string]internal.Pipeline

func NewPipelineRepo() PipelineRepo {
	return PipelineRepo{}
}

// Save stores p under its source name, replacing the previous Pipeline
func (r PipelineRepo) Save(p internal.Pipeline) {
	r[p.Source] = p
}

func (r PipelineRepo) FindBySource(source string) (internal.Pipeline, bool) {
	p, found := r[source]
	return p, found
}
