package internal

import (
	"github.com/google/uuid"

	"github.com/badtuple/pipelang"
)

// Pipeline is a compiled query: the name of the Source it reads
// from and the chain of filters its Datums go through, in order.
type Pipeline struct {
	ID     uuid.UUID
	Source string
	Stages []Stage
}

// Stage is one filter instance of a Pipeline, owned by that Pipeline
type Stage struct {
	Name   string
	Filter pipelang.Filter
}

// FilterRegistry stores the filter prototypes queries can reference
type FilterRegistry interface {
	Register(name string, prototype pipelang.Filter)
	Lookup(name string) (pipelang.Filter, bool)
	Names() []string
}

// SourceRepo stores the pending Datums of each Source
type SourceRepo interface {
	// Create registers an empty Source, it does nothing if it already exists
	Create(name string)
	Exists(name string) bool
	Append(name string, datums ...pipelang.Datum) error
	// Drain removes and returns all the pending Datums of a Source
	Drain(name string) ([]pipelang.Datum, error)
}

// PipelineRepo stores at most one Pipeline per Source
type PipelineRepo interface {
	Save(p Pipeline)
	FindBySource(source string) (Pipeline, bool)
}
