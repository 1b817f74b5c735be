package pipelang

// Filter represents a named transformation that a query can
// reference by name, e.g. the `batch` in `@sensor | batch`.
//
// Apply is called once per Datum that reaches the filter. It returns
// the Datum to pass on with emit set to true, or emit set to false
// when the Datum should be dropped. Filters may keep private state
// between calls, e.g. an aggregation buffer.
//
// Clone must return an independent copy of the filter, so that the
// prototypes kept by the registry never share state with the
// instances bound to each compiled Pipeline.
type Filter interface {
	Apply(in Datum) (out Datum, emit bool, err error)
	Clone() Filter
}
