// Package interpreter is the embedding API of pipelang.
//
// An Interpreter owns a registry of filter prototypes, a set of named
// sources and at most one compiled pipeline per source:
//
//	interp := interpreter.New()
//	interp.RegisterFilter("gt10", filters.NewGreaterThan(10))
//
//	_, err := interp.CompileAndRegister("@sensor | gt10")
//	err = interp.Push("sensor", pipelang.Integer(4), pipelang.Integer(42))
//
//	out, err := interp.Process("sensor") // [42]
//
// An Interpreter is not safe for concurrent use, and separate
// Interpreters never share any state.
package interpreter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/config"
	"github.com/badtuple/pipelang/internal"
	"github.com/badtuple/pipelang/internal/adapters/memory"
	"github.com/badtuple/pipelang/internal/executor"
	"github.com/badtuple/pipelang/internal/logger"
	"github.com/badtuple/pipelang/internal/metrics"
	"github.com/badtuple/pipelang/internal/query"
)

type Interpreter struct {
	filters   internal.FilterRegistry
	sources   internal.SourceRepo
	pipelines internal.PipelineRepo

	log     zerolog.Logger
	metrics *metrics.Collector
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithLogger sets the logger used by the Interpreter, by default nothing is logged
func WithLogger(log zerolog.Logger) Option {
	return func(i *Interpreter) {
		i.log = log
	}
}

// WithMetricsNamespace sets the prefix of the metrics exposed by Gatherer
func WithMetricsNamespace(namespace string) Option {
	return func(i *Interpreter) {
		i.metrics = metrics.New(namespace)
	}
}

func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		filters:   memory.NewFilterRegistry(),
		sources:   memory.NewSourceRepo(),
		pipelines: memory.NewPipelineRepo(),
		log:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.metrics == nil {
		i.metrics = metrics.New(metrics.DefaultNamespace)
	}
	i.log = i.log.With().Str(logger.FieldComponent, "interpreter").Logger()

	return i
}

// RegisterFilter makes a filter prototype available to queries under name,
// replacing any prototype previously registered with the same name.
//
// Pipelines compiled before the call keep the filters they were built with.
func (i *Interpreter) RegisterFilter(name string, prototype pipelang.Filter) {
	i.filters.Register(name, prototype)

	i.log.Debug().
		Str(logger.FieldFilter, name).
		Msgf("registered filter %T", prototype)
}

// Filters returns the names of the registered filters, sorted
func (i *Interpreter) Filters() []string {
	return i.filters.Names()
}

// CompileAndRegister compiles a query and binds the resulting pipeline to
// its source, replacing any pipeline bound before. The source is created
// empty if it doesn't exist yet, pending datums of an existing source are kept.
//
// It returns the name of the source the query reads from.
func (i *Interpreter) CompileAndRegister(q string) (source string, _ error) {
	p, err := query.Parse(q, i.filters)
	if err != nil {
		code := "unknown"
		if e, ok := err.(pipelang.Err); ok {
			code = e.Code
		}
		i.metrics.QueriesRejected.WithLabelValues(code).Inc()

		i.log.Warn().
			Err(err).
			Str(logger.FieldQuery, q).
			Msg("rejected query")
		return "", err
	}

	i.pipelines.Save(p)
	i.sources.Create(p.Source)
	i.metrics.QueriesCompiled.Inc()

	i.log.Debug().
		Str(logger.FieldQuery, q).
		Str(logger.FieldSource, p.Source).
		Str(logger.FieldPipelineID, p.ID.String()).
		Int("filters", len(p.Stages)).
		Msg("registered pipeline")

	return p.Source, nil
}

// Push appends datums to the pending queue of a source
func (i *Interpreter) Push(source string, datums ...pipelang.Datum) error {
	for idx, d := range datums {
		if err := pipelang.CheckDatum(d); err != nil {
			return pipelang.InvalidDatumErr("cannot push invalid datum", map[string]any{
				"source": source,
				"index":  idx,
				"error":  err,
			})
		}
	}

	err := i.sources.Append(source, datums...)
	if err != nil {
		return err
	}

	i.metrics.DatumsPushed.WithLabelValues(source).Add(float64(len(datums)))
	return nil
}

// Process drains every pending datum of a source and runs them
// through the pipeline bound to it, returning the datums that made
// it to the end of the pipeline.
//
// If a filter fails the call is aborted: the drained datums are
// discarded and a pipelang.FilterFailed error is returned with no output.
func (i *Interpreter) Process(source string) ([]pipelang.Datum, error) {
	p, found := i.pipelines.FindBySource(source)
	if !found || !i.sources.Exists(source) {
		return nil, pipelang.UnregisteredSourceErr(pipelang.CannotReadFromUnregisteredSource, source)
	}

	inputs, err := i.sources.Drain(source)
	if err != nil {
		return nil, err
	}
	i.metrics.DatumsProcessed.WithLabelValues(source).Add(float64(len(inputs)))

	log := i.log.With().
		Str(logger.FieldSource, source).
		Str(logger.FieldPipelineID, p.ID.String()).
		Logger()

	report, err := executor.Run(p, inputs)
	if err != nil {
		filter := ""
		if e, ok := err.(pipelang.Err); ok {
			filter, _ = e.Data["filter"].(string)
		}
		i.metrics.FilterFailures.WithLabelValues(source, filter).Inc()

		log.Error().
			Err(err).
			Int("inputs", len(inputs)).
			Msg("processing aborted by filter failure")
		return nil, err
	}

	i.metrics.DatumsEmitted.WithLabelValues(source).Add(float64(len(report.Output)))
	i.metrics.DatumsSuppressed.WithLabelValues(source).Add(float64(report.Suppressed))

	log.Debug().
		Int("inputs", len(inputs)).
		Int("outputs", len(report.Output)).
		Int("suppressed", report.Suppressed).
		Msg("processed source")

	return report.Output, nil
}

// Gatherer exposes the metrics of this Interpreter
func (i *Interpreter) Gatherer() prometheus.Gatherer {
	return i.metrics.Gatherer()
}

// Load registers every filter declared on cfg and then compiles
// each of its queries, stopping on the first error.
func (i *Interpreter) Load(cfg config.Config) error {
	for _, def := range cfg.Filters {
		prototype, err := def.Build()
		if err != nil {
			return err
		}

		i.RegisterFilter(def.Name, prototype)
	}

	for _, q := range cfg.Queries {
		_, err := i.CompileAndRegister(q)
		if err != nil {
			return err
		}
	}

	return nil
}
