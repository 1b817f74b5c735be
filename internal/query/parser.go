package query

import (
	"github.com/google/uuid"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/internal"
)

const (
	errEmptyQuery         = "query cannot be empty"
	errMissingSource      = "query must start with source"
	errMultipleSources    = "cannot have multiple sources"
	errUnregisteredFilter = "referenced an unregistered filter"
)

// Registry is the part of the filter registry the parser depends on
type Registry interface {
	Lookup(name string) (pipelang.Filter, bool)
}

// Parse tokenizes and compiles a query in a single step.
func Parse(query string, registry Registry) (internal.Pipeline, error) {
	tokens, err := Tokenize(query)
	if err != nil {
		return internal.Pipeline{}, err
	}

	return Compile(tokens, registry)
}

// Compile builds a Pipeline out of a list of tokens.
//
// Every filter referenced by the query is cloned from the registry
// so the returned Pipeline never shares state with the prototypes
// or with other Pipelines.
//
// Literals and parentheses are accepted but not bound to the filters yet.
func Compile(tokens []Token, registry Registry) (internal.Pipeline, error) {
	if len(tokens) == 0 {
		return internal.Pipeline{}, pipelang.MalformedQueryErr(errEmptyQuery, nil)
	}

	source, ok := tokens[0].(SourceToken)
	if !ok {
		return internal.Pipeline{}, pipelang.MalformedQueryErr(errMissingSource, map[string]any{
			"firstToken": tokens[0].String(),
		})
	}

	stages := []internal.Stage{}
	for _, token := range tokens[1:] {
		switch t := token.(type) {
		case SourceToken:
			return internal.Pipeline{}, pipelang.MalformedQueryErr(errMultipleSources, map[string]any{
				"sources": []string{string(source), string(t)},
			})

		case FilterToken:
			prototype, found := registry.Lookup(string(t))
			if !found {
				return internal.Pipeline{}, pipelang.MalformedQueryErr(errUnregisteredFilter, map[string]any{
					"filter": string(t),
				})
			}

			stages = append(stages, internal.Stage{
				Name:   string(t),
				Filter: prototype.Clone(),
			})

		case OpenParenToken, CloseParenToken, StringToken, IntToken, FloatToken:
			continue
		}
	}

	return internal.Pipeline{
		ID:     uuid.New(),
		Source: string(source),
		Stages: stages,
	}, nil
}
