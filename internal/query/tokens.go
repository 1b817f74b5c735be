package query

import (
	"encoding/json"
	"strconv"
)

// Token is a lexical unit of a query.
//
// Tokens are produced in the order they appear in the query text
// and carry no position information.
type Token interface {
	String() string
}

// SourceToken represents `@name`
type SourceToken string

func (s SourceToken) String() string {
	return "@" + string(s)
}

// FilterToken represents `| name`
type FilterToken string

func (f FilterToken) String() string {
	return "|" + string(f)
}

type OpenParenToken struct{}

func (OpenParenToken) String() string {
	return "("
}

type CloseParenToken struct{}

func (CloseParenToken) String() string {
	return ")"
}

// StringToken represents string literals
type StringToken string

func (s StringToken) String() string {
	b, _ := json.Marshal(string(s))
	return string(b)
}

// IntToken represents integer literals
type IntToken int64

func (i IntToken) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// FloatToken represents literals with a decimal point
type FloatToken float64

func (f FloatToken) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}
