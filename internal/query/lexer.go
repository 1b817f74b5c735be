package query

import (
	"strconv"
	"unicode"

	"github.com/badtuple/pipelang"
)

const (
	errUnterminatedString   = "query contained unterminated string"
	errTooManyDecimalPoints = "float literals can only contain one decimal point"
	errInvalidNumber        = "invalid numeric literal"
)

// Tokenize splits a query into its tokens.
func Tokenize(query string) (_ []Token, err error) {
	expr := []rune(query)
	tokens := []Token{}

	i := 0
	for i < len(expr) {
		var token Token

		switch c := expr[i]; {
		case unicode.IsSpace(c):
			i++
			continue

		case c == '@':
			i, token = parseSource(expr, i+1)

		case c == '|':
			i, token = parseFilter(expr, i+1)

		case c == '(':
			token = OpenParenToken{}
			i++

		case c == ')':
			token = CloseParenToken{}
			i++

		case c == '"':
			i, token, err = parseString(expr, i)
			if err != nil {
				return nil, err
			}

		case isDigit(c):
			i, token, err = parseNumber(expr, i)
			if err != nil {
				return nil, err
			}

		default:
			return nil, pipelang.UnexpectedCharacterErr(c, i)
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// parseSource reads the name following an `@`, the name may be empty.
func parseSource(expr []rune, index int) (newIndex int, token Token) {
	i := index
	for i < len(expr) && isIdentChar(expr[i]) {
		i++
	}

	return i, SourceToken(expr[index:i])
}

// parseFilter reads the name following a `|`, skipping the spaces
// before it. A space ending the name is consumed with it while any
// other character is left for the next token.
func parseFilter(expr []rune, index int) (newIndex int, token Token) {
	i := consumeSpaces(expr, index)

	start := i
	for i < len(expr) && isIdentChar(expr[i]) {
		i++
	}
	name := FilterToken(expr[start:i])

	if i > start && i < len(expr) && unicode.IsSpace(expr[i]) {
		i++
	}

	return i, name
}

// parseString expects index to point to the opening quote
func parseString(expr []rune, index int) (newIndex int, token Token, err error) {
	for i := index + 1; i < len(expr); i++ {
		if expr[i] == '"' {
			return i + 1, StringToken(expr[index+1 : i]), nil
		}
	}

	return 0, nil, pipelang.MalformedQueryErr(errUnterminatedString, map[string]any{
		"startedAt": index,
	})
}

func parseNumber(expr []rune, index int) (newIndex int, token Token, err error) {
	isFloat := false

	i := index
	for ; i < len(expr); i++ {
		if expr[i] == '.' {
			if isFloat {
				return 0, nil, pipelang.MalformedQueryErr(errTooManyDecimalPoints, map[string]any{
					"literal": string(expr[index : i+1]),
					"pos":     i,
				})
			}

			isFloat = true
			continue
		}

		if !isDigit(expr[i]) {
			break
		}
	}

	literal := string(expr[index:i])

	if isFloat {
		num, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return 0, nil, pipelang.MalformedQueryErr(errInvalidNumber, map[string]any{
				"literal": literal,
				"error":   err,
			})
		}

		return i, FloatToken(num), nil
	}

	num, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return 0, nil, pipelang.MalformedQueryErr(errInvalidNumber, map[string]any{
			"literal": literal,
			"error":   err,
		})
	}

	return i, IntToken(num), nil
}

func consumeSpaces(expr []rune, index int) (newIndex int) {
	i := index
	for i < len(expr) && unicode.IsSpace(expr[i]) {
		i++
	}

	return i
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// isIdentChar checks if a character can be part of a source or filter name.
//
// Other_Alphabetic covers the combining vowel signs of scripts
// like Devanagari or Thai, which are neither letters nor numbers.
func isIdentChar(c rune) bool {
	return unicode.IsLetter(c) ||
		unicode.Is(unicode.Other_Alphabetic, c) ||
		unicode.IsNumber(c) ||
		c == '_'
}
