package pipelang

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error codes used by Err.Code
const (
	MalformedQuery                   = "MalformedQuery"
	UnexpectedCharacter              = "UnexpectedCharacter"
	CannotPushToUnregisteredSource   = "CannotPushToUnregisteredSource"
	CannotReadFromUnregisteredSource = "CannotReadFromUnregisteredSource"
	FilterCannotProcessDataType      = "FilterCannotProcessDataType"
	FilterFailed                     = "FilterFailed"
	InvalidFilter                    = "InvalidFilter"
	InvalidConfig                    = "InvalidConfig"
	InvalidDatum                     = "InvalidDatum"
)

type Err struct {
	Code  string
	Title string
	Data  map[string]any

	// Cause is the error that triggered this one, if any
	Cause error
}

func (e Err) Error() string {
	fields := []string{
		e.Code + ": " + e.Title,
	}

	// Sorted so the message is stable across runs:
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := e.Data[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}

		fields = append(fields, fmt.Sprintf("%s = %+v", k, v))
	}

	if e.Cause != nil {
		fields = append(fields, "cause = "+e.Cause.Error())
	}

	return strings.Join(fields, "; ")
}

func (e Err) Unwrap() error {
	return e.Cause
}

// ErrIs reports whether err, or any error it wraps,
// is an Err with the given code.
func ErrIs(err error, code string) bool {
	for err != nil {
		var e Err
		if !errors.As(err, &e) {
			return false
		}

		if e.Code == code {
			return true
		}

		err = e.Cause
	}

	return false
}

func MalformedQueryErr(title string, data map[string]any) error {
	return Err{
		Code:  MalformedQuery,
		Title: title,
		Data:  data,
	}
}

func UnexpectedCharacterErr(char rune, pos int) error {
	return Err{
		Code:  UnexpectedCharacter,
		Title: "unexpected character in query",
		Data: map[string]any{
			"char": string(char),
			"pos":  pos,
		},
	}
}

func UnregisteredSourceErr(code string, source string) error {
	return Err{
		Code:  code,
		Title: "source is not registered",
		Data: map[string]any{
			"source": source,
		},
	}
}

func DataTypeErr(filter string, d Datum) error {
	return Err{
		Code:  FilterCannotProcessDataType,
		Title: "filter cannot process data type",
		Data: map[string]any{
			"filter": filter,
			"kind":   KindOf(d),
		},
	}
}

func FilterFailedErr(cause error, data map[string]any) error {
	return Err{
		Code:  FilterFailed,
		Title: "filter failed while processing source",
		Data:  data,
		Cause: cause,
	}
}

func InvalidFilterErr(title string, data map[string]any) error {
	return Err{
		Code:  InvalidFilter,
		Title: title,
		Data:  data,
	}
}

func InvalidConfigErr(title string, cause error) error {
	return Err{
		Code:  InvalidConfig,
		Title: title,
		Cause: cause,
	}
}

func InvalidDatumErr(title string, data map[string]any) error {
	return Err{
		Code:  InvalidDatum,
		Title: title,
		Data:  data,
	}
}
