package pipelang

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Datum is a single value flowing through a Pipeline.
//
// It is either an Integer or a Vec of other Datums. Vecs are only
// ever built bottom-up by aggregating filters so they can't contain
// themselves.
type Datum interface {
	String() string

	isDatum()
}

// Integer is a signed 64 bit Datum
type Integer int64

func (Integer) isDatum() {}

func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Vec is an ordered sequence of Datums
type Vec []Datum

func (Vec) isDatum() {}

func (v Vec) String() string {
	items := make([]string, 0, len(v))
	for _, d := range v {
		items = append(items, d.String())
	}
	return "[" + strings.Join(items, ",") + "]"
}

// CheckDatum returns an InvalidDatum error if d, or any
// Datum nested inside it, is nil.
func CheckDatum(d Datum) error {
	switch v := d.(type) {
	case Integer:
		return nil
	case Vec:
		for i, item := range v {
			if err := CheckDatum(item); err != nil {
				return InvalidDatumErr("vec contains an invalid datum", map[string]any{
					"index": i,
					"error": err,
				})
			}
		}
		return nil
	}

	return InvalidDatumErr("datum cannot be nil", nil)
}

const (
	KindInteger = "integer"
	KindVec     = "vec"
)

// KindOf returns the name of the shape of d
func KindOf(d Datum) string {
	switch d.(type) {
	case Integer:
		return KindInteger
	case Vec:
		return KindVec
	default:
		return "unknown"
	}
}

// DecodeDatums reads a YAML (or JSON) sequence into a list of Datums.
//
// Integers become Integer and nested sequences become Vec,
// e.g. `[1, 2, [3, 4]]`. An empty document decodes to no Datums.
func DecodeDatums(data []byte) ([]Datum, error) {
	var doc yaml.Node
	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, InvalidDatumErr("could not parse input", map[string]any{
			"error": err,
		})
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, InvalidDatumErr("input must be a sequence of values", map[string]any{
			"line": root.Line,
		})
	}

	datums := make([]Datum, 0, len(root.Content))
	for _, node := range root.Content {
		d, err := decodeNode(node)
		if err != nil {
			return nil, err
		}
		datums = append(datums, d)
	}

	return datums, nil
}

func decodeNode(node *yaml.Node) (Datum, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	switch {
	case node.Kind == yaml.ScalarNode && node.ShortTag() == "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, InvalidDatumErr("integer out of range", map[string]any{
				"value": node.Value,
				"line":  node.Line,
			})
		}
		return Integer(i), nil

	case node.Kind == yaml.SequenceNode:
		vec := make(Vec, 0, len(node.Content))
		for _, child := range node.Content {
			d, err := decodeNode(child)
			if err != nil {
				return nil, err
			}
			vec = append(vec, d)
		}
		return vec, nil
	}

	return nil, InvalidDatumErr("values must be integers or sequences", map[string]any{
		"value": node.Value,
		"line":  node.Line,
	})
}

// EncodeDatums renders datums as a YAML sequence,
// with one top level entry per Datum.
func EncodeDatums(datums []Datum) ([]byte, error) {
	root := &yaml.Node{
		Kind: yaml.SequenceNode,
	}
	for _, d := range datums {
		root.Content = append(root.Content, encodeNode(d))
	}

	return yaml.Marshal(root)
}

func encodeNode(d Datum) *yaml.Node {
	switch v := d.(type) {
	case Integer:
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: v.String(),
		}
	case Vec:
		node := &yaml.Node{
			Kind:  yaml.SequenceNode,
			Style: yaml.FlowStyle,
		}
		for _, item := range v {
			node.Content = append(node.Content, encodeNode(item))
		}
		return node
	}

	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
