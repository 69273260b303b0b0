package record

import (
	"encoding/gob"
	"fmt"
	"sort"
)

func init() {
	// Records cross process boundaries gob-encoded inside executor tasks.
	gob.Register(Scalar{})
	gob.Register(Sequence{})
	gob.Register(KeyedMap{})
	gob.Register(Tensor{})
}

// Kind discriminates the concrete Record variants.
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
	KindKeyedMap
	KindTensor
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindKeyedMap:
		return "keyedmap"
	case KindTensor:
		return "tensor"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Record is one opaque unit of data flowing through a pipeline. It is a
// sealed tagged variant: the concrete types are Scalar, Sequence, KeyedMap
// and Tensor, and consumers switch on them explicitly.
type Record interface {
	Kind() Kind
}

// ScalarKind discriminates the value held by a Scalar.
type ScalarKind int

const (
	ScalarFloat ScalarKind = iota
	ScalarInt
	ScalarString
	ScalarBool
)

// Scalar is a single primitive value. Exactly one of the value fields is
// meaningful, selected by Tag. Fields are exported for gob transport.
type Scalar struct {
	Tag   ScalarKind
	Float float64
	Int   int64
	Str   string
	Bool  bool
}

func (Scalar) Kind() Kind { return KindScalar }

// Numeric reports whether the scalar can be promoted into a tensor cell.
func (s Scalar) Numeric() bool { return s.Tag == ScalarFloat || s.Tag == ScalarInt }

// AsFloat64 returns the numeric value widened to float64.
// Returns false for string and bool scalars.
func (s Scalar) AsFloat64() (float64, bool) {
	switch s.Tag {
	case ScalarFloat:
		return s.Float, true
	case ScalarInt:
		return float64(s.Int), true
	}
	return 0, false
}

func (s Scalar) String() string {
	switch s.Tag {
	case ScalarFloat:
		return fmt.Sprintf("%g", s.Float)
	case ScalarInt:
		return fmt.Sprintf("%d", s.Int)
	case ScalarString:
		return fmt.Sprintf("%q", s.Str)
	case ScalarBool:
		return fmt.Sprintf("%t", s.Bool)
	}
	return "scalar(?)"
}

// Float64 builds a float scalar.
func Float64(v float64) Scalar { return Scalar{Tag: ScalarFloat, Float: v} }

// Int64Scalar builds an integer scalar.
func Int64Scalar(v int64) Scalar { return Scalar{Tag: ScalarInt, Int: v} }

// String builds a string scalar.
func String(v string) Scalar { return Scalar{Tag: ScalarString, Str: v} }

// Bool builds a boolean scalar.
func Bool(v bool) Scalar { return Scalar{Tag: ScalarBool, Bool: v} }

// Sequence is an ordered tuple of records.
type Sequence []Record

func (Sequence) Kind() Kind { return KindSequence }

// Seq builds a Sequence from its elements.
func Seq(elems ...Record) Sequence { return Sequence(elems) }

// KeyedMap is a string-keyed collection of records.
type KeyedMap map[string]Record

func (KeyedMap) Kind() Kind { return KindKeyedMap }

// Keys returns the map's keys in sorted order, for deterministic traversal.
func (m KeyedMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Select returns a new KeyedMap containing only the given keys.
// Returns an error naming the first missing key.
func (m KeyedMap) Select(keys ...string) (KeyedMap, error) {
	out := make(KeyedMap, len(keys))
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			return nil, fmt.Errorf("record: no field %q (have %v)", k, m.Keys())
		}
		out[k] = v
	}
	return out, nil
}

// SelectTuple returns the values of the given keys as a Sequence, in key
// argument order.
func (m KeyedMap) SelectTuple(keys ...string) (Sequence, error) {
	out := make(Sequence, 0, len(keys))
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			return nil, fmt.Errorf("record: no field %q (have %v)", k, m.Keys())
		}
		out = append(out, v)
	}
	return out, nil
}
