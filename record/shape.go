package record

import (
	"fmt"
	"sort"
	"strings"
)

// Shape mirrors the nested structure of a record. Exactly one of the
// composite fields is populated for sequences and keyed maps; leaves carry
// the tensor dimensions (empty for scalars).
type Shape struct {
	Dims   []int
	Elems  []Shape
	Fields map[string]Shape
}

// ShapeOf returns the structural shape of a record.
func ShapeOf(r Record) Shape {
	switch v := r.(type) {
	case Tensor:
		return Shape{Dims: append([]int(nil), v.Shape...)}
	case Scalar:
		return Shape{Dims: []int{}}
	case Sequence:
		elems := make([]Shape, len(v))
		for i, e := range v {
			elems[i] = ShapeOf(e)
		}
		return Shape{Elems: elems}
	case KeyedMap:
		fields := make(map[string]Shape, len(v))
		for k, e := range v {
			fields[k] = ShapeOf(e)
		}
		return Shape{Fields: fields}
	}
	return Shape{}
}

func (s Shape) String() string {
	switch {
	case s.Elems != nil:
		parts := make([]string, len(s.Elems))
		for i, e := range s.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case s.Fields != nil:
		// Sorted for a stable representation.
		keys := make([]string, 0, len(s.Fields))
		for k := range s.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, s.Fields[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", s.Dims)
	}
}

// Types mirrors the nested dtype structure of a record. Leaves carry the
// inferred dtype: int scalars infer int64, float scalars float32, tensors
// their own dtype; strings and bools stay DTypeUnknown.
type Types struct {
	DType  DType
	Elems  []Types
	Fields map[string]Types
}

// TypesOf returns the dtype structure of a record.
func TypesOf(r Record) Types {
	switch v := r.(type) {
	case Tensor:
		return Types{DType: v.DType}
	case Scalar:
		switch v.Tag {
		case ScalarInt:
			return Types{DType: Int64}
		case ScalarFloat:
			return Types{DType: Float32}
		}
		return Types{DType: DTypeUnknown}
	case Sequence:
		elems := make([]Types, len(v))
		for i, e := range v {
			elems[i] = TypesOf(e)
		}
		return Types{Elems: elems}
	case KeyedMap:
		fields := make(map[string]Types, len(v))
		for k, e := range v {
			fields[k] = TypesOf(e)
		}
		return Types{Fields: fields}
	}
	return Types{}
}
