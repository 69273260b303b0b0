package record

import (
	"github.com/kbukum/datakit/errors"
)

// Stack combines a window of records into a single batched record:
//
//   - Tensors of identical shape and dtype stack along a new leading axis.
//   - Numeric scalars promote to a 1-D tensor: all-int windows become int64,
//     anything involving floats becomes defaultDType (Float32 when unset).
//   - String and bool scalars are not stackable and pass through as a Sequence.
//   - Sequences stack element-wise and KeyedMaps field-wise, recursively.
//
// A window mixing record kinds, tensor shapes, tuple arities or key sets
// returns a SHAPE_MISMATCH error; nothing is silently coerced.
func Stack(recs []Record, defaultDType DType) (Record, error) {
	if len(recs) == 0 {
		return nil, errors.EmptyDataset("stack")
	}
	if defaultDType == DTypeUnknown {
		defaultDType = Float32
	}

	switch first := recs[0].(type) {
	case Tensor:
		return stackTensors(recs, first)
	case Scalar:
		return stackScalars(recs, defaultDType)
	case Sequence:
		return stackSequences(recs, len(first), defaultDType)
	case KeyedMap:
		return stackKeyedMaps(recs, first, defaultDType)
	}
	return nil, errors.ShapeMismatch("cannot stack records of kind %s", recs[0].Kind())
}

func stackTensors(recs []Record, first Tensor) (Record, error) {
	n := len(recs)
	for i, r := range recs {
		t, ok := r.(Tensor)
		if !ok {
			return nil, errors.ShapeMismatch("window mixes tensor and %s records", r.Kind())
		}
		if t.DType != first.DType {
			return nil, errors.ShapeMismatch("window mixes dtypes %s and %s", first.DType, t.DType)
		}
		if !t.SameShape(first) {
			return nil, errors.ShapeMismatch("tensor %d has shape %v, want %v", i, t.Shape, first.Shape)
		}
	}

	shape := append([]int{n}, first.Shape...)
	out := Tensor{DType: first.DType, Shape: shape}
	switch first.DType {
	case Float32:
		out.F32 = make([]float32, 0, n*first.Len())
		for _, r := range recs {
			out.F32 = append(out.F32, r.(Tensor).F32...)
		}
	case Float64Type:
		out.F64 = make([]float64, 0, n*first.Len())
		for _, r := range recs {
			out.F64 = append(out.F64, r.(Tensor).F64...)
		}
	case Int64:
		out.I64 = make([]int64, 0, n*first.Len())
		for _, r := range recs {
			out.I64 = append(out.I64, r.(Tensor).I64...)
		}
	}
	return out, nil
}

func stackScalars(recs []Record, defaultDType DType) (Record, error) {
	allInt := true
	for _, r := range recs {
		s, ok := r.(Scalar)
		if !ok {
			return nil, errors.ShapeMismatch("window mixes scalar and %s records", r.Kind())
		}
		if !s.Numeric() {
			// Non-promotable scalars stay a plain tuple.
			return Sequence(append([]Record(nil), recs...)), nil
		}
		if s.Tag != ScalarInt {
			allInt = false
		}
	}

	n := len(recs)
	if allInt {
		data := make([]int64, n)
		for i, r := range recs {
			data[i] = r.(Scalar).Int
		}
		return TensorI64([]int{n}, data), nil
	}

	switch defaultDType {
	case Float64Type:
		data := make([]float64, n)
		for i, r := range recs {
			data[i], _ = r.(Scalar).AsFloat64()
		}
		return TensorF64([]int{n}, data), nil
	default:
		data := make([]float32, n)
		for i, r := range recs {
			v, _ := r.(Scalar).AsFloat64()
			data[i] = float32(v)
		}
		return TensorF32([]int{n}, data), nil
	}
}

func stackSequences(recs []Record, arity int, defaultDType DType) (Record, error) {
	for _, r := range recs {
		seq, ok := r.(Sequence)
		if !ok {
			return nil, errors.ShapeMismatch("window mixes sequence and %s records", r.Kind())
		}
		if len(seq) != arity {
			return nil, errors.ShapeMismatch("window mixes tuple arities %d and %d", arity, len(seq))
		}
	}

	out := make(Sequence, arity)
	column := make([]Record, len(recs))
	for pos := 0; pos < arity; pos++ {
		for i, r := range recs {
			column[i] = r.(Sequence)[pos]
		}
		stacked, err := Stack(column, defaultDType)
		if err != nil {
			return nil, err
		}
		out[pos] = stacked
	}
	return out, nil
}

func stackKeyedMaps(recs []Record, first KeyedMap, defaultDType DType) (Record, error) {
	keys := first.Keys()
	for _, r := range recs {
		m, ok := r.(KeyedMap)
		if !ok {
			return nil, errors.ShapeMismatch("window mixes keyedmap and %s records", r.Kind())
		}
		if len(m) != len(keys) {
			return nil, errors.ShapeMismatch("window mixes key sets %v and %v", keys, m.Keys())
		}
		for _, k := range keys {
			if _, ok := m[k]; !ok {
				return nil, errors.ShapeMismatch("window mixes key sets %v and %v", keys, m.Keys())
			}
		}
	}

	out := make(KeyedMap, len(keys))
	column := make([]Record, len(recs))
	for _, k := range keys {
		for i, r := range recs {
			column[i] = r.(KeyedMap)[k]
		}
		stacked, err := Stack(column, defaultDType)
		if err != nil {
			return nil, err
		}
		out[k] = stacked
	}
	return out, nil
}
