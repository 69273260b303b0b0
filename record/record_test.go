package record

import (
	"bytes"
	"encoding/gob"
	"testing"
)

func TestScalar_AsFloat64(t *testing.T) {
	if v, ok := Float64(1.5).AsFloat64(); !ok || v != 1.5 {
		t.Errorf("expected 1.5, got %v ok=%t", v, ok)
	}
	if v, ok := Int64Scalar(7).AsFloat64(); !ok || v != 7 {
		t.Errorf("expected 7, got %v ok=%t", v, ok)
	}
	if _, ok := String("x").AsFloat64(); ok {
		t.Error("string scalar should not convert")
	}
	if _, ok := Bool(true).AsFloat64(); ok {
		t.Error("bool scalar should not convert")
	}
}

func TestKeyedMap_SelectTuple_Order(t *testing.T) {
	row := KeyedMap{
		"audio": VectorF32([]float32{1, 2}),
		"pitch": Float64(440),
	}
	tuple, err := row.SelectTuple("pitch", "audio")
	if err != nil {
		t.Fatal(err)
	}
	if len(tuple) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(tuple))
	}
	if _, ok := tuple[0].(Scalar); !ok {
		t.Errorf("expected pitch first, got %T", tuple[0])
	}
	if _, ok := tuple[1].(Tensor); !ok {
		t.Errorf("expected audio second, got %T", tuple[1])
	}
}

func TestKeyedMap_Select_MissingKey(t *testing.T) {
	row := KeyedMap{"a": Float64(1)}
	if _, err := row.Select("a", "b"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestTensor_Constructors_PanicOnSizeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for size mismatch")
		}
	}()
	TensorF32([]int{2, 3}, []float32{1, 2, 3})
}

func TestTensor_SameShape(t *testing.T) {
	a := TensorF32([]int{2, 3}, make([]float32, 6))
	b := TensorF32([]int{2, 3}, make([]float32, 6))
	c := TensorF32([]int{3, 2}, make([]float32, 6))
	if !a.SameShape(b) {
		t.Error("identical shapes should match")
	}
	if a.SameShape(c) {
		t.Error("transposed shapes should not match")
	}
}

func TestRecord_GobRoundTrip(t *testing.T) {
	var in Record = KeyedMap{
		"audio": TensorF32([]int{2, 2}, []float32{1, 2, 3, 4}),
		"meta":  Seq(String("mdbsynth"), Int64Scalar(3)),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&in); err != nil {
		t.Fatal(err)
	}
	var out Record
	if err := gob.NewDecoder(&buf).Decode(&out); err != nil {
		t.Fatal(err)
	}

	m, ok := out.(KeyedMap)
	if !ok {
		t.Fatalf("expected KeyedMap, got %T", out)
	}
	tensor, ok := m["audio"].(Tensor)
	if !ok || tensor.F32[3] != 4 {
		t.Errorf("tensor did not survive the round trip: %v", m["audio"])
	}
}

func TestShapeOf_Nested(t *testing.T) {
	rec := Seq(TensorF32([]int{1024}, make([]float32, 1024)), Float64(440))
	shape := ShapeOf(rec)
	if len(shape.Elems) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(shape.Elems))
	}
	if len(shape.Elems[0].Dims) != 1 || shape.Elems[0].Dims[0] != 1024 {
		t.Errorf("expected [1024], got %v", shape.Elems[0].Dims)
	}
	if len(shape.Elems[1].Dims) != 0 {
		t.Errorf("expected scalar shape, got %v", shape.Elems[1].Dims)
	}
}

func TestTypesOf_ScalarPromotion(t *testing.T) {
	types := TypesOf(Seq(Int64Scalar(1), Float64(2.5), String("x")))
	if types.Elems[0].DType != Int64 {
		t.Errorf("int should infer int64, got %s", types.Elems[0].DType)
	}
	if types.Elems[1].DType != Float32 {
		t.Errorf("float should infer float32, got %s", types.Elems[1].DType)
	}
	if types.Elems[2].DType != DTypeUnknown {
		t.Errorf("string should stay unknown, got %s", types.Elems[2].DType)
	}
}

func TestShape_String(t *testing.T) {
	shape := ShapeOf(KeyedMap{"audio": VectorF32([]float32{1, 2, 3}), "pitch": Float64(0)})
	got := shape.String()
	want := "{audio: [3], pitch: []}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
