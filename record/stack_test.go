package record

import (
	"testing"

	"github.com/kbukum/datakit/errors"
)

func TestStack_Tensors(t *testing.T) {
	recs := []Record{
		TensorF32([]int{2}, []float32{1, 2}),
		TensorF32([]int{2}, []float32{3, 4}),
		TensorF32([]int{2}, []float32{5, 6}),
	}
	out, err := Stack(recs, Float32)
	if err != nil {
		t.Fatal(err)
	}
	tensor := out.(Tensor)
	if tensor.Shape[0] != 3 || tensor.Shape[1] != 2 {
		t.Errorf("expected shape [3 2], got %v", tensor.Shape)
	}
	if tensor.F32[4] != 5 {
		t.Errorf("expected row-major stacking, got %v", tensor.F32)
	}
}

func TestStack_TensorShapeMismatch(t *testing.T) {
	recs := []Record{
		TensorF32([]int{2}, []float32{1, 2}),
		TensorF32([]int{3}, []float32{1, 2, 3}),
	}
	_, err := Stack(recs, Float32)
	if !errors.HasCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected SHAPE_MISMATCH, got %v", err)
	}
}

func TestStack_IntScalars(t *testing.T) {
	out, err := Stack([]Record{Int64Scalar(1), Int64Scalar(2)}, Float32)
	if err != nil {
		t.Fatal(err)
	}
	tensor := out.(Tensor)
	if tensor.DType != Int64 || tensor.I64[1] != 2 {
		t.Errorf("expected int64 vector, got %v", tensor)
	}
}

func TestStack_MixedNumericScalars_PromoteToDefault(t *testing.T) {
	out, err := Stack([]Record{Int64Scalar(1), Float64(2.5)}, Float32)
	if err != nil {
		t.Fatal(err)
	}
	tensor := out.(Tensor)
	if tensor.DType != Float32 {
		t.Errorf("expected float32 promotion, got %s", tensor.DType)
	}
	if tensor.F32[0] != 1 || tensor.F32[1] != 2.5 {
		t.Errorf("unexpected data %v", tensor.F32)
	}
}

func TestStack_FloatScalars_Float64Default(t *testing.T) {
	out, err := Stack([]Record{Float64(1), Float64(2)}, Float64Type)
	if err != nil {
		t.Fatal(err)
	}
	if out.(Tensor).DType != Float64Type {
		t.Errorf("expected float64, got %s", out.(Tensor).DType)
	}
}

func TestStack_StringScalars_PassThroughAsSequence(t *testing.T) {
	out, err := Stack([]Record{String("a"), String("b")}, Float32)
	if err != nil {
		t.Fatal(err)
	}
	seq, ok := out.(Sequence)
	if !ok || len(seq) != 2 {
		t.Fatalf("expected 2-element sequence, got %v", out)
	}
}

func TestStack_Sequences_ElementWise(t *testing.T) {
	recs := []Record{
		Seq(VectorF32([]float32{1, 2}), Float64(10)),
		Seq(VectorF32([]float32{3, 4}), Float64(20)),
	}
	out, err := Stack(recs, Float32)
	if err != nil {
		t.Fatal(err)
	}
	seq := out.(Sequence)
	audio := seq[0].(Tensor)
	if audio.Shape[0] != 2 || audio.Shape[1] != 2 {
		t.Errorf("expected [2 2], got %v", audio.Shape)
	}
	labels := seq[1].(Tensor)
	if labels.Shape[0] != 2 || labels.F32[1] != 20 {
		t.Errorf("expected stacked labels, got %v", labels)
	}
}

func TestStack_Sequences_ArityMismatch(t *testing.T) {
	recs := []Record{
		Seq(Float64(1)),
		Seq(Float64(1), Float64(2)),
	}
	if _, err := Stack(recs, Float32); !errors.HasCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected SHAPE_MISMATCH, got %v", err)
	}
}

func TestStack_KeyedMaps_FieldWise(t *testing.T) {
	recs := []Record{
		KeyedMap{"x": Float64(1), "y": Int64Scalar(0)},
		KeyedMap{"x": Float64(2), "y": Int64Scalar(1)},
	}
	out, err := Stack(recs, Float32)
	if err != nil {
		t.Fatal(err)
	}
	m := out.(KeyedMap)
	if m["x"].(Tensor).DType != Float32 {
		t.Errorf("expected float32 for x, got %s", m["x"].(Tensor).DType)
	}
	if m["y"].(Tensor).DType != Int64 {
		t.Errorf("expected int64 for y, got %s", m["y"].(Tensor).DType)
	}
}

func TestStack_KeyedMaps_KeySetMismatch(t *testing.T) {
	recs := []Record{
		KeyedMap{"x": Float64(1)},
		KeyedMap{"z": Float64(2)},
	}
	if _, err := Stack(recs, Float32); !errors.HasCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected SHAPE_MISMATCH, got %v", err)
	}
}

func TestStack_MixedKinds(t *testing.T) {
	recs := []Record{Float64(1), VectorF32([]float32{1})}
	if _, err := Stack(recs, Float32); !errors.HasCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected SHAPE_MISMATCH, got %v", err)
	}
}

func TestStack_Empty(t *testing.T) {
	if _, err := Stack(nil, Float32); !errors.HasCode(err, errors.ErrCodeEmptyDataset) {
		t.Errorf("expected EMPTY_DATASET, got %v", err)
	}
}
