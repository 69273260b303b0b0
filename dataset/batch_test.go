package dataset

import (
	"context"
	"testing"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
)

func TestBatch_DropsPartialWindow(t *testing.T) {
	// Ten scalars batched in fours: two full batches, the trailing two
	// records are dropped.
	got, err := FromRecords(ints(sequence(10)...)...).Batch(4).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(got))
	}
	for i, rec := range got {
		tensor, ok := rec.(record.Tensor)
		if !ok {
			t.Fatalf("batch %d: expected tensor, got %#v", i, rec)
		}
		if tensor.DType != record.Int64 || tensor.Len() != 4 {
			t.Errorf("batch %d: unexpected tensor %v", i, tensor)
		}
	}
	if got[0].(record.Tensor).I64[0] != 0 || got[1].(record.Tensor).I64[0] != 4 {
		t.Error("batches out of order")
	}
}

func TestBatch_ExactMultiple(t *testing.T) {
	got, err := FromRecords(ints(sequence(8)...)...).Batch(4).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 batches, got %d", len(got))
	}
}

func TestBatch_StacksTensorsAlongLeadingAxis(t *testing.T) {
	d := FromRecords(
		record.VectorF32([]float32{1, 2}),
		record.VectorF32([]float32{3, 4}),
	).Batch(2)
	got, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tensor := got[0].(record.Tensor)
	if tensor.Rank() != 2 || tensor.Shape[0] != 2 || tensor.Shape[1] != 2 {
		t.Fatalf("unexpected batch shape: %v", tensor.Shape)
	}
	if tensor.F32[3] != 4 {
		t.Errorf("unexpected batch contents: %v", tensor.F32)
	}
}

func TestBatch_ShapeMismatchSurfaces(t *testing.T) {
	d := FromRecords(
		record.VectorF32([]float32{1, 2}),
		record.VectorF32([]float32{3, 4, 5}),
	).Batch(2)
	_, err := d.List(context.Background())
	if !errors.HasCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected shape-mismatch error, got %v", err)
	}
}

func TestBatch_KeyedMapsBatchFieldWise(t *testing.T) {
	cols := map[string][]record.Record{
		"feature": {record.VectorF32([]float32{1}), record.VectorF32([]float32{2})},
		"label":   ints(0, 1),
	}
	got, err := FromColumns(cols).Batch(2).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := got[0].(record.KeyedMap)
	if !ok {
		t.Fatalf("expected keyed-map batch, got %#v", got[0])
	}
	if _, ok := m["feature"].(record.Tensor); !ok {
		t.Errorf("expected stacked feature tensor, got %#v", m["feature"])
	}
	label, ok := m["label"].(record.Tensor)
	if !ok || label.DType != record.Int64 {
		t.Errorf("expected int64 label tensor, got %#v", m["label"])
	}
}
