package reader_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kbukum/datakit/dataset"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/reader"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/writer"
)

func writeRows(t *testing.T, path string, opts writer.Options, vals ...int64) []string {
	t.Helper()
	recs := make([]record.Record, len(vals))
	for i, v := range vals {
		recs[i] = record.KeyedMap{
			"feature": record.VectorF32([]float32{float32(v)}),
			"label":   record.Int64Scalar(v),
			"extra":   record.String("x"),
		}
	}
	paths, err := writer.Write(context.Background(), dataset.FromRecords(recs...), path, opts)
	if err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	return paths
}

func labels(t *testing.T, recs []record.Record) []int64 {
	t.Helper()
	out := make([]int64, len(recs))
	for i, rec := range recs {
		m, ok := rec.(record.KeyedMap)
		if !ok {
			t.Fatalf("record %d: expected keyed map, got %#v", i, rec)
		}
		out[i] = m["label"].(record.Scalar).Int
	}
	return out
}

func TestOpen_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.rec")
	writeRows(t, path, writer.Options{Compression: "gzip"}, 1, 2, 3)

	d, err := reader.Open(reader.Options{}, path)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	got, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	want := []int64{1, 2, 3}
	for i, v := range labels(t, got) {
		if v != want[i] {
			t.Errorf("record %d: got label %d, want %d", i, v, want[i])
		}
	}
}

func TestOpen_ShardedDirectorySortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeRows(t, filepath.Join(dir, "train"), writer.Options{Shards: 3}, 0, 1, 2, 3, 4, 5)

	d, err := reader.Open(reader.Options{}, dir)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	got, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 records, got %d", len(got))
	}
	// Round-robin sharding with sorted shard files: shard i holds
	// records i, i+3.
	want := []int64{0, 3, 1, 4, 2, 5}
	for i, v := range labels(t, got) {
		if v != want[i] {
			t.Errorf("record %d: got label %d, want %d", i, v, want[i])
		}
	}
}

func TestOpen_SelectsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.rec")
	writeRows(t, path, writer.Options{}, 7)

	d, err := reader.Open(reader.Options{Keys: []string{"feature", "label"}}, path)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	got, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	m := got[0].(record.KeyedMap)
	if len(m) != 2 {
		t.Errorf("expected 2 fields after select, got %v", m.Keys())
	}
	if _, ok := m["extra"]; ok {
		t.Error("expected extra field to be dropped")
	}
}

func TestOpen_BackgroundReadsSameRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.rec")
	writeRows(t, path, writer.Options{Compression: "zlib"}, 1, 2, 3, 4)

	d, err := reader.Open(reader.Options{Background: true}, path)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	got, err := d.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 records, got %d", len(got))
	}
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := reader.Open(reader.Options{}, filepath.Join(t.TempDir(), "missing.rec"))
	if !errors.HasCode(err, errors.ErrCodeReadFailed) {
		t.Errorf("expected read-failed error, got %v", err)
	}
}

func TestOpen_NoPaths(t *testing.T) {
	_, err := reader.Open(reader.Options{})
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestOpen_EmptyDirectory(t *testing.T) {
	_, err := reader.Open(reader.Options{}, t.TempDir())
	if !errors.HasCode(err, errors.ErrCodeEmptyDataset) {
		t.Errorf("expected empty-dataset error, got %v", err)
	}
}

func TestOpen_RereadableAcrossPasses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.rec")
	writeRows(t, path, writer.Options{}, 1, 2)

	d, err := reader.Open(reader.Options{}, path)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	for pass := 0; pass < 2; pass++ {
		got, err := d.List(context.Background())
		if err != nil {
			t.Fatalf("pass %d: unexpected error: %v", pass, err)
		}
		if len(got) != 2 {
			t.Errorf("pass %d: expected 2 records, got %d", pass, len(got))
		}
	}
}
