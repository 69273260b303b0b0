package writer_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/kbukum/datakit/dataset"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/writer"
)

func scalars(vals ...int64) *dataset.Dataset {
	recs := make([]record.Record, len(vals))
	for i, v := range vals {
		recs[i] = record.Int64Scalar(v)
	}
	return dataset.FromRecords(recs...)
}

func TestWrite_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.rec")
	paths, err := writer.Write(context.Background(), scalars(1, 2, 3), path, writer.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Fatalf("expected single output at %s, got %v", path, paths)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}

func TestWrite_ShardNaming(t *testing.T) {
	base := filepath.Join(t.TempDir(), "train")
	paths, err := writer.Write(context.Background(), scalars(1, 2, 3, 4, 5), base, writer.Options{Shards: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 shards, got %d", len(paths))
	}
	pattern := regexp.MustCompile(`train-[0-9a-f-]{36}-000\d\d-of-00003\.rec$`)
	for i, p := range paths {
		if !pattern.MatchString(p) {
			t.Errorf("shard %d has unexpected name: %s", i, p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("shard %d missing: %v", i, err)
		}
	}
}

func TestWrite_InvalidCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.rec")
	_, err := writer.Write(context.Background(), scalars(1), path, writer.Options{Compression: "lz4"})
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestWrite_InvalidOptions(t *testing.T) {
	dir := t.TempDir()

	_, err := writer.Write(context.Background(), scalars(1), "", writer.Options{})
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected configuration error for empty path, got %v", err)
	}

	_, err = writer.Write(context.Background(), scalars(1), filepath.Join(dir, "out.rec"), writer.Options{Shards: -1})
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected configuration error for negative shards, got %v", err)
	}
}

func TestWrite_UpstreamErrorRemovesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.rec")
	boom := errors.ShapeMismatch("bad record")
	d := scalars(1, 2, 3).Map(func(_ context.Context, rec record.Record) (record.Record, error) {
		if rec.(record.Scalar).Int == 2 {
			return nil, boom
		}
		return rec, nil
	})
	_, err := writer.Write(context.Background(), d, path, writer.Options{})
	if !errors.HasCode(err, errors.ErrCodeShapeMismatch) {
		t.Fatalf("expected upstream error to surface, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected partial output to be removed")
	}
}

func TestWrite_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.rec")
	if _, err := writer.Write(context.Background(), scalars(1), path, writer.Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}
