package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/datakit/dataset"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/recfile"
	"github.com/kbukum/datakit/validation"
)

// Options configures how a dataset is written to disk.
type Options struct {
	// Compression selects the frame codec; empty means none.
	Compression string
	// Shards splits the output across this many files, records assigned
	// round-robin. Zero or one writes a single file.
	Shards int
}

// validate checks the base path and options before any file is touched.
func (o Options) validate(base string) error {
	v := validation.New().
		Required("path", base).
		Min("shards", o.Shards, 0).
		OneOf("compression", o.Compression, recfile.Compressions())
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Write drains d into one or more record files and returns the paths it
// wrote. With Shards > 1 the base path becomes a prefix and each shard is
// named <base>-<uuid>-00000-of-000NN.rec, so concurrent writers never
// collide; otherwise base is the single output path. Partially written
// files are removed on failure.
func Write(ctx context.Context, d *dataset.Dataset, base string, opts Options) ([]string, error) {
	if err := opts.validate(base); err != nil {
		return nil, err
	}
	start := time.Now()

	shards := opts.Shards
	if shards < 1 {
		shards = 1
	}
	paths := shardPaths(base, shards)

	files, writers, err := openShards(paths, recfile.Compression(compressionOrNone(opts.Compression)))
	if err != nil {
		removeAll(paths)
		return nil, err
	}

	records := 0
	writeErr := d.ForEach(ctx, func(_ context.Context, rec record.Record) error {
		if err := writers[records%shards].Write(rec); err != nil {
			return errors.WriteFailed(paths[records%shards], err)
		}
		records++
		return nil
	})
	closeErr := closeShards(paths, files, writers)
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		removeAll(paths)
		return nil, writeErr
	}

	logger.WithComponent("writer").Info("dataset written", logger.Fields(
		logger.FieldPath, base,
		logger.FieldRecords, records,
		logger.FieldShards, shards,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return paths, nil
}

// shardPaths names the output files. Single-shard writes use the base
// path untouched.
func shardPaths(base string, shards int) []string {
	if shards == 1 {
		return []string{base}
	}
	id := uuid.NewString()
	paths := make([]string, shards)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s-%s-%05d-of-%05d.rec", base, id, i, shards)
	}
	return paths
}

func compressionOrNone(c string) string {
	if c == "" {
		return string(recfile.None)
	}
	return c
}

func openShards(paths []string, compression recfile.Compression) ([]*os.File, []*recfile.Writer, error) {
	files := make([]*os.File, 0, len(paths))
	writers := make([]*recfile.Writer, 0, len(paths))
	for _, path := range paths {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				closeShards(paths, files, writers)
				return nil, nil, errors.WriteFailed(path, err)
			}
		}
		f, err := os.Create(path)
		if err != nil {
			closeShards(paths, files, writers)
			return nil, nil, errors.WriteFailed(path, err)
		}
		w, err := recfile.NewWriter(f, compression)
		if err != nil {
			f.Close()
			closeShards(paths, files, writers)
			return nil, nil, errors.WriteFailed(path, err)
		}
		files = append(files, f)
		writers = append(writers, w)
	}
	return files, writers, nil
}

func closeShards(paths []string, files []*os.File, writers []*recfile.Writer) error {
	var first error
	for i := range writers {
		if err := writers[i].Close(); err != nil && first == nil {
			first = errors.WriteFailed(paths[i], err)
		}
	}
	for i := range files {
		if err := files[i].Close(); err != nil && first == nil {
			first = errors.WriteFailed(paths[i], err)
		}
	}
	return first
}

func removeAll(paths []string) {
	for _, path := range paths {
		os.Remove(path)
	}
}
