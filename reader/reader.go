package reader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/datakit/dataset"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/executor"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/recfile"
	"github.com/kbukum/datakit/stream"
	"github.com/kbukum/datakit/validation"
)

// Options configures how record files are read.
type Options struct {
	// Keys, when set, narrows every keyed-map record to these fields.
	Keys []string `validate:"omitempty,dive,required"`
	// Background reads files on a dedicated goroutine so decoding
	// overlaps with downstream work.
	Background bool
}

// Open builds a lazy dataset over the given record files. Directories
// expand to their *.rec files in sorted order. Paths are resolved
// eagerly, so a missing file fails here; decoding failures surface
// during iteration.
func Open(opts Options, paths ...string) (*dataset.Dataset, error) {
	if err := validation.Validate(opts); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Configuration("reader requires at least one path")
	}
	files, err := expand(paths)
	if err != nil {
		return nil, err
	}

	pathRecs := make([]record.Record, len(files))
	for i, f := range files {
		pathRecs[i] = record.String(f)
	}

	var execOpts []executor.Option
	if opts.Background {
		execOpts = append(execOpts, executor.WithBackground(true))
	}

	d := dataset.FromRecords(pathRecs...).FlatMap(openFile, execOpts...)
	if len(opts.Keys) > 0 {
		d = d.Select(opts.Keys...)
	}
	return d, nil
}

// expand resolves files and directories into a flat, ordered file list.
func expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.ReadFailed(path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.ReadFailed(path, err)
		}
		var shard []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rec") {
				continue
			}
			shard = append(shard, filepath.Join(path, entry.Name()))
		}
		sort.Strings(shard)
		files = append(files, shard...)
	}
	if len(files) == 0 {
		return nil, errors.EmptyDataset("reader")
	}
	return files, nil
}

// openFile is the flat-map generator: one path record in, that file's
// records out.
func openFile(_ context.Context, rec record.Record) (stream.Iterator, error) {
	scalar, ok := rec.(record.Scalar)
	if !ok || scalar.Tag != record.ScalarString {
		return nil, errors.Configuration("reader expects path records, got %s", rec.Kind())
	}
	path := scalar.Str
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ReadFailed(path, err)
	}
	r, err := recfile.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.ReadFailed(path, err)
	}
	return &fileIter{path: path, file: f, reader: r}, nil
}

type fileIter struct {
	path   string
	file   *os.File
	reader *recfile.Reader
	closed bool
}

func (it *fileIter) Next(_ context.Context) (record.Record, bool, error) {
	rec, err := it.reader.Next()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.ReadFailed(it.path, err)
	}
	return rec, true, nil
}

func (it *fileIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	rerr := it.reader.Close()
	ferr := it.file.Close()
	if rerr != nil {
		return errors.ReadFailed(it.path, rerr)
	}
	if ferr != nil {
		return errors.ReadFailed(it.path, ferr)
	}
	return nil
}
