package recfile

import (
	"bytes"
	"io"
	"testing"

	"github.com/kbukum/datakit/record"
)

func sample() []record.Record {
	return []record.Record{
		record.Int64Scalar(42),
		record.VectorF32([]float32{1, 2, 3}),
		record.KeyedMap{"feature": record.VectorF32([]float32{0.5}), "label": record.Int64Scalar(1)},
	}
}

func roundTrip(t *testing.T, compression Compression) []record.Record {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, compression)
	if err != nil {
		t.Fatalf("unexpected writer error: %v", err)
	}
	for _, rec := range sample() {
		if err := w.Write(rec); err != nil {
			t.Fatalf("unexpected write error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("unexpected reader error: %v", err)
	}
	defer r.Close()
	var out []record.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected read error: %v", err)
		}
		out = append(out, rec)
	}
}

func TestRoundTrip_AllCompressions(t *testing.T) {
	for _, compression := range []Compression{None, Gzip, Zlib} {
		t.Run(string(compression), func(t *testing.T) {
			got := roundTrip(t, compression)
			if len(got) != 3 {
				t.Fatalf("expected 3 records, got %d", len(got))
			}
			if got[0].(record.Scalar).Int != 42 {
				t.Errorf("unexpected scalar: %v", got[0])
			}
			tensor := got[1].(record.Tensor)
			if tensor.Len() != 3 || tensor.F32[2] != 3 {
				t.Errorf("unexpected tensor: %v", tensor)
			}
			m := got[2].(record.KeyedMap)
			if m["label"].(record.Scalar).Int != 1 {
				t.Errorf("unexpected keyed map: %v", m)
			}
		})
	}
}

func TestNewReader_RejectsBadMagic(t *testing.T) {
	if _, err := NewReader(bytes.NewReader([]byte("NOPE!!"))); err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestNewReader_RejectsUnknownCompression(t *testing.T) {
	header := append([]byte(magic), version, 9)
	if _, err := NewReader(bytes.NewReader(header)); err == nil {
		t.Error("expected error for unknown compression code")
	}
}

func TestNewWriter_RejectsUnknownCompression(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, Compression("lz4")); err != nil {
		return
	}
	t.Error("expected error for unknown compression")
}

func TestReader_TruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, None)
	if err != nil {
		t.Fatalf("unexpected writer error: %v", err)
	}
	if err := w.Write(record.Int64Scalar(7)); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-3]

	r, err := NewReader(bytes.NewReader(truncated))
	if err != nil {
		t.Fatalf("unexpected reader error: %v", err)
	}
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("expected truncation error, got %v", err)
	}
}
