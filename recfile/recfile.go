package recfile

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/kbukum/datakit/record"
)

// The file layout is a fixed header followed by length-prefixed gob
// payloads, one record each:
//
//	magic "RKit" | version byte | compression byte | frames...
//	frame: uint32 big-endian payload length | gob(record)
//
// Frames after the header travel through the configured compressor, so
// the length prefixes are themselves compressed.
const (
	magic   = "RKit"
	version = byte(1)
)

// Compression names the codec applied to the record frames.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zlib Compression = "zlib"
)

// Compressions lists the supported codec names, for option validation.
func Compressions() []string { return []string{string(None), string(Gzip), string(Zlib)} }

func compressionByte(c Compression) (byte, error) {
	switch c {
	case None, "":
		return 0, nil
	case Gzip:
		return 1, nil
	case Zlib:
		return 2, nil
	}
	return 0, fmt.Errorf("unknown compression %q", c)
}

func compressionFromByte(b byte) (Compression, error) {
	switch b {
	case 0:
		return None, nil
	case 1:
		return Gzip, nil
	case 2:
		return Zlib, nil
	}
	return "", fmt.Errorf("unknown compression code %d", b)
}

// Writer encodes records into a record file. It does not own the
// underlying io.Writer; Close flushes the compressor but the caller
// closes the file.
type Writer struct {
	raw        io.Writer
	compressed io.Writer
	closer     io.Closer
	scratch    bytes.Buffer
}

// NewWriter writes the file header and returns a Writer for the given
// compression.
func NewWriter(w io.Writer, compression Compression) (*Writer, error) {
	code, err := compressionByte(compression)
	if err != nil {
		return nil, err
	}
	header := append([]byte(magic), version, code)
	if _, err := w.Write(header); err != nil {
		return nil, err
	}
	out := &Writer{raw: w, compressed: w}
	switch compression {
	case Gzip:
		zw := gzip.NewWriter(w)
		out.compressed, out.closer = zw, zw
	case Zlib:
		zw := zlib.NewWriter(w)
		out.compressed, out.closer = zw, zw
	}
	return out, nil
}

// Write appends one record frame.
func (w *Writer) Write(rec record.Record) error {
	w.scratch.Reset()
	if err := gob.NewEncoder(&w.scratch).Encode(&rec); err != nil {
		return err
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(w.scratch.Len()))
	if _, err := w.compressed.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.compressed.Write(w.scratch.Bytes())
	return err
}

// Close flushes the compressor. The underlying writer stays open.
func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Reader decodes records from a record file.
type Reader struct {
	compressed io.Reader
	closer     io.Closer
}

// NewReader validates the file header and returns a Reader positioned at
// the first record frame.
func NewReader(r io.Reader) (*Reader, error) {
	header := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if string(header[:len(magic)]) != magic {
		return nil, fmt.Errorf("not a record file: bad magic %q", header[:len(magic)])
	}
	if header[len(magic)] != version {
		return nil, fmt.Errorf("unsupported record file version %d", header[len(magic)])
	}
	compression, err := compressionFromByte(header[len(magic)+1])
	if err != nil {
		return nil, err
	}
	out := &Reader{compressed: r}
	switch compression {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		out.compressed, out.closer = zr, zr
	case Zlib:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		out.compressed, out.closer = zr, zr
	}
	return out, nil
}

// Next reads one record frame. It returns io.EOF at a clean end of file;
// a truncated frame is an io.ErrUnexpectedEOF.
func (r *Reader) Next() (record.Record, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r.compressed, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading frame length: %w", err)
	}
	payload := make([]byte, binary.BigEndian.Uint32(prefix[:]))
	if _, err := io.ReadFull(r.compressed, payload); err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}
	var rec record.Record
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return rec, nil
}

// Close releases the decompressor. The underlying reader stays open.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
