// Package recordio implements the length-prefixed binary record framing
// used to persist LDA corpora and models: each record is a big-endian
// uint32 length followed by that many bytes. End of stream is a clean,
// zero-length read at a record boundary (io.EOF).
//
// Grounded on the original project's common/recordio.py; reimplemented on
// encoding/binary because no library in the reference corpus provides
// length-prefixed record framing and the wire format must match an
// external, already-deployed schema bit-for-bit.
package recordio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/cognicore/sparselda/pkg/sparselda/internalerr"
)

// MaxRecordBytes is the largest record a Writer will emit or a Reader will
// accept, 64 MiB per §6.
const MaxRecordBytes = 64 * 1024 * 1024

// Writer appends length-prefixed records to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for record-framed writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends blob as one record. It refuses (returning
// internalerr.ErrRecordTooLarge) blobs larger than MaxRecordBytes.
func (rw *Writer) Write(blob []byte) error {
	if len(blob) > MaxRecordBytes {
		return fmt.Errorf("recordio: write %d bytes: %w", len(blob), internalerr.ErrRecordTooLarge)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(blob)))
	if _, err := rw.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("recordio: write length prefix: %w", err)
	}
	if _, err := rw.w.Write(blob); err != nil {
		return fmt.Errorf("recordio: write record body: %w", err)
	}
	return nil
}

// Reader reads back records written by a Writer.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r for record-framed reads.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read returns the next record. At a clean record boundary with no more
// data it returns io.EOF. A record whose declared length exceeds
// MaxRecordBytes is logged once and reported as
// internalerr.ErrRecordTooLarge; a short length prefix or a body shorter
// than declared is logged once and reported as
// internalerr.ErrTruncatedRecord — the caller aborts the operation per §7
// kind 2; checkpoints already written are unaffected.
func (rr *Reader) Read() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(rr.r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		log.Printf("recordio: short length prefix: %v", err)
		return nil, fmt.Errorf("recordio: read length prefix: %w", internalerr.ErrTruncatedRecord)
	}

	blobLen := binary.BigEndian.Uint32(lenBuf[:])
	if blobLen > MaxRecordBytes {
		log.Printf("recordio: record size %d exceeds maximum %d", blobLen, MaxRecordBytes)
		return nil, fmt.Errorf("recordio: read record: %w", internalerr.ErrRecordTooLarge)
	}

	blob := make([]byte, blobLen)
	if _, err := io.ReadFull(rr.r, blob); err != nil {
		log.Printf("recordio: premature end of stream reading %d-byte record: %v", blobLen, err)
		return nil, fmt.Errorf("recordio: read record body: %w", internalerr.ErrTruncatedRecord)
	}
	return blob, nil
}

// ReadAll drains every record from r until io.EOF, invoking fn with each.
// It stops and returns fn's error immediately if fn returns one.
func ReadAll(r io.Reader, fn func([]byte) error) error {
	rr := NewReader(r)
	for {
		blob, err := rr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(blob); err != nil {
			return err
		}
	}
}
