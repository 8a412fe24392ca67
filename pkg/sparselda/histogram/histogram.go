// Package histogram implements OrderedSparseHistogram, a sparse
// topic -> count map maintained in count-descending order.
//
// Only non-zero counts are stored. increase/decrease locate the entry
// (O(K_nz)) and then bubble it toward the correct end of the slice
// (O(1) amortized for the common +-1 update), which is what lets the
// SparseLDA bucket scans visit hot topics first.
package histogram

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cognicore/sparselda/pkg/sparselda/internalerr"
)

// NonZero is one (topic, count) entry of an OrderedSparseHistogram.
type NonZero struct {
	Topic int32
	Count int32
}

// Histogram is a mutable sparse map from topic to strictly-positive count,
// maintained in non-increasing order by count. The zero value is not
// usable; construct with New.
type Histogram struct {
	numTopics int32
	entries   []NonZero
}

// New creates an empty histogram over numTopics topics.
func New(numTopics int32) *Histogram {
	if numTopics <= 0 {
		panic(fmt.Sprintf("histogram: numTopics must be positive, got %d", numTopics))
	}
	return &Histogram{numTopics: numTopics}
}

// NumTopics returns K, the topic cardinality this histogram was built over.
func (h *Histogram) NumTopics() int32 { return h.numTopics }

// Size returns the number of distinct topics with positive count.
func (h *Histogram) Size() int { return len(h.entries) }

// Count returns the current count for topic, or 0 if absent.
func (h *Histogram) Count(topic int32) int32 {
	for _, nz := range h.entries {
		if nz.Topic == topic {
			return nz.Count
		}
	}
	return 0
}

// Entries returns the histogram's (topic, count) pairs in count-descending
// order. The returned slice aliases internal state and is invalidated by
// any subsequent mutation of h; callers must not retain it across a call to
// Increase or Decrease.
func (h *Histogram) Entries() []NonZero { return h.entries }

// Increase adds count to topic's current count (0 if absent) and bubbles
// the entry toward the front of the slice while it now strictly exceeds its
// left neighbor. Returns the updated count.
func (h *Histogram) Increase(topic int32, count int32) int32 {
	if topic < 0 || topic >= h.numTopics || count <= 0 {
		panic(fmt.Sprintf("histogram: invalid Increase(topic=%d, count=%d) for K=%d", topic, count, h.numTopics))
	}

	index := -1
	for i := range h.entries {
		if h.entries[i].Topic == topic {
			h.entries[i].Count += count
			index = i
			break
		}
	}
	if index == -1 {
		h.entries = append(h.entries, NonZero{Topic: topic, Count: count})
		index = len(h.entries) - 1
	}

	nz := h.entries[index]
	for index > 0 && nz.Count > h.entries[index-1].Count {
		h.entries[index] = h.entries[index-1]
		index--
	}
	h.entries[index] = nz
	return nz.Count
}

// Decrease subtracts count from topic's current count. The entry must
// already exist and the result must be non-negative; violating either is a
// programming error and panics, per the invariant in §4.1. If the result
// reaches zero the entry is removed; otherwise it is bubbled toward the
// back while it is now strictly less than its right neighbor. Returns the
// updated count (possibly 0).
func (h *Histogram) Decrease(topic int32, count int32) int32 {
	if topic < 0 || topic >= h.numTopics || count <= 0 {
		panic(fmt.Sprintf("histogram: invalid Decrease(topic=%d, count=%d) for K=%d", topic, count, h.numTopics))
	}

	index := -1
	for i := range h.entries {
		if h.entries[i].Topic == topic {
			h.entries[i].Count -= count
			if h.entries[i].Count < 0 {
				panic(fmt.Sprintf("histogram: Decrease(topic=%d, count=%d) drove count negative", topic, count))
			}
			index = i
			break
		}
	}
	if index == -1 {
		panic(fmt.Sprintf("histogram: Decrease on absent topic %d", topic))
	}

	nz := h.entries[index]
	for index < len(h.entries)-1 && nz.Count < h.entries[index+1].Count {
		h.entries[index] = h.entries[index+1]
		index++
	}
	if nz.Count == 0 {
		h.entries = h.entries[:index]
	} else {
		h.entries[index] = nz
	}
	return nz.Count
}

// Serialize writes the histogram as a flat length-prefixed list of (topic,
// count) pairs in current order: a little-endian uint32 count of entries
// followed by that many (int32, int32) pairs.
func (h *Histogram) Serialize() []byte {
	buf := make([]byte, 4+8*len(h.entries))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(h.entries)))
	off := 4
	for _, nz := range h.entries {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(nz.Topic))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], uint32(nz.Count))
		off += 8
	}
	return buf
}

// Parse replaces h's contents by decoding the blob produced by Serialize.
func (h *Histogram) Parse(blob []byte) error {
	if len(blob) < 4 {
		return fmt.Errorf("histogram: parse: %w", internalerr.ErrTruncatedRecord)
	}
	n := binary.LittleEndian.Uint32(blob[0:4])
	want := 4 + 8*int(n)
	if len(blob) < want {
		return fmt.Errorf("histogram: parse: %w", internalerr.ErrTruncatedRecord)
	}
	entries := make([]NonZero, 0, n)
	off := 4
	for i := uint32(0); i < n; i++ {
		topic := int32(binary.LittleEndian.Uint32(blob[off : off+4]))
		count := int32(binary.LittleEndian.Uint32(blob[off+4 : off+8]))
		entries = append(entries, NonZero{Topic: topic, Count: count})
		off += 8
	}
	h.entries = entries
	return nil
}

// WriteTo writes the Serialize form to w, for use inside a larger framed
// record (see recordio).
func (h *Histogram) WriteTo(w io.Writer) (int64, error) {
	buf := h.Serialize()
	n, err := w.Write(buf)
	return int64(n), err
}
