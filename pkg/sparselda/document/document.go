// Package document implements Document, an ordered sequence of
// (word-id, topic) assignments plus a cached per-document topic histogram
// N(z|d).
package document

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/cognicore/sparselda/pkg/sparselda/histogram"
	"github.com/cognicore/sparselda/pkg/sparselda/internalerr"
)

// Word is one token occurrence: its vocabulary id and current topic
// assignment.
type Word struct {
	ID    int32
	Topic int32
}

// VocabularyLookup is the subset of vocabulary.Vocabulary that Document
// needs, kept as an interface here to avoid document depending on the
// concrete vocabulary package.
type VocabularyLookup interface {
	WordIndex(token string) int32
}

// ModelLookup is the subset of model.Model that Document needs to
// distinguish training initialization (any vocabulary word) from inference
// initialization (only words the model has ever seen).
type ModelLookup interface {
	HasWord(wordID int32) bool
}

// Document is a sequence of (word-id, topic) pairs with a cached per-
// document topic histogram. The invariant doc_topic_hist.Count(z) == the
// number of Words with Topic == z is maintained by routing every topic
// mutation through IncreaseTopic/DecreaseTopic.
type Document struct {
	numTopics int32
	words     []Word
	topicHist *histogram.Histogram
}

// New creates an empty document over numTopics topics.
func New(numTopics int32) *Document {
	return &Document{
		numTopics: numTopics,
		topicHist: histogram.New(numTopics),
	}
}

// ParseFromTokens clears prior state and rebuilds the document from
// doc_tokens. Tokens absent from vocab are skipped. If model is non-nil,
// tokens the model has never seen are also skipped (inference
// initialization); a nil model accepts any vocabulary word (training
// initialization). Each accepted token is assigned a topic drawn uniformly
// from rng.
func (d *Document) ParseFromTokens(tokens []string, rng *rand.Rand, vocab VocabularyLookup, model ModelLookup) {
	d.words = nil
	d.topicHist = histogram.New(d.numTopics)

	for _, tok := range tokens {
		wordID := vocab.WordIndex(tok)
		if wordID == -1 {
			continue
		}
		if model != nil && !model.HasWord(wordID) {
			continue
		}
		topic := int32(rng.Intn(int(d.numTopics)))
		d.words = append(d.words, Word{ID: wordID, Topic: topic})
		d.topicHist.Increase(topic, 1)
	}
}

// NumWords returns the number of token occurrences in the document.
func (d *Document) NumWords() int { return len(d.words) }

// Words returns the document's word occurrences in stored order. The
// returned slice aliases internal state; callers mutate Topic fields in
// place during Gibbs sampling but must keep doc_topic_hist in sync via
// IncreaseTopic/DecreaseTopic.
func (d *Document) Words() []Word { return d.words }

// TopicHistogram returns the document's N(z|d) histogram.
func (d *Document) TopicHistogram() *histogram.Histogram { return d.topicHist }

// GetTopicCount returns N(z|d).
func (d *Document) GetTopicCount(topic int32) int32 { return d.topicHist.Count(topic) }

// IncreaseTopic adds count to N(topic|d) and returns the updated count.
func (d *Document) IncreaseTopic(topic int32, count int32) int32 {
	return d.topicHist.Increase(topic, count)
}

// DecreaseTopic subtracts count from N(topic|d) and returns the updated
// count.
func (d *Document) DecreaseTopic(topic int32, count int32) int32 {
	return d.topicHist.Decrease(topic, count)
}

// Serialize encodes the document's (word-id, topic) pairs as a flat
// length-prefixed list, matching the persisted Document record of §6: a
// little-endian uint32 word count followed by that many (int32, int32)
// pairs.
func (d *Document) Serialize() []byte {
	buf := make([]byte, 4+8*len(d.words))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(d.words)))
	off := 4
	for _, w := range d.words {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(w.ID))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], uint32(w.Topic))
		off += 8
	}
	return buf
}

// ParseFromBytes replaces the document's contents by decoding blob produced
// by Serialize, rebuilding doc_topic_hist by replaying Increase for every
// pair.
func (d *Document) ParseFromBytes(blob []byte) error {
	if len(blob) < 4 {
		return fmt.Errorf("document: parse: %w", internalerr.ErrTruncatedRecord)
	}
	n := binary.LittleEndian.Uint32(blob[0:4])
	want := 4 + 8*int(n)
	if len(blob) < want {
		return fmt.Errorf("document: parse: %w", internalerr.ErrTruncatedRecord)
	}

	d.words = make([]Word, 0, n)
	d.topicHist = histogram.New(d.numTopics)
	off := 4
	for i := uint32(0); i < n; i++ {
		id := int32(binary.LittleEndian.Uint32(blob[off : off+4]))
		topic := int32(binary.LittleEndian.Uint32(blob[off+4 : off+8]))
		d.words = append(d.words, Word{ID: id, Topic: topic})
		d.topicHist.Increase(topic, 1)
		off += 8
	}
	return nil
}
