package document

import (
	"math/rand"
	"testing"
)

// fakeVocab is a minimal VocabularyLookup for tests.
type fakeVocab struct {
	index map[string]int32
}

func (f fakeVocab) WordIndex(token string) int32 {
	if id, ok := f.index[token]; ok {
		return id
	}
	return -1
}

// fakeModel is a minimal ModelLookup for tests.
type fakeModel struct {
	known map[int32]bool
}

func (f fakeModel) HasWord(wordID int32) bool { return f.known[wordID] }

func TestParseFromTokensFiltersUnknownVocab(t *testing.T) {
	vocab := fakeVocab{index: map[string]int32{
		"macbook": 0, "ipad": 1, "mac os x": 2, "chrome": 3,
	}}
	tokens := []string{"macbook", "ipad", "mac os x", "chrome", "nokia", "null"}

	doc := New(20)
	doc.ParseFromTokens(tokens, rand.New(rand.NewSource(1)), vocab, nil)
	if doc.NumWords() != 4 {
		t.Fatalf("NumWords() without model = %d, want 4", doc.NumWords())
	}
}

func TestParseFromTokensFiltersUnknownModel(t *testing.T) {
	vocab := fakeVocab{index: map[string]int32{
		"macbook": 0, "ipad": 1, "mac os x": 2, "chrome": 3,
	}}
	model := fakeModel{known: map[int32]bool{0: true, 1: true}}
	tokens := []string{"macbook", "ipad", "mac os x", "chrome", "nokia", "null"}

	doc := New(20)
	doc.ParseFromTokens(tokens, rand.New(rand.NewSource(1)), vocab, model)
	if doc.NumWords() != 2 {
		t.Fatalf("NumWords() with model = %d, want 2", doc.NumWords())
	}
}

func TestTopicHistogramInvariant(t *testing.T) {
	vocab := fakeVocab{index: map[string]int32{"a": 0, "b": 1, "c": 2}}
	doc := New(4)
	doc.ParseFromTokens([]string{"a", "b", "c", "a", "b"}, rand.New(rand.NewSource(7)), vocab, nil)

	counts := map[int32]int32{}
	for _, w := range doc.Words() {
		counts[w.Topic]++
	}
	for topic, want := range counts {
		if got := doc.GetTopicCount(topic); got != want {
			t.Errorf("GetTopicCount(%d) = %d, want %d", topic, got, want)
		}
	}
}

func TestIncreaseDecreaseTopicKeepsHistogramInSync(t *testing.T) {
	doc := New(5)
	doc.words = []Word{{ID: 0, Topic: 1}}
	doc.IncreaseTopic(1, 1)

	if doc.GetTopicCount(1) != 1 {
		t.Fatalf("GetTopicCount(1) = %d, want 1", doc.GetTopicCount(1))
	}
	doc.DecreaseTopic(1, 1)
	if doc.GetTopicCount(1) != 0 {
		t.Fatalf("GetTopicCount(1) = %d, want 0", doc.GetTopicCount(1))
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	vocab := fakeVocab{index: map[string]int32{"a": 0, "b": 1, "c": 2}}
	doc := New(10)
	doc.ParseFromTokens([]string{"a", "b", "c", "a"}, rand.New(rand.NewSource(42)), vocab, nil)

	blob := doc.Serialize()

	got := New(10)
	if err := got.ParseFromBytes(blob); err != nil {
		t.Fatalf("ParseFromBytes: %v", err)
	}
	if got.NumWords() != doc.NumWords() {
		t.Fatalf("NumWords() after round-trip = %d, want %d", got.NumWords(), doc.NumWords())
	}
	for i, w := range doc.Words() {
		if got.Words()[i] != w {
			t.Errorf("word %d = %+v, want %+v", i, got.Words()[i], w)
		}
	}
	for _, topic := range []int32{0, 1, 2, 3} {
		if got.GetTopicCount(topic) != doc.GetTopicCount(topic) {
			t.Errorf("GetTopicCount(%d) after round-trip = %d, want %d",
				topic, got.GetTopicCount(topic), doc.GetTopicCount(topic))
		}
	}
}

func TestParseFromBytesTruncated(t *testing.T) {
	doc := New(5)
	if err := doc.ParseFromBytes([]byte{1, 2}); err == nil {
		t.Fatal("expected error parsing truncated blob")
	}
}
