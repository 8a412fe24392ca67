package multichain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cognicore/sparselda/pkg/sparselda/infer"
	"github.com/cognicore/sparselda/pkg/sparselda/model"
)

type fakeVocab struct{ known map[string]int32 }

func (f fakeVocab) WordIndex(token string) int32 {
	id, ok := f.known[token]
	if !ok {
		return -1
	}
	return id
}

func buildModel(t *testing.T, k, vocabSize int32, seed int64) *model.Model {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := model.New(k, model.DefaultHyperParams())
	for w := int32(0); w < vocabSize; w++ {
		topic := int32(rng.Intn(int(k)))
		count := int32(1 + rng.Intn(5))
		m.WordTopicHistFor(w).Increase(topic, count)
		m.GlobalTopicHist[topic] += count
	}
	return m
}

func TestMultiChainInferTopicsNormalizesAndIsConcurrencySafe(t *testing.T) {
	const k = int32(10)
	const vocabSize = int32(12)
	m := buildModel(t, k, vocabSize, 5)
	ctx, err := infer.NewContext(m, vocabSize, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	known := make(map[string]int32, vocabSize)
	tokens := make([]string, 0, vocabSize)
	for w := int32(0); w < vocabSize; w++ {
		tok := string(rune('a' + w))
		known[tok] = w
		tokens = append(tokens, tok, tok, tok)
	}
	vocab := fakeVocab{known: known}

	mc := New(ctx, vocab, 8, 150, 30)
	dist := mc.InferTopics(tokens)

	if len(dist) == 0 {
		t.Fatal("InferTopics returned empty distribution")
	}
	sum := 0.0
	for topic, p := range dist {
		if topic < 0 || topic >= k {
			t.Fatalf("topic %d out of range", topic)
		}
		if p < 0 {
			t.Fatalf("negative mass %v for topic %d", p, topic)
		}
		sum += p
	}
	if diff := math.Abs(sum - 1.0); diff > 1e-9 {
		t.Fatalf("sum(dist) = %v, want 1.0", sum)
	}
}

func TestMultiChainAllOOVTokensYieldsEmpty(t *testing.T) {
	const k = int32(5)
	m := buildModel(t, k, 5, 1)
	ctx, err := infer.NewContext(m, 5, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	vocab := fakeVocab{known: map[string]int32{}}

	mc := New(ctx, vocab, 4, 50, 10)
	dist := mc.InferTopics([]string{"unknown"})
	if len(dist) != 0 {
		t.Fatalf("InferTopics on OOV tokens = %v, want empty", dist)
	}
}

func TestMultiChainDefaultsToAtLeastOneChain(t *testing.T) {
	const k = int32(3)
	m := buildModel(t, k, 3, 2)
	ctx, err := infer.NewContext(m, 3, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	vocab := fakeVocab{known: map[string]int32{"a": 0}}

	mc := New(ctx, vocab, 0, 20, 5)
	if mc.NumChains != 1 {
		t.Fatalf("NumChains = %d, want 1 when requested 0", mc.NumChains)
	}
}
