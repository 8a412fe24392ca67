package infer

import (
	"math"
	"math/rand"
	"testing"

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

func TestInferTopicsEmptyInputYieldsEmptyDistribution(t *testing.T) {
	const k = int32(20)
	m := buildModel(t, k, 17, 1)
	ctx, err := NewContext(m, 17, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	vocab := fakeVocab{known: map[string]int32{"known": 0}}
	s := NewSampler(ctx, vocab, 100, 20)

	dist := s.InferTopics([]string{"unknown1", "unknown2"})
	if len(dist) != 0 {
		t.Fatalf("InferTopics on all-OOV tokens = %v, want empty map", dist)
	}
}

func TestInferTopicsShapeAndNormalization(t *testing.T) {
	const k = int32(20)
	const vocabSize = int32(17)
	m := buildModel(t, k, vocabSize, 2)
	ctx, err := NewContext(m, vocabSize, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	known := make(map[string]int32, vocabSize)
	tokens := make([]string, 0, vocabSize)
	for w := int32(0); w < vocabSize; w++ {
		tok := string(rune('a' + w))
		known[tok] = w
		tokens = append(tokens, tok, tok)
	}
	vocab := fakeVocab{known: known}
	s := NewSampler(ctx, vocab, 200, 50)

	dist := s.InferTopics(tokens)
	if len(dist) == 0 {
		t.Fatal("InferTopics returned empty distribution for in-vocabulary tokens")
	}
	if len(dist) > int(k) {
		t.Fatalf("support size %d exceeds K=%d", len(dist), k)
	}

	sum := 0.0
	for topic, p := range dist {
		if topic < 0 || topic >= k {
			t.Fatalf("topic %d out of range [0,%d)", topic, k)
		}
		if p < 0 {
			t.Fatalf("negative probability mass %v for topic %d", p, topic)
		}
		sum += p
	}
	if diff := math.Abs(sum - 1.0); diff > 1e-9 {
		t.Fatalf("sum(dist) = %v, want 1.0 within 1e-9", sum)
	}
}

func TestHashSeedDeterministicAndChainSensitive(t *testing.T) {
	tokens := []string{"alpha", "beta", "gamma"}
	a := HashSeed(tokens, 0)
	b := HashSeed(tokens, 0)
	if a != b {
		t.Fatalf("HashSeed not deterministic: %d vs %d", a, b)
	}
	c := HashSeed(tokens, 1)
	if a == c {
		t.Fatalf("HashSeed identical across chain indices: %d", a)
	}
}

func TestL1NormalizeZeroWeightsYieldsEmpty(t *testing.T) {
	got := L1Normalize(map[int32]float64{0: 0, 1: 0})
	if len(got) != 0 {
		t.Fatalf("L1Normalize of all-zero weights = %v, want empty", got)
	}
}

func TestL1NormalizeSumsToOne(t *testing.T) {
	got := L1Normalize(map[int32]float64{0: 1, 1: 3})
	sum := 0.0
	for _, v := range got {
		sum += v
	}
	if diff := math.Abs(sum - 1.0); diff > 1e-12 {
		t.Fatalf("sum = %v, want 1.0", sum)
	}
	if diff := math.Abs(got[0] - 0.25); diff > 1e-12 {
		t.Errorf("got[0] = %v, want 0.25", got[0])
	}
}
