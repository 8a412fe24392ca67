package infer

import (
	"hash/fnv"
	"math/rand"

	"github.com/cognicore/sparselda/pkg/sparselda/document"
)

// VocabularyLookup is the subset of vocabulary.Vocabulary that inference
// needs.
type VocabularyLookup interface {
	WordIndex(token string) int32
}

// Sampler runs SparseLDA two-bucket inference against a frozen Context.
type Sampler struct {
	Context *Context
	Vocab   VocabularyLookup

	TotalIterations  int
	BurnInIterations int
}

// NewSampler creates an inference Sampler. ctx must outlive the sampler;
// it is read-only and may be shared across many Samplers/chains.
func NewSampler(ctx *Context, vocab VocabularyLookup, totalIterations, burnInIterations int) *Sampler {
	return &Sampler{
		Context:          ctx,
		Vocab:            vocab,
		TotalIterations:  totalIterations,
		BurnInIterations: burnInIterations,
	}
}

// HashSeed derives a deterministic int64 seed from a token sequence and a
// chain index, per §5's RNG policy: identical inputs (tokens, chainIndex)
// always produce the same seed within a build.
func HashSeed(tokens []string, chainIndex int) int64 {
	h := fnv.New64a()
	for _, tok := range tokens {
		h.Write([]byte(tok))
		h.Write([]byte{0})
	}
	var idxBuf [8]byte
	idx := uint64(chainIndex)
	for i := 0; i < 8; i++ {
		idxBuf[i] = byte(idx >> (8 * i))
	}
	h.Write(idxBuf[:])
	return int64(h.Sum64())
}

// InferTopics infers a topic distribution for tokens using a single chain
// seeded deterministically from tokens alone (chain index 0). Returns an
// empty map if no token survives vocabulary/model filtering.
func (s *Sampler) InferTopics(tokens []string) map[int32]float64 {
	rng := rand.New(rand.NewSource(HashSeed(tokens, 0)))
	return s.InferTopicsWithRNG(tokens, rng)
}

// InferTopicsWithRNG runs one inference chain using the caller-supplied
// rng, letting MultiChain give each chain an independently seeded RNG
// while sharing this Sampler's Context.
func (s *Sampler) InferTopicsWithRNG(tokens []string, rng *rand.Rand) map[int32]float64 {
	doc := document.New(s.Context.Model.NumTopics)
	doc.ParseFromTokens(tokens, rng, s.Vocab, s.Context)
	if doc.NumWords() == 0 {
		return map[int32]float64{}
	}

	accumulated := make(map[int32]float64)
	for i := 0; i < s.TotalIterations; i++ {
		s.sweepOnce(doc, rng)
		if i >= s.BurnInIterations {
			for _, nz := range doc.TopicHistogram().Entries() {
				accumulated[nz.Topic] += float64(nz.Count)
			}
		}
	}
	return L1Normalize(accumulated)
}

func (s *Sampler) sweepOnce(doc *document.Document, rng *rand.Rand) {
	words := doc.Words()
	for i := range words {
		w := &words[i]
		doc.DecreaseTopic(w.Topic, 1)
		newTopic := s.sampleWordTopic(doc, w.ID, rng)
		w.Topic = newTopic
		doc.IncreaseTopic(newTopic, 1)
	}
}

// sampleWordTopic implements the two-bucket conditional of §4.4:
// r(z,w,d) = N(z|d)*p(w|z), scanned sparsely over doc's nonzero topics,
// plus a smoothing-only bucket s(z,w) = alpha*p(w|z) scanned over all K.
func (s *Sampler) sampleWordTopic(doc *document.Document, wordID int32, rng *rand.Rand) int32 {
	dist := s.Context.WordTopicDist(wordID)
	entries := doc.TopicHistogram().Entries()

	rVals := make([]float64, len(entries))
	rSum := 0.0
	for i, nz := range entries {
		rVals[i] = float64(nz.Count) * dist[nz.Topic]
		rSum += rVals[i]
	}

	smoothingSum := s.Context.SmoothingOnlySum(wordID)
	total := smoothingSum + rSum
	u := rng.Float64() * total

	if u < rSum {
		for i, nz := range entries {
			u -= rVals[i]
			if u <= 0 {
				return nz.Topic
			}
		}
		return entries[len(entries)-1].Topic
	}

	u -= rSum
	var last int32
	for z := int32(0); z < s.Context.Model.NumTopics; z++ {
		u -= s.Context.Model.HyperParams.TopicPrior * dist[z]
		last = z
		if u <= 0 {
			return z
		}
	}
	return last
}

// L1Normalize returns weights rescaled to sum to 1, or an empty map if the
// total weight is zero.
func L1Normalize(weights map[int32]float64) map[int32]float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return map[int32]float64{}
	}
	out := make(map[int32]float64, len(weights))
	for topic, w := range weights {
		out[topic] = w / sum
	}
	return out
}
