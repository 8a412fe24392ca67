// Package infer implements the SparseLDA two-bucket inference algorithm:
// given a frozen Model, assign a topic distribution to a new document by
// repeated Gibbs sampling against cached topic-word probabilities.
//
// Grounded on inference/sparselda_gibbs_sampler.py.
package infer

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/sparselda/pkg/sparselda/model"
)

// Context holds the read-only precomputed state both InferSampler and
// MultiChain need: the model, and a cache of dense p(w|z) rows. It is safe
// for concurrent use by multiple chains since it never mutates the model
// and the underlying LRU cache is internally synchronized.
//
// The cache, rather than an unbounded precomputed matrix, acts on the
// original source's own TODO ("only cache sub-matrix p(w|z) of frequency
// words") — a cache sized to the full vocabulary behaves identically to a
// precomputed dense matrix, but a smaller size bounds memory for large
// vocabularies at the cost of recomputing p(w|z) for cold words.
type Context struct {
	Model     *model.Model
	VocabSize int32

	dist *lru.Cache[int32, []float64]
}

// NewContext builds an inference context over m for a vocabulary of size
// vocabSize. cacheSize is the number of words' dense p(w|z) rows to keep
// cached; pass 0 to size the cache to the model's full known vocabulary
// (no eviction, matching the spec's "precompute for every w in model").
func NewContext(m *model.Model, vocabSize int32, cacheSize int) (*Context, error) {
	if cacheSize <= 0 {
		cacheSize = len(m.WordTopicHist)
	}
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New[int32, []float64](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Context{Model: m, VocabSize: vocabSize, dist: cache}, nil
}

// WordTopicDist returns the dense length-K array p(w|z) for wordID,
// computing and caching it on a miss.
func (c *Context) WordTopicDist(wordID int32) []float64 {
	if dense, ok := c.dist.Get(wordID); ok {
		return dense
	}
	dense := c.computeWordTopicDist(wordID)
	c.dist.Add(wordID, dense)
	return dense
}

func (c *Context) computeWordTopicDist(wordID int32) []float64 {
	wordPriorSum := c.Model.HyperParams.WordPrior * float64(c.VocabSize)
	dense := make([]float64, c.Model.NumTopics)
	for z := int32(0); z < c.Model.NumTopics; z++ {
		dense[z] = c.Model.HyperParams.WordPrior / (wordPriorSum + float64(c.Model.GlobalTopicHist[z]))
	}
	if hist, ok := c.Model.WordTopicHist[wordID]; ok {
		for _, nz := range hist.Entries() {
			dense[nz.Topic] = (c.Model.HyperParams.WordPrior + float64(nz.Count)) /
				(wordPriorSum + float64(c.Model.GlobalTopicHist[nz.Topic]))
		}
	}
	return dense
}

// SmoothingOnlySum returns s(z,w)'s total mass, Σ_z alpha * p(w|z).
func (c *Context) SmoothingOnlySum(wordID int32) float64 {
	dense := c.WordTopicDist(wordID)
	sum := 0.0
	for _, p := range dense {
		sum += c.Model.HyperParams.TopicPrior * p
	}
	return sum
}

// HasWord reports whether wordID is known to the underlying model,
// satisfying document.ModelLookup.
func (c *Context) HasWord(wordID int32) bool { return c.Model.HasWord(wordID) }
