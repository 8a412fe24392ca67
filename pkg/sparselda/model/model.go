// Package model implements Model, the LDA parameters shared by training
// and inference: the global topic histogram N(z), the per-word topic
// histograms N(w|z), and the Dirichlet hyperparameters (alpha, beta).
//
// A Model is mutated only by the training sampler; the inference sampler
// treats it as read-only, per §3's lifecycle contract.
package model

import (
	"github.com/cognicore/sparselda/pkg/sparselda/histogram"
)

// HyperParams holds the Dirichlet priors: alpha (topic_prior, over
// document-topic distributions) and beta (word_prior, over topic-word
// distributions). Defaults are alpha=0.1, beta=0.01 per §6 and §9's
// resolution of the source's constructor/trainer default discrepancy in
// favor of the trainer.
type HyperParams struct {
	TopicPrior float64 // alpha
	WordPrior  float64 // beta
}

// DefaultHyperParams returns the trainer's authoritative defaults.
func DefaultHyperParams() HyperParams {
	return HyperParams{TopicPrior: 0.1, WordPrior: 0.01}
}

// Model owns the global and per-word topic counts plus the hyperparameters
// for a K-topic LDA model.
type Model struct {
	NumTopics       int32
	GlobalTopicHist []int32                        // N(z), indexed by topic
	WordTopicHist   map[int32]*histogram.Histogram  // word-id -> N(.|z)
	HyperParams     HyperParams
}

// New creates a Model with empty counts, ready for training.
func New(numTopics int32, hp HyperParams) *Model {
	return &Model{
		NumTopics:       numTopics,
		GlobalTopicHist: make([]int32, numTopics),
		WordTopicHist:   make(map[int32]*histogram.Histogram),
		HyperParams:     hp,
	}
}

// HasWord reports whether wordID has at least one nonzero topic count.
func (m *Model) HasWord(wordID int32) bool {
	_, ok := m.WordTopicHist[wordID]
	return ok
}

// GetTopicCount returns N(z).
func (m *Model) GetTopicCount(topic int32) int32 { return m.GlobalTopicHist[topic] }

// WordTopicHistFor returns the per-word histogram for wordID, creating an
// empty one if absent. The returned histogram is owned by the model.
func (m *Model) WordTopicHistFor(wordID int32) *histogram.Histogram {
	h, ok := m.WordTopicHist[wordID]
	if !ok {
		h = histogram.New(m.NumTopics)
		m.WordTopicHist[wordID] = h
	}
	return h
}

// DropWordIfEmpty removes wordID's histogram from the model once it has no
// nonzero topics left, preserving "a word-id is present iff it has at
// least one nonzero topic count" (§3).
func (m *Model) DropWordIfEmpty(wordID int32) {
	if h, ok := m.WordTopicHist[wordID]; ok && h.Size() == 0 {
		delete(m.WordTopicHist, wordID)
	}
}

// WordTopicDist returns p(w|z) = (beta + N(w|z)) / (beta*V + N(z)) as a
// dense length-K array for every word the model has seen, given vocabulary
// size V.
func (m *Model) WordTopicDist(vocabSize int32) map[int32][]float64 {
	wordPriorSum := m.HyperParams.WordPrior * float64(vocabSize)

	dist := make(map[int32][]float64, len(m.WordTopicHist))
	for wordID, hist := range m.WordTopicHist {
		dense := make([]float64, m.NumTopics)
		for z := int32(0); z < m.NumTopics; z++ {
			dense[z] = m.HyperParams.WordPrior / (wordPriorSum + float64(m.GlobalTopicHist[z]))
		}
		for _, nz := range hist.Entries() {
			dense[nz.Topic] = (m.HyperParams.WordPrior + float64(nz.Count)) /
				(wordPriorSum + float64(m.GlobalTopicHist[nz.Topic]))
		}
		dist[wordID] = dense
	}
	return dist
}
