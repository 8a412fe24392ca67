// Package evaluate computes the log-likelihood of a corpus under a trained
// model, used to monitor training convergence.
//
// Grounded on training/model_evaluator.py.
package evaluate

import (
	"math"

	"github.com/cognicore/sparselda/pkg/sparselda/document"
	"github.com/cognicore/sparselda/pkg/sparselda/model"
)

// Evaluator computes corpus log-likelihood against a fixed model snapshot.
// It caches p(w|z) for every model-known word at construction, so repeated
// calls to LogLikelihood for different document sets don't recompute it.
type Evaluator struct {
	model        *model.Model
	wordTopicDist map[int32][]float64
}

// New builds an Evaluator over m, computing p(w|z) for every word m knows
// against a vocabulary of size vocabSize.
func New(m *model.Model, vocabSize int32) *Evaluator {
	return &Evaluator{
		model:         m,
		wordTopicDist: m.WordTopicDist(vocabSize),
	}
}

// LogLikelihood computes log p(D|M) = sum_d log p(d) over docs, where
// p(d) = prod_w sum_z p(z|d) p(w|z). Words the model has never seen are
// skipped per the original's treatment of OOV words.
func (e *Evaluator) LogLikelihood(docs []*document.Document) float64 {
	total := 0.0
	for _, doc := range docs {
		total += e.documentLogLikelihood(doc)
	}
	return total
}

func (e *Evaluator) documentLogLikelihood(doc *document.Document) float64 {
	docTopicDist := e.denseDocTopicDist(doc)

	ll := 0.0
	for _, w := range doc.Words() {
		wordDist, ok := e.wordTopicDist[w.ID]
		if !ok {
			continue
		}
		wordProbSum := 0.0
		for topic, p := range wordDist {
			wordProbSum += p * docTopicDist[topic]
		}
		ll += math.Log(wordProbSum)
	}
	return ll
}

func (e *Evaluator) denseDocTopicDist(doc *document.Document) []float64 {
	denom := e.model.HyperParams.TopicPrior*float64(e.model.NumTopics) + float64(doc.NumWords())
	dist := make([]float64, e.model.NumTopics)
	for z := range dist {
		dist[z] = e.model.HyperParams.TopicPrior / denom
	}
	for _, nz := range doc.TopicHistogram().Entries() {
		dist[nz.Topic] = (e.model.HyperParams.TopicPrior + float64(nz.Count)) / denom
	}
	return dist
}
