// Package train implements the SparseLDA three-bucket collapsed Gibbs
// sampling training algorithm of Yao, Mimno, and McCallum (2009).
//
// The conditional distribution p(z | w, d, rest) is factored as
//
//	p(z|.) ∝ s(z) + r(z,d) + q(z,w,d)
//	s(z)      = alpha * beta / (beta*V + N(z))
//	r(z,d)    = N(z|d) * beta / (beta*V + N(z))
//	q(z,w,d)  = N(w|z) * (alpha + N(z|d)) / (beta*V + N(z))
//	          = N(w|z) * q_coef(z,d)
//
// s(z) is word- and document-independent ("smoothing-only"), r(z,d) is
// nonzero only on the document's topics, and q(z,w,d) is nonzero only on
// the word's topics. Sampler keeps each bucket as a dense length-K array
// plus a running sum, maintained by local deltas on every token update
// rather than full re-summation, which is what makes a token update cost
// O(K_d + K_w) instead of O(K).
//
// Grounded on training/sparselda_train_gibbs_sampler.py.
package train

import (
	"math/rand"

	"github.com/cognicore/sparselda/pkg/sparselda/document"
	"github.com/cognicore/sparselda/pkg/sparselda/histogram"
	"github.com/cognicore/sparselda/pkg/sparselda/model"
)

// Sampler owns the model, the corpus, and the three bucket arrays for
// SparseLDA training. It is strictly single-threaded: nothing about it is
// safe for concurrent use (§5).
type Sampler struct {
	Model     *model.Model
	Documents []*document.Document

	wordPriorSum float64 // beta * V, cached from construction

	sBucket []float64 // s(z), dense over all K topics
	sSum    float64

	rBucket []float64 // r(z,d), dense but nonzero only on doc's topics
	rSum    float64

	qCoef   []float64 // q_coef(z,d), dense over all K topics
	qBucket []float64 // q(z,w,d), dense but nonzero only on word's topics
	qSum    float64
}

// NewSampler creates a Sampler over m, sized for a vocabulary of vocabSize
// words. Call LoadDocuments before GibbsSampling.
func NewSampler(m *model.Model, vocabSize int32) *Sampler {
	return &Sampler{
		Model:        m,
		wordPriorSum: m.HyperParams.WordPrior * float64(vocabSize),
		sBucket:      make([]float64, m.NumTopics),
		rBucket:      make([]float64, m.NumTopics),
		qCoef:        make([]float64, m.NumTopics),
		qBucket:      make([]float64, m.NumTopics),
	}
}

// LoadDocuments adopts docs as the training corpus, (re)builds the model's
// counts from their current topic assignments, and initializes the
// smoothing-only bucket and the topic-word coefficient array. docs must
// already carry a random initial topic per token (§4.2's training
// initialization); LoadDocuments does not assign topics itself.
func (s *Sampler) LoadDocuments(docs []*document.Document) {
	s.Documents = docs

	s.Model.GlobalTopicHist = make([]int32, s.Model.NumTopics)
	s.Model.WordTopicHist = make(map[int32]*histogram.Histogram)

	for _, doc := range docs {
		for _, w := range doc.Words() {
			s.Model.WordTopicHistFor(w.ID).Increase(w.Topic, 1)
			s.Model.GlobalTopicHist[w.Topic]++
		}
	}

	s.computeSmoothingOnlyBucket()
	s.initializeTopicWordCoefficient()
}

// GibbsSampling performs one full pass of collapsed Gibbs sampling over
// every document in the corpus, mutating the model and documents in place.
func (s *Sampler) GibbsSampling(rng *rand.Rand) {
	for _, doc := range s.Documents {
		s.gibbsSamplingDocument(doc, rng)
	}
}

// gibbsSamplingDocument runs the per-document pass of §4.6: compute r(z,d)
// and specialize q_coef once, then remove/sample/add every token, then
// un-specialize q_coef.
func (s *Sampler) gibbsSamplingDocument(doc *document.Document, rng *rand.Rand) {
	s.computeDocTopicBucket(doc)
	s.specializeTopicWordCoefficient(doc)

	words := doc.Words()
	for i := range words {
		w := &words[i]
		s.removeWordTopic(doc, w.ID, w.Topic)
		s.computeTopicWordBucket(w.ID)
		newTopic := s.sampleNewTopic(doc, w.ID, rng)
		w.Topic = newTopic
		s.addWordTopic(doc, w.ID, w.Topic)
	}

	s.resetTopicWordCoefficient(doc)
}

func (s *Sampler) computeSmoothingOnlyBucket() {
	s.sSum = 0
	for z := int32(0); z < s.Model.NumTopics; z++ {
		s.sBucket[z] = s.Model.HyperParams.TopicPrior * s.Model.HyperParams.WordPrior /
			(s.wordPriorSum + float64(s.Model.GlobalTopicHist[z]))
		s.sSum += s.sBucket[z]
	}
}

func (s *Sampler) initializeTopicWordCoefficient() {
	for z := int32(0); z < s.Model.NumTopics; z++ {
		s.qCoef[z] = s.Model.HyperParams.TopicPrior / (s.wordPriorSum + float64(s.Model.GlobalTopicHist[z]))
	}
}

// computeDocTopicBucket recomputes r(z,d) from scratch for doc; this is
// O(K) per document (not per token), which is acceptable per §4.6.
func (s *Sampler) computeDocTopicBucket(doc *document.Document) {
	for z := range s.rBucket {
		s.rBucket[z] = 0
	}
	s.rSum = 0
	for _, nz := range doc.TopicHistogram().Entries() {
		rb := float64(nz.Count) * s.Model.HyperParams.WordPrior /
			(s.wordPriorSum + float64(s.Model.GlobalTopicHist[nz.Topic]))
		s.rBucket[nz.Topic] = rb
		s.rSum += rb
	}
}

// specializeTopicWordCoefficient overwrites q_coef at doc's current nonzero
// topics with the document-specialized form (alpha+N(z|d))/(beta*V+N(z)).
func (s *Sampler) specializeTopicWordCoefficient(doc *document.Document) {
	for _, nz := range doc.TopicHistogram().Entries() {
		s.qCoef[nz.Topic] = (s.Model.HyperParams.TopicPrior + float64(nz.Count)) /
			(s.wordPriorSum + float64(s.Model.GlobalTopicHist[nz.Topic]))
	}
}

// resetTopicWordCoefficient restores q_coef to the alpha-only form at every
// topic nonzero in doc's histogram at document end. Topics that ended at
// zero during the token loop were already restored to the alpha-only form
// by removeWordTopic/addWordTopic (since alpha+0 == alpha), so scanning
// only the final nonzero set is sufficient (§4.6 design note).
func (s *Sampler) resetTopicWordCoefficient(doc *document.Document) {
	for _, nz := range doc.TopicHistogram().Entries() {
		s.qCoef[nz.Topic] = s.Model.HyperParams.TopicPrior /
			(s.wordPriorSum + float64(s.Model.GlobalTopicHist[nz.Topic]))
	}
}

// computeTopicWordBucket fills q(z,w,d) for word w's nonzero topics. Topics
// outside w's histogram are left stale in qBucket but are never scanned
// (§4.6: "not scanned"), so staleness is harmless.
func (s *Sampler) computeTopicWordBucket(wordID int32) {
	s.qSum = 0
	hist, ok := s.Model.WordTopicHist[wordID]
	if !ok {
		return
	}
	for _, nz := range hist.Entries() {
		qb := float64(nz.Count) * s.qCoef[nz.Topic]
		s.qBucket[nz.Topic] = qb
		s.qSum += qb
	}
}

// removeWordTopic removes one occurrence of (wordID, topic) from the
// model and document, repairing s/r/q_coef at topic by local delta.
func (s *Sampler) removeWordTopic(doc *document.Document, wordID, topic int32) {
	s.Model.GlobalTopicHist[topic]--
	s.Model.WordTopicHistFor(wordID).Decrease(topic, 1)
	s.Model.DropWordIfEmpty(wordID)

	s.sSum -= s.sBucket[topic]
	s.rSum -= s.rBucket[topic]
	docCount := doc.DecreaseTopic(topic, 1)

	s.repairBucketsAt(topic, docCount)
}

// addWordTopic adds one occurrence of (wordID, topic) to the model and
// document, repairing s/r/q_coef at topic by local delta.
func (s *Sampler) addWordTopic(doc *document.Document, wordID, topic int32) {
	s.Model.GlobalTopicHist[topic]++
	s.Model.WordTopicHistFor(wordID).Increase(topic, 1)

	s.sSum -= s.sBucket[topic]
	s.rSum -= s.rBucket[topic]
	docCount := doc.IncreaseTopic(topic, 1)

	s.repairBucketsAt(topic, docCount)
}

// repairBucketsAt recomputes s_bucket[topic] and r_bucket[topic] against
// the just-updated N(topic) and N(topic|d), folding the delta into s_sum
// and r_sum, and sets q_coef[topic] to the document-specialized form. The
// caller has already subtracted the stale s_bucket[topic]/r_bucket[topic]
// from s_sum/r_sum before calling.
func (s *Sampler) repairBucketsAt(topic int32, docCount int32) {
	denom := s.wordPriorSum + float64(s.Model.GlobalTopicHist[topic])

	s.sBucket[topic] = s.Model.HyperParams.TopicPrior * s.Model.HyperParams.WordPrior / denom
	s.sSum += s.sBucket[topic]

	s.rBucket[topic] = float64(docCount) * s.Model.HyperParams.WordPrior / denom
	s.rSum += s.rBucket[topic]

	s.qCoef[topic] = (s.Model.HyperParams.TopicPrior + float64(docCount)) / denom
}

// sampleNewTopic draws z_new from the combined mass s_sum+r_sum+q_sum,
// scanning q first (the overwhelmingly common branch in practice), then r,
// then s. Rounding that leaves the sample marginally positive after the
// last candidate returns that last candidate rather than falling off the
// end (§4.6 numerical policy).
func (s *Sampler) sampleNewTopic(doc *document.Document, wordID int32, rng *rand.Rand) int32 {
	total := s.sSum + s.rSum + s.qSum
	u := rng.Float64() * total

	if u < s.qSum {
		hist := s.Model.WordTopicHist[wordID]
		entries := hist.Entries()
		for _, nz := range entries {
			u -= s.qBucket[nz.Topic]
			if u <= 0 {
				return nz.Topic
			}
		}
		return entries[len(entries)-1].Topic
	}

	u -= s.qSum
	if u < s.rSum {
		entries := doc.TopicHistogram().Entries()
		for _, nz := range entries {
			u -= s.rBucket[nz.Topic]
			if u <= 0 {
				return nz.Topic
			}
		}
		return entries[len(entries)-1].Topic
	}

	u -= s.rSum
	var last int32
	for z := int32(0); z < s.Model.NumTopics; z++ {
		u -= s.sBucket[z]
		last = z
		if u <= 0 {
			return z
		}
	}
	return last
}
