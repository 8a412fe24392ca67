// Package topicwords reports each topic's most probable words, the
// standard human-readable summary of a trained LDA model.
//
// Grounded on training/topic_words_stat.py.
package topicwords

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/sparselda/pkg/sparselda/model"
)

// WordProb pairs a vocabulary word with its probability under one topic.
type WordProb struct {
	Word string
	Prob float64
}

// VocabularyLookup is the subset of vocabulary.Vocabulary topicwords needs.
type VocabularyLookup interface {
	Word(index int32) string
}

// Stat computes and formats per-topic top words for a model.
type Stat struct {
	Model *model.Model
	Vocab VocabularyLookup
}

// New builds a Stat over m and vocab.
func New(m *model.Model, vocab VocabularyLookup) *Stat {
	return &Stat{Model: m, Vocab: vocab}
}

// TopWords returns, for each topic, its words sorted by descending p(w|z),
// truncated once the accumulated probability mass exceeds threshold.
func (s *Stat) TopWords(vocabSize int32, threshold float64) [][]WordProb {
	perTopic := make([][]WordProb, s.Model.NumTopics)

	for wordID, hist := range s.Model.WordTopicHist {
		for _, nz := range hist.Entries() {
			denom := s.Model.HyperParams.WordPrior*float64(vocabSize) + float64(s.Model.GlobalTopicHist[nz.Topic])
			prob := (float64(nz.Count) + s.Model.HyperParams.WordPrior) / denom
			perTopic[nz.Topic] = append(perTopic[nz.Topic], WordProb{
				Word: s.Vocab.Word(wordID),
				Prob: prob,
			})
		}
	}

	result := make([][]WordProb, s.Model.NumTopics)
	for topic, words := range perTopic {
		sort.Slice(words, func(i, j int) bool { return words[i].Prob > words[j].Prob })

		accumulated := 0.0
		cut := len(words)
		for i, wp := range words {
			accumulated += wp.Prob
			if accumulated > threshold {
				cut = i + 1
				break
			}
		}
		result[topic] = words[:cut]
	}
	return result
}

// Format renders TopWords as tab-separated lines, one per topic:
// "<topic>\t<N(z)>\t<word1>\t<prob1>\t<word2>\t<prob2>\t...".
func (s *Stat) Format(vocabSize int32, threshold float64) string {
	topicWords := s.TopWords(vocabSize, threshold)
	lines := make([]string, len(topicWords))
	for topic, words := range topicWords {
		parts := []string{
			fmt.Sprintf("%d", topic),
			fmt.Sprintf("%d", s.Model.GlobalTopicHist[topic]),
		}
		for _, wp := range words {
			parts = append(parts, wp.Word, fmt.Sprintf("%g", wp.Prob))
		}
		lines[topic] = strings.Join(parts, "\t")
	}
	return strings.Join(lines, "\n")
}
