// Package multichain runs several independent SparseLDA inference chains
// over the same document concurrently and averages their topic
// distributions, per Wei & Croft (2006): the chains are embarrassingly
// parallel since each owns a private Document/RNG and only reads the
// shared, frozen infer.Context.
//
// Grounded on inference/multi_chain_gibbs_sampler.py for the averaging
// semantics, and on analytics.Analyzer.ProcessBatch for the goroutine
// fan-out/WaitGroup-join shape.
package multichain

import (
	"math/rand"
	"sync"

	"github.com/cognicore/sparselda/pkg/sparselda/infer"
)

// MultiChain runs NumChains independent infer.Sampler chains and merges
// their results.
type MultiChain struct {
	Context   *infer.Context
	Vocab     infer.VocabularyLookup
	NumChains int

	TotalIterations  int
	BurnInIterations int
}

// New builds a MultiChain over ctx with numChains independent chains, each
// running totalIterations sweeps with burnInIterations discarded.
func New(ctx *infer.Context, vocab infer.VocabularyLookup, numChains, totalIterations, burnInIterations int) *MultiChain {
	if numChains < 1 {
		numChains = 1
	}
	return &MultiChain{
		Context:          ctx,
		Vocab:            vocab,
		NumChains:        numChains,
		TotalIterations:  totalIterations,
		BurnInIterations: burnInIterations,
	}
}

// InferTopics runs NumChains chains over tokens in parallel, each seeded
// independently via infer.HashSeed(tokens, chainIndex), and returns the
// L1-renormalized average of their per-chain distributions. A chain whose
// tokens are entirely out-of-vocabulary contributes an empty distribution
// and is skipped in the average.
func (mc *MultiChain) InferTopics(tokens []string) map[int32]float64 {
	results := make([]map[int32]float64, mc.NumChains)
	var wg sync.WaitGroup

	for c := 0; c < mc.NumChains; c++ {
		wg.Add(1)
		go func(chainIndex int) {
			defer wg.Done()
			sampler := infer.NewSampler(mc.Context, mc.Vocab, mc.TotalIterations, mc.BurnInIterations)
			seed := infer.HashSeed(tokens, chainIndex)
			rng := rand.New(rand.NewSource(seed))
			results[chainIndex] = sampler.InferTopicsWithRNG(tokens, rng)
		}(c)
	}
	wg.Wait()

	merged := make(map[int32]float64)
	for _, dist := range results {
		for topic, p := range dist {
			merged[topic] += p
		}
	}
	return infer.L1Normalize(merged)
}
