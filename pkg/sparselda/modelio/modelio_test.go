package modelio

import (
	"path/filepath"
	"testing"

	"github.com/cognicore/sparselda/pkg/sparselda/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	const k = int32(6)
	hp := model.HyperParams{TopicPrior: 0.3, WordPrior: 0.02}
	m := model.New(k, hp)
	m.GlobalTopicHist = []int32{5, 0, 3, 9, 1, 2}
	m.WordTopicHistFor(10).Increase(2, 3)
	m.WordTopicHistFor(10).Increase(5, 1)
	m.WordTopicHistFor(42).Increase(0, 7)

	dir := filepath.Join(t.TempDir(), "model")
	if err := Save(dir, m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.NumTopics != k {
		t.Fatalf("NumTopics = %d, want %d", got.NumTopics, k)
	}
	for i, want := range m.GlobalTopicHist {
		if got.GlobalTopicHist[i] != want {
			t.Errorf("GlobalTopicHist[%d] = %d, want %d", i, got.GlobalTopicHist[i], want)
		}
	}
	if diff := got.HyperParams.TopicPrior - hp.TopicPrior; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("TopicPrior = %v, want %v", got.HyperParams.TopicPrior, hp.TopicPrior)
	}
	if diff := got.HyperParams.WordPrior - hp.WordPrior; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("WordPrior = %v, want %v", got.HyperParams.WordPrior, hp.WordPrior)
	}

	if !got.HasWord(10) || !got.HasWord(42) {
		t.Fatal("expected words 10 and 42 to round-trip")
	}
	if c := got.WordTopicHistFor(10).Count(2); c != 3 {
		t.Errorf("word 10 topic 2 count = %d, want 3", c)
	}
	if c := got.WordTopicHistFor(10).Count(5); c != 1 {
		t.Errorf("word 10 topic 5 count = %d, want 1", c)
	}
	if c := got.WordTopicHistFor(42).Count(0); c != 7 {
		t.Errorf("word 42 topic 0 count = %d, want 7", c)
	}
}

func TestLoadMissingDirReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatal("Load on missing directory: want error, got nil")
	}
}
