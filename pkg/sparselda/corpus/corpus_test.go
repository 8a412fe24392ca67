package corpus

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/sparselda/pkg/sparselda/document"
	"github.com/cognicore/sparselda/pkg/sparselda/internalerr"
)

type fakeVocab struct{ known map[string]int32 }

func (f fakeVocab) WordIndex(token string) int32 {
	id, ok := f.known[token]
	if !ok {
		return -1
	}
	return id
}

func TestLoadParsesTabSeparatedLinesAndDropsShortOnes(t *testing.T) {
	dir := t.TempDir()
	content := "alpha\tbeta\tgamma\n" + // 3 fields, kept
		"solo\n" + // 1 field, dropped (< 2 fields)
		"alpha\tunknown\n" // 2 fields but only 1 in-vocab word after filtering, dropped

	if err := os.WriteFile(filepath.Join(dir, "shard0"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	vocab := fakeVocab{known: map[string]int32{"alpha": 0, "beta": 1, "gamma": 2}}
	rng := rand.New(rand.NewSource(1))

	docs, err := Load(dir, 5, vocab, rng)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if docs[0].NumWords() != 3 {
		t.Errorf("NumWords() = %d, want 3", docs[0].NumWords())
	}
}

func TestSaveLoadCheckpointRoundTrip(t *testing.T) {
	const k = int32(4)
	vocab := fakeVocab{known: map[string]int32{"a": 0, "b": 1, "c": 2}}
	rng := rand.New(rand.NewSource(2))

	var docs []*document.Document
	for i := 0; i < 3; i++ {
		doc := document.New(k)
		doc.ParseFromTokens([]string{"a", "b", "c"}, rng, vocab, nil)
		docs = append(docs, doc)
	}

	checkpointDir := filepath.Join(t.TempDir(), "42")
	if err := SaveCheckpoint(checkpointDir, docs); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	got, err := LoadCheckpoint(checkpointDir, k)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if len(got) != len(docs) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(docs))
	}
	for i, doc := range got {
		if doc.NumWords() != docs[i].NumWords() {
			t.Errorf("doc %d NumWords = %d, want %d", i, doc.NumWords(), docs[i].NumWords())
		}
	}
}

func TestLatestCheckpointIterationPicksHighest(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"10", "5", "100", "not-a-number"} {
		if err := os.Mkdir(filepath.Join(dir, n), 0o755); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
	}
	got, err := LatestCheckpointIteration(dir)
	if err != nil {
		t.Fatalf("LatestCheckpointIteration: %v", err)
	}
	if got != 100 {
		t.Errorf("LatestCheckpointIteration = %d, want 100", got)
	}
}

func TestLatestCheckpointIterationNoneFoundReturnsErrNoCheckpoint(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := LatestCheckpointIteration(dir); !errors.Is(err, internalerr.ErrNoCheckpoint) {
		t.Fatalf("LatestCheckpointIteration error = %v, want ErrNoCheckpoint for checkpoint dir with no numbered subdirs", err)
	}
}
