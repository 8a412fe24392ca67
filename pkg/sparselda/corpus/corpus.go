// Package corpus loads a training corpus from tab-separated token files and
// persists/restores the corpus half of a training checkpoint.
//
// Grounded on training/sparselda_train_gibbs_sampler.py's load_corpus,
// save_checkpoint and load_checkpoint.
package corpus

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cognicore/sparselda/pkg/sparselda/document"
	"github.com/cognicore/sparselda/pkg/sparselda/internalerr"
	"github.com/cognicore/sparselda/pkg/sparselda/recordio"
)

// documentsPerShard bounds how many documents are written to a single
// corpus shard file before rolling to the next, mirroring load_corpus's
// `c % 10000` rollover.
const documentsPerShard = 10000

// Load walks corpusDir for tab-separated token files (one document per
// line, fields separated by tabs) and parses each into a Document seeded
// with a fresh random initial topic assignment. Lines with fewer than two
// tab fields, or whose document ends up with fewer than two in-vocabulary
// words, are dropped per §4.2.
func Load(corpusDir string, numTopics int32, vocab document.VocabularyLookup, rng *rand.Rand) ([]*document.Document, error) {
	var docs []*document.Document

	err := filepath.WalkDir(corpusDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("corpus: opening %s: %w", path, err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			fields := strings.Split(scanner.Text(), "\t")
			if len(fields) < 2 {
				continue
			}
			doc := document.New(numTopics)
			doc.ParseFromTokens(fields, rng, vocab, nil)
			if doc.NumWords() < 2 {
				continue
			}
			docs = append(docs, doc)
		}
		return scanner.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("corpus: loading %s: %w", corpusDir, err)
	}
	return docs, nil
}

// SaveCheckpoint writes docs to checkpointDir/corpus, sharded into files of
// at most documentsPerShard records each.
func SaveCheckpoint(checkpointDir string, docs []*document.Document) error {
	corpusDir := filepath.Join(checkpointDir, "corpus")
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return fmt.Errorf("corpus: creating %s: %w", corpusDir, err)
	}

	var (
		f        *os.File
		w        *bufio.Writer
		writer   *recordio.Writer
		shardNum int
	)
	openShard := func() error {
		shardNum++
		var err error
		f, err = os.Create(filepath.Join(corpusDir, fmt.Sprintf("documents.%d", shardNum)))
		if err != nil {
			return fmt.Errorf("corpus: creating shard %d: %w", shardNum, err)
		}
		w = bufio.NewWriter(f)
		writer = recordio.NewWriter(w)
		return nil
	}
	closeShard := func() error {
		if f == nil {
			return nil
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return f.Close()
	}

	if err := openShard(); err != nil {
		return err
	}
	for i, doc := range docs {
		if i > 0 && i%documentsPerShard == 0 {
			if err := closeShard(); err != nil {
				return fmt.Errorf("corpus: closing shard: %w", err)
			}
			if err := openShard(); err != nil {
				return err
			}
		}
		if err := writer.Write(doc.Serialize()); err != nil {
			return fmt.Errorf("corpus: writing document %d: %w", i, err)
		}
	}
	return closeShard()
}

// LoadCheckpoint restores the documents previously written by
// SaveCheckpoint from checkpointDir/corpus.
func LoadCheckpoint(checkpointDir string, numTopics int32) ([]*document.Document, error) {
	corpusDir := filepath.Join(checkpointDir, "corpus")
	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", corpusDir, err)
	}

	var docs []*document.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(corpusDir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("corpus: opening %s: %w", path, err)
		}
		readErr := recordio.ReadAll(f, func(blob []byte) error {
			doc := document.New(numTopics)
			if err := doc.ParseFromBytes(blob); err != nil {
				return fmt.Errorf("corpus: parsing document in %s: %w", path, err)
			}
			docs = append(docs, doc)
			return nil
		})
		f.Close()
		if readErr != nil {
			return nil, readErr
		}
	}
	return docs, nil
}

// LatestCheckpointIteration finds the highest-numbered checkpoint subdir
// under checkpointDir, returning internalerr.ErrNoCheckpoint if none exist.
func LatestCheckpointIteration(checkpointDir string) (int, error) {
	entries, err := os.ReadDir(checkpointDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, internalerr.ErrNoCheckpoint
		}
		return 0, fmt.Errorf("corpus: reading %s: %w", checkpointDir, err)
	}

	best := -1
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best == -1 {
		return 0, internalerr.ErrNoCheckpoint
	}
	return best, nil
}
