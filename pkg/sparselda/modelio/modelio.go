// Package modelio persists a model.Model to and from a directory of
// recordio-framed files, mirroring the three-file layout of
// common/model.py's Model.save/load (global topic histogram, word-topic
// histogram, hyperparameters), minus the protobuf envelope: each record's
// payload is the same little-endian layout the histogram and document
// packages already use elsewhere in this module.
package modelio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cognicore/sparselda/pkg/sparselda/histogram"
	"github.com/cognicore/sparselda/pkg/sparselda/internalerr"
	"github.com/cognicore/sparselda/pkg/sparselda/model"
	"github.com/cognicore/sparselda/pkg/sparselda/recordio"
)

const (
	globalTopicHistFilename = "lda.global_topic_hist"
	wordTopicHistFilename   = "lda.word_topic_hist"
	hyperParamsFilename     = "lda.hyper_params"
)

// Save writes m's three artifacts into modelDir, creating it if absent.
func Save(modelDir string, m *model.Model) error {
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return fmt.Errorf("modelio: creating model dir %s: %w", modelDir, err)
	}
	if err := saveGlobalTopicHist(filepath.Join(modelDir, globalTopicHistFilename), m); err != nil {
		return err
	}
	if err := saveWordTopicHist(filepath.Join(modelDir, wordTopicHistFilename), m); err != nil {
		return err
	}
	if err := saveHyperParams(filepath.Join(modelDir, hyperParamsFilename), m); err != nil {
		return err
	}
	return nil
}

// Load reads a model previously written by Save from modelDir. The model's
// topic count is taken from the persisted global topic histogram's length.
func Load(modelDir string) (*model.Model, error) {
	globalHist, err := loadGlobalTopicHist(filepath.Join(modelDir, globalTopicHistFilename))
	if err != nil {
		return nil, err
	}
	hp, err := loadHyperParams(filepath.Join(modelDir, hyperParamsFilename))
	if err != nil {
		return nil, err
	}

	m := model.New(int32(len(globalHist)), hp)
	m.GlobalTopicHist = globalHist

	if err := loadWordTopicHist(filepath.Join(modelDir, wordTopicHistFilename), m); err != nil {
		return nil, err
	}
	return m, nil
}

func saveGlobalTopicHist(path string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writer := recordio.NewWriter(w)

	blob := make([]byte, 4+4*len(m.GlobalTopicHist))
	binary.LittleEndian.PutUint32(blob[0:4], uint32(len(m.GlobalTopicHist)))
	for i, count := range m.GlobalTopicHist {
		binary.LittleEndian.PutUint32(blob[4+4*i:8+4*i], uint32(count))
	}
	if err := writer.Write(blob); err != nil {
		return fmt.Errorf("modelio: writing global topic hist: %w", err)
	}
	return w.Flush()
}

func loadGlobalTopicHist(path string) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("modelio: %w", err)
	}
	defer f.Close()

	reader := recordio.NewReader(f)
	blob, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("modelio: reading global topic hist: %w", err)
	}
	if len(blob) < 4 {
		return nil, fmt.Errorf("modelio: global topic hist: %w", internalerr.ErrTruncatedRecord)
	}
	n := binary.LittleEndian.Uint32(blob[0:4])
	if len(blob) < int(4+4*n) {
		return nil, fmt.Errorf("modelio: global topic hist: %w", internalerr.ErrTruncatedRecord)
	}
	hist := make([]int32, n)
	for i := range hist {
		hist[i] = int32(binary.LittleEndian.Uint32(blob[4+4*i : 8+4*i]))
	}
	return hist, nil
}

func saveWordTopicHist(path string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writer := recordio.NewWriter(w)

	for wordID, hist := range m.WordTopicHist {
		body := hist.Serialize()
		blob := make([]byte, 4+len(body))
		binary.LittleEndian.PutUint32(blob[0:4], uint32(wordID))
		copy(blob[4:], body)
		if err := writer.Write(blob); err != nil {
			return fmt.Errorf("modelio: writing word topic hist entry for word %d: %w", wordID, err)
		}
	}
	return w.Flush()
}

func loadWordTopicHist(path string, m *model.Model) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	defer f.Close()

	m.WordTopicHist = make(map[int32]*histogram.Histogram)
	return recordio.ReadAll(f, func(blob []byte) error {
		if len(blob) < 4 {
			return fmt.Errorf("modelio: word topic hist entry: %w", internalerr.ErrTruncatedRecord)
		}
		wordID := int32(binary.LittleEndian.Uint32(blob[0:4]))
		hist := histogram.New(m.NumTopics)
		if err := hist.Parse(blob[4:]); err != nil {
			return fmt.Errorf("modelio: word topic hist entry for word %d: %w", wordID, err)
		}
		m.WordTopicHist[wordID] = hist
		return nil
	})
}

func saveHyperParams(path string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	writer := recordio.NewWriter(w)

	blob := make([]byte, 16)
	binary.LittleEndian.PutUint64(blob[0:8], math.Float64bits(m.HyperParams.TopicPrior))
	binary.LittleEndian.PutUint64(blob[8:16], math.Float64bits(m.HyperParams.WordPrior))
	if err := writer.Write(blob); err != nil {
		return fmt.Errorf("modelio: writing hyper params: %w", err)
	}
	return w.Flush()
}

func loadHyperParams(path string) (model.HyperParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.HyperParams{}, fmt.Errorf("modelio: %w", err)
	}
	defer f.Close()

	reader := recordio.NewReader(f)
	blob, err := reader.Read()
	if err != nil {
		return model.HyperParams{}, fmt.Errorf("modelio: reading hyper params: %w", err)
	}
	if len(blob) < 16 {
		return model.HyperParams{}, fmt.Errorf("modelio: hyper params: %w", internalerr.ErrTruncatedRecord)
	}
	return model.HyperParams{
		TopicPrior: math.Float64frombits(binary.LittleEndian.Uint64(blob[0:8])),
		WordPrior:  math.Float64frombits(binary.LittleEndian.Uint64(blob[8:16])),
	}, nil
}
