// Command lda-infer loads a trained model and infers topic distributions
// for new documents, one per input line, using multi-chain SparseLDA
// inference.
//
// Grounded on lda_inferencer.py's flag surface and main loop.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cognicore/sparselda/pkg/sparselda/infer"
	"github.com/cognicore/sparselda/pkg/sparselda/ldaconfig"
	"github.com/cognicore/sparselda/pkg/sparselda/modelio"
	"github.com/cognicore/sparselda/pkg/sparselda/multichain"
	"github.com/cognicore/sparselda/pkg/sparselda/vocabulary"
)

func main() {
	var (
		configPath    = flag.String("config", "", "YAML inference config (required)")
		documentsPath = flag.String("documents", "", "file of tab-separated token documents, one per line (required)")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}
	if *documentsPath == "" {
		log.Fatal("--documents required")
	}

	cfg, err := ldaconfig.LoadInferenceConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	m, err := modelio.Load(cfg.ModelDir)
	if err != nil {
		log.Fatalf("load model: %v", err)
	}
	vocab, err := vocabulary.Load(cfg.VocabularyFile)
	if err != nil {
		log.Fatalf("load vocabulary: %v", err)
	}
	log.Printf("loaded model with %s topics over a %s-word vocabulary",
		humanize.Comma(int64(m.NumTopics)), humanize.Comma(int64(vocab.Size())))

	ctx, err := infer.NewContext(m, vocab.Size(), cfg.CacheSize)
	if err != nil {
		log.Fatalf("build inference context: %v", err)
	}
	mc := multichain.New(ctx, vocab, cfg.NumChains, cfg.TotalIterations, cfg.BurnInIterations)

	f, err := os.Open(*documentsPath)
	if err != nil {
		log.Fatalf("open documents: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Split(line, "\t")
		dist := mc.InferTopics(tokens)
		fmt.Println(line)
		fmt.Println(formatDist(dist))
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading documents: %v", err)
	}
}

func formatDist(dist map[int32]float64) string {
	type topicProb struct {
		topic int32
		prob  float64
	}
	entries := make([]topicProb, 0, len(dist))
	for topic, prob := range dist {
		entries = append(entries, topicProb{topic, prob})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].topic < entries[j].topic })

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%d:%g", e.topic, e.prob)
	}
	return strings.Join(parts, " ")
}
