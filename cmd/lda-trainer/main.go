// Command lda-trainer runs SparseLDA collapsed Gibbs sampling training over
// a corpus, periodically saving the model, a resumable checkpoint, and the
// corpus log-likelihood.
//
// Grounded on lda_trainer.py's flag surface and main loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/cognicore/sparselda/pkg/sparselda/checkpointcat"
	"github.com/cognicore/sparselda/pkg/sparselda/corpus"
	"github.com/cognicore/sparselda/pkg/sparselda/evaluate"
	"github.com/cognicore/sparselda/pkg/sparselda/ldaconfig"
	"github.com/cognicore/sparselda/pkg/sparselda/model"
	"github.com/cognicore/sparselda/pkg/sparselda/modelio"
	"github.com/cognicore/sparselda/pkg/sparselda/runid"
	"github.com/cognicore/sparselda/pkg/sparselda/topicwords"
	"github.com/cognicore/sparselda/pkg/sparselda/train"
	"github.com/cognicore/sparselda/pkg/sparselda/vocabulary"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML training config (required)")
		corpusDir  = flag.String("corpus-dir", "", "override config's corpus_dir")
		resume     = flag.Bool("resume", false, "resume from the latest checkpoint in checkpoint_dir")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}

	cfg, err := ldaconfig.LoadTrainingConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *corpusDir != "" {
		cfg.CorpusDir = *corpusDir
	}
	if cfg.NumTopics <= 0 {
		log.Fatal("num_topics must be set and positive")
	}

	vocab, err := vocabulary.Load(cfg.VocabularyFile)
	if err != nil {
		log.Fatalf("load vocabulary: %v", err)
	}
	log.Printf("loaded vocabulary of %s words", humanize.Comma(int64(vocab.Size())))

	hp := model.HyperParams{TopicPrior: cfg.TopicPrior, WordPrior: cfg.WordPrior}
	m := model.New(cfg.NumTopics, hp)
	sampler := train.NewSampler(m, vocab.Size())

	rng := rand.New(rand.NewSource(rand.Int63()))

	startIteration := 0
	if *resume {
		latest, err := corpus.LatestCheckpointIteration(cfg.CheckpointDir)
		if err != nil {
			log.Fatalf("resume: %v", err)
		}
		docs, err := corpus.LoadCheckpoint(fmt.Sprintf("%s/%d", cfg.CheckpointDir, latest), cfg.NumTopics)
		if err != nil {
			log.Fatalf("resume: loading checkpoint %d: %v", latest, err)
		}
		sampler.LoadDocuments(docs)
		startIteration = latest
		log.Printf("resumed from checkpoint at iteration %s", humanize.Comma(int64(latest)))
	} else {
		docs, err := corpus.Load(cfg.CorpusDir, cfg.NumTopics, vocab, rng)
		if err != nil {
			log.Fatalf("load corpus: %v", err)
		}
		if len(docs) == 0 {
			log.Fatal("corpus contains no usable documents")
		}
		sampler.LoadDocuments(docs)
		log.Printf("loaded corpus of %s documents", humanize.Comma(int64(len(docs))))
	}

	ctx := context.Background()
	catalogPath := fmt.Sprintf("%s/catalog.db", cfg.CheckpointDir)
	catalog, err := checkpointcat.Open(ctx, catalogPath)
	if err != nil {
		log.Fatalf("open checkpoint catalog: %v", err)
	}
	defer catalog.Close()

	runID := runid.New().Next()
	if err := catalog.StartRun(ctx, runID, cfg.NumTopics, cfg.TopicPrior, cfg.WordPrior); err != nil {
		log.Fatalf("start run: %v", err)
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd())

	for i := startIteration; i < cfg.TotalIterations; i++ {
		sampler.GibbsSampling(rng)
		iteration := i + 1

		if interactive && iteration%10 == 0 {
			fmt.Printf("\riteration %s/%s", humanize.Comma(int64(iteration)), humanize.Comma(int64(cfg.TotalIterations)))
		}

		if iteration == 1 || iteration%cfg.SaveModelInterval == 0 {
			modelDir := fmt.Sprintf("%s/%d", cfg.ModelDir, iteration)
			if err := modelio.Save(modelDir, m); err != nil {
				log.Fatalf("iteration %d: save model: %v", iteration, err)
			}
			stat := topicwords.New(m, vocab)
			topWordsPath := fmt.Sprintf("%s/topic_top_words.%d", cfg.ModelDir, iteration)
			if err := os.WriteFile(topWordsPath, []byte(stat.Format(vocab.Size(), cfg.TopicWordAccumulatedProbThresh)), 0o644); err != nil {
				log.Fatalf("iteration %d: save topic words: %v", iteration, err)
			}
			if err := catalog.RecordModelSave(ctx, runID, iteration); err != nil {
				log.Printf("iteration %d: record model save: %v", iteration, err)
			}
			log.Printf("iteration %d: saved model to %s", iteration, modelDir)
		}

		if iteration == 1 || iteration%cfg.SaveCheckpointInterval == 0 {
			checkpointDir := fmt.Sprintf("%s/%d", cfg.CheckpointDir, iteration)
			if err := corpus.SaveCheckpoint(checkpointDir, sampler.Documents); err != nil {
				log.Fatalf("iteration %d: save checkpoint: %v", iteration, err)
			}
			if err := modelio.Save(fmt.Sprintf("%s/lda_model", checkpointDir), m); err != nil {
				log.Fatalf("iteration %d: save checkpoint model: %v", iteration, err)
			}
			if err := catalog.RecordCheckpoint(ctx, runID, iteration); err != nil {
				log.Printf("iteration %d: record checkpoint: %v", iteration, err)
			}
			log.Printf("iteration %d: saved checkpoint to %s", iteration, checkpointDir)
		}

		if iteration == 1 || iteration%cfg.ComputeLoglikelihoodInterval == 0 {
			ev := evaluate.New(m, vocab.Size())
			ll := ev.LogLikelihood(sampler.Documents)
			if err := catalog.RecordLogLikelihood(ctx, runID, iteration, ll); err != nil {
				log.Printf("iteration %d: record loglikelihood: %v", iteration, err)
			}
			log.Printf("iteration %d: loglikelihood is %f", iteration, ll)
		}
	}

	if interactive {
		fmt.Println()
	}
	log.Printf("training complete: %s iterations", humanize.Comma(int64(cfg.TotalIterations)))
}
