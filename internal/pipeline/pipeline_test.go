package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/corpus"
	"github.com/ternarybob/sankofa/internal/fetcher"
	"github.com/ternarybob/sankofa/internal/models"
	"github.com/ternarybob/sankofa/internal/normalizer"
	"github.com/ternarybob/sankofa/internal/writer"
)

func testPipeline(t *testing.T) (*Pipeline, *common.Config) {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Dataset.OutputPath = filepath.Join(t.TempDir(), "qa.jsonl")
	config.Fetcher.Offline = true
	config.Fetcher.RequestTimeout = time.Second

	logger := arbor.NewLogger()
	f := fetcher.New(config.Fetcher, nil, logger)
	n := normalizer.New(config.Dataset.MinQuestionLength, config.Dataset.MinAnswerLength)

	return New(config, f, n, logger), config
}

func TestRun(t *testing.T) {
	t.Run("Builtin and curated topics produce a dataset offline", func(t *testing.T) {
		p, config := testPipeline(t)

		stats, err := p.Run(context.Background(), corpus.DefaultTopics())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		// The live HTTP topic fails offline; everything else must survive
		if stats.TopicsFailed != 1 {
			t.Errorf("Expected 1 failed topic, got %d", stats.TopicsFailed)
		}
		if stats.Records.Kept == 0 {
			t.Fatal("Expected records from builtin and curated topics")
		}

		records, err := writer.Read(config.Dataset.OutputPath)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(records) != stats.Records.Kept {
			t.Errorf("Stats claim %d records, file holds %d", stats.Records.Kept, len(records))
		}

		foundConstitution := false
		foundCurated := false
		for _, record := range records {
			if strings.Contains(record.Question, "Article 1 of the 1992 Constitution") {
				foundConstitution = true
			}
			if strings.Contains(record.Question, "Criminal Offences Act") {
				foundCurated = true
			}
		}
		if !foundConstitution {
			t.Error("Dataset missing constitution records")
		}
		if !foundCurated {
			t.Error("Dataset missing curated statute records")
		}
	})

	t.Run("No topics still writes an empty dataset without error", func(t *testing.T) {
		p, config := testPipeline(t)

		stats, err := p.Run(context.Background(), nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if stats.Records.Kept != 0 {
			t.Errorf("Expected 0 records, got %d", stats.Records.Kept)
		}

		records, err := writer.Read(config.Dataset.OutputPath)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected empty dataset, got %d records", len(records))
		}
	})

	t.Run("A failing topic does not block the others", func(t *testing.T) {
		p, _ := testPipeline(t)

		topics := []models.TopicEntry{
			{LawName: "Broken Law", Source: models.SourceHTTP, SourceURLs: []string{"http://127.0.0.1:1"}},
			{LawName: corpus.LawCriminalOffences, Source: models.SourceCurated},
		}

		stats, err := p.Run(context.Background(), topics)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if stats.TopicsFailed != 1 {
			t.Errorf("Expected 1 failed topic, got %d", stats.TopicsFailed)
		}
		if stats.Records.Kept == 0 {
			t.Error("Curated topic should still produce records")
		}
	})

	t.Run("Duplicate questions across topics are removed once", func(t *testing.T) {
		p, _ := testPipeline(t)

		topics := []models.TopicEntry{
			{LawName: corpus.LawCriminalOffences, Source: models.SourceCurated},
			{LawName: corpus.LawCriminalOffences, Source: models.SourceCurated},
		}

		stats, err := p.Run(context.Background(), topics)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if stats.Records.Duplicates == 0 {
			t.Error("Expected duplicates from the repeated topic")
		}
		if stats.Records.Kept*2 != stats.Records.Candidates {
			t.Errorf("Expected half the candidates kept, got %d of %d", stats.Records.Kept, stats.Records.Candidates)
		}
	})

	t.Run("Cancelled context stops the run", func(t *testing.T) {
		p, _ := testPipeline(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Run(ctx, corpus.DefaultTopics())
		if err == nil {
			t.Fatal("Expected an error from a cancelled context")
		}
	})
}
