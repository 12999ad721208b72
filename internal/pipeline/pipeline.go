// Package pipeline wires the dataset generation stages together: resolve
// each topic to raw text or curated records, extract candidate pairs,
// normalize the combined pool once, and write the JSONL dataset atomically.
package pipeline

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/corpus"
	"github.com/ternarybob/sankofa/internal/extractor"
	"github.com/ternarybob/sankofa/internal/fetcher"
	"github.com/ternarybob/sankofa/internal/models"
	"github.com/ternarybob/sankofa/internal/normalizer"
	"github.com/ternarybob/sankofa/internal/writer"
)

// RunStats summarizes one pipeline run.
type RunStats struct {
	Topics       int                `json:"topics"`
	TopicsFailed int                `json:"topics_failed"`
	Records      models.RecordStats `json:"records"`
	OutputPath   string             `json:"output_path"`
	Duration     time.Duration      `json:"duration"`
}

// Pipeline generates the QA dataset from a topic table.
type Pipeline struct {
	config     *common.Config
	fetcher    *fetcher.Fetcher
	normalizer *normalizer.Normalizer
	logger     arbor.ILogger
}

// New assembles a Pipeline from its stages.
func New(config *common.Config, f *fetcher.Fetcher, n *normalizer.Normalizer, logger arbor.ILogger) *Pipeline {
	return &Pipeline{
		config:     config,
		fetcher:    f,
		normalizer: n,
		logger:     logger,
	}
}

// Run processes every topic, normalizes the combined candidates, and writes
// the dataset. A topic that fails to fetch or yields nothing is logged and
// skipped; only a dataset write failure fails the run.
func (p *Pipeline) Run(ctx context.Context, topics []models.TopicEntry) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{
		Topics:     len(topics),
		OutputPath: p.config.Dataset.OutputPath,
	}

	var candidates []models.Record
	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		records, err := p.processTopic(ctx, topic)
		if err != nil {
			stats.TopicsFailed++
			p.logger.Warn().Err(err).Str("topic", topic.LawName).Str("source", topic.Source).Msg("Topic failed, continuing with remaining topics")
			continue
		}
		if len(records) == 0 {
			p.logger.Warn().Str("topic", topic.LawName).Str("source", topic.Source).Msg("Topic produced no records")
			continue
		}

		p.logger.Info().Str("topic", topic.LawName).Str("source", topic.Source).Int("records", len(records)).Msg("Topic processed")
		candidates = append(candidates, records...)
	}

	kept, recordStats := p.normalizer.Normalize(candidates)
	stats.Records = recordStats

	if len(kept) == 0 {
		p.logger.Warn().Msg("No records generated, writing empty dataset")
	}

	if err := writer.Write(p.config.Dataset.OutputPath, kept); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	p.logger.Info().
		Int("candidates", recordStats.Candidates).
		Int("dropped", recordStats.Dropped).
		Int("duplicates", recordStats.Duplicates).
		Int("kept", recordStats.Kept).
		Str("output", p.config.Dataset.OutputPath).
		Str("duration", stats.Duration.Round(time.Millisecond).String()).
		Msg("Dataset written")

	return stats, nil
}

// processTopic resolves one topic to candidate records. Curated topics carry
// their records directly; builtin and http topics go through fetch and
// article extraction.
func (p *Pipeline) processTopic(ctx context.Context, topic models.TopicEntry) ([]models.Record, error) {
	if topic.Source == models.SourceCurated {
		return corpus.CuratedRecords(topic.LawName), nil
	}

	raw, err := p.fetcher.Fetch(ctx, topic)
	if err != nil {
		return nil, err
	}

	records := extractor.Extract(raw, topic, p.config.Dataset.MaxArticleContent)

	// Persist parsed articles for live sources so the next run can reuse them.
	if topic.Source == models.SourceHTTP && len(topic.SourceURLs) > 0 && len(records) > 0 {
		articles := extractor.ParseArticles(raw, p.config.Dataset.MaxArticleContent)
		p.fetcher.CacheArticles(topic.SourceURLs[0], articles)
	}

	return records, nil
}
