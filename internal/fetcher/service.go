// Package fetcher retrieves raw legal text for topic entries from builtin
// corpus data or live HTTP sources. Fetches are rate limited, bounded by a
// per-request timeout, and allowed a single immediate reattempt; a failure
// for one topic never aborts the run.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/corpus"
	"github.com/ternarybob/sankofa/internal/interfaces"
	"github.com/ternarybob/sankofa/internal/models"
)

// Fetcher resolves topic entries to raw text content
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   interfaces.ArticleStorage // optional, nil disables caching
	config  common.FetcherConfig
	logger  arbor.ILogger
}

// New creates a Fetcher. cache may be nil to disable the scrape cache.
func New(config common.FetcherConfig, cache interfaces.ArticleStorage, logger arbor.ILogger) *Fetcher {
	rps := config.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cache:   cache,
		config:  config,
		logger:  logger,
	}
}

// Fetch returns the raw text for a topic, or a *FetchError. Builtin topics
// always succeed; HTTP topics try each source URL in order with one
// immediate reattempt per URL.
func (f *Fetcher) Fetch(ctx context.Context, topic models.TopicEntry) (string, error) {
	switch topic.Source {
	case models.SourceBuiltin:
		return f.fetchBuiltin(topic)
	case models.SourceHTTP:
		return f.fetchHTTP(ctx, topic)
	default:
		return "", &FetchError{Topic: topic.LawName, Err: fmt.Errorf("unsupported source kind %q", topic.Source)}
	}
}

func (f *Fetcher) fetchBuiltin(topic models.TopicEntry) (string, error) {
	if topic.LawName == corpus.ConstitutionLawName {
		return corpus.RenderConstitutionText(), nil
	}
	return "", &FetchError{Topic: topic.LawName, Err: fmt.Errorf("no builtin corpus text for law %q", topic.LawName)}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, topic models.TopicEntry) (string, error) {
	if f.config.Offline {
		return "", &FetchError{Topic: topic.LawName, Err: fmt.Errorf("offline mode, skipping HTTP sources")}
	}
	if len(topic.SourceURLs) == 0 {
		return "", &FetchError{Topic: topic.LawName, Err: fmt.Errorf("no source URLs configured")}
	}

	var lastErr error
	for _, url := range topic.SourceURLs {
		if cached, ok := f.fromCache(url); ok {
			f.logger.Debug().Str("url", url).Msg("Serving topic from scrape cache")
			return cached, nil
		}

		text, err := f.fetchURL(ctx, url)
		if err == nil {
			f.logger.Info().Str("topic", topic.LawName).Str("url", url).Int("length", len(text)).Msg("Fetched source")
			return text, nil
		}

		f.logger.Debug().Err(err).Str("url", url).Msg("Fetch failed, reattempting once")
		if ctx.Err() != nil {
			return "", &FetchError{Topic: topic.LawName, URL: url, Err: ctx.Err()}
		}

		text, retryErr := f.fetchURL(ctx, url)
		if retryErr == nil {
			f.logger.Info().Str("topic", topic.LawName).Str("url", url).Int("length", len(text)).Msg("Fetched source on reattempt")
			return text, nil
		}

		lastErr = retryErr
		f.logger.Warn().Err(retryErr).Str("url", url).Msg("Source unavailable, trying next URL")
	}

	return "", &FetchError{Topic: topic.LawName, URL: topic.SourceURLs[len(topic.SourceURLs)-1], Err: lastErr}
}

// fetchURL performs a single rate-limited GET and extracts readable text.
func (f *Fetcher) fetchURL(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	maxBody := f.config.MaxBodySize
	if maxBody <= 0 {
		maxBody = 10 * 1024 * 1024
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", err
	}

	text, err := ExtractText(string(body), url)
	if err != nil {
		return "", err
	}

	if f.config.MinContentLength > 0 && len(text) < f.config.MinContentLength {
		return "", fmt.Errorf("page text too short (%d chars, want >= %d)", len(text), f.config.MinContentLength)
	}

	return text, nil
}

// fromCache rebuilds the raw text of a source URL from cached articles when
// every cached entry is younger than cache_max_age.
func (f *Fetcher) fromCache(url string) (string, bool) {
	if f.cache == nil || f.config.CacheMaxAge <= 0 {
		return "", false
	}

	articles, err := f.cache.GetArticlesBySource(url)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("Scrape cache lookup failed")
		return "", false
	}
	if len(articles) == 0 {
		return "", false
	}

	cutoff := time.Now().Add(-f.config.CacheMaxAge)
	for _, article := range articles {
		if article.FetchedAt.Before(cutoff) {
			return "", false
		}
	}

	var sb strings.Builder
	for _, article := range articles {
		fmt.Fprintf(&sb, "Article %d: %s\n%s\n\n", article.Number, article.Title, article.Content)
	}
	return sb.String(), true
}

// CacheArticles persists parsed articles for a source URL so the next run
// can skip the network. No-op without a cache.
func (f *Fetcher) CacheArticles(url string, articles []models.Article) {
	if f.cache == nil {
		return
	}

	now := time.Now()
	for i := range articles {
		article := articles[i]
		article.SourceURL = url
		article.FetchedAt = now
		if err := f.cache.SaveArticle(&article); err != nil {
			f.logger.Warn().Err(err).Str("url", url).Int("article", article.Number).Msg("Failed to cache article")
			return
		}
	}

	f.logger.Debug().Str("url", url).Int("articles", len(articles)).Msg("Cached parsed articles")
}
