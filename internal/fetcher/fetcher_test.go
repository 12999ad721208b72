package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/corpus"
	"github.com/ternarybob/sankofa/internal/models"
)

const articlePage = `<html><head><title>Constitution</title></head><body>
<nav>Home | About</nav>
<main>
<h2>Article 1: Supremacy</h2>
<p>This Constitution shall be the supreme law of Ghana and any other law found to be inconsistent with any provision of this Constitution shall, to the extent of the inconsistency, be void.</p>
<h2>Article 2: Enforcement of the Constitution</h2>
<p>A person may bring an action in the Supreme Court for a declaration to that effect.</p>
</main>
<footer>Copyright</footer>
</body></html>`

func testConfig() common.FetcherConfig {
	return common.FetcherConfig{
		UserAgent:        "sankofa-test",
		RequestTimeout:   5 * time.Second,
		RequestsPerSec:   1000,
		Burst:            100,
		MaxBodySize:      1 << 20,
		MinContentLength: 50,
	}
}

func TestFetchBuiltin(t *testing.T) {
	f := New(testConfig(), nil, arbor.NewLogger())

	text, err := f.Fetch(context.Background(), models.TopicEntry{
		LawName: corpus.ConstitutionLawName,
		Source:  models.SourceBuiltin,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "Article 1: Supremacy of the Constitution")
	assert.Contains(t, text, "Chapter 1 -")

	_, err = f.Fetch(context.Background(), models.TopicEntry{
		LawName: "Unknown Law",
		Source:  models.SourceBuiltin,
	})
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "Unknown Law", fetchErr.Topic)
}

func TestFetchHTTP(t *testing.T) {
	t.Run("Extracts article text from a live page", func(t *testing.T) {
		var gotUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.UserAgent())
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(articlePage))
		}))
		defer server.Close()

		f := New(testConfig(), nil, arbor.NewLogger())
		text, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{server.URL},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "Article 1")
		assert.Contains(t, text, "supreme law of Ghana")
		assert.NotContains(t, text, "Copyright", "boilerplate should be stripped")
		assert.Equal(t, "sankofa-test", gotUA.Load())
	})

	t.Run("Reattempts once after a transient failure", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(articlePage))
		}))
		defer server.Close()

		f := New(testConfig(), nil, arbor.NewLogger())
		text, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{server.URL},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "Article 1")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Gives up after one reattempt per URL", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		f := New(testConfig(), nil, arbor.NewLogger())
		_, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{server.URL},
		})

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Rejects non-HTML responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		f := New(testConfig(), nil, arbor.NewLogger())
		_, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{server.URL},
		})
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
	})

	t.Run("Rejects pages below the minimum useful length", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><body><p>tiny</p></body></html>"))
		}))
		defer server.Close()

		f := New(testConfig(), nil, arbor.NewLogger())
		_, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{server.URL},
		})
		require.Error(t, err)
	})

	t.Run("Offline mode skips HTTP sources", func(t *testing.T) {
		config := testConfig()
		config.Offline = true

		f := New(config, nil, arbor.NewLogger())
		_, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{"http://127.0.0.1:1"},
		})
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
	})
}

// memoryStorage is an in-memory ArticleStorage for cache tests.
type memoryStorage struct {
	articles map[string][]*models.Article
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{articles: make(map[string][]*models.Article)}
}

func (m *memoryStorage) SaveArticle(article *models.Article) error {
	copied := *article
	m.articles[article.SourceURL] = append(m.articles[article.SourceURL], &copied)
	return nil
}

func (m *memoryStorage) GetArticlesBySource(sourceURL string) ([]*models.Article, error) {
	return m.articles[sourceURL], nil
}

func (m *memoryStorage) CountArticles() (int, error) {
	count := 0
	for _, articles := range m.articles {
		count += len(articles)
	}
	return count, nil
}

func (m *memoryStorage) Close() error { return nil }

func TestScrapeCache(t *testing.T) {
	t.Run("Serves fresh cached articles without a network call", func(t *testing.T) {
		config := testConfig()
		config.CacheMaxAge = time.Hour

		cache := newMemoryStorage()
		f := New(config, cache, arbor.NewLogger())

		url := "http://127.0.0.1:1/constitution"
		f.CacheArticles(url, []models.Article{
			{Number: 1, Title: "Supremacy", Content: "This Constitution shall be the supreme law of Ghana."},
		})

		text, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{url},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "Article 1: Supremacy")
		assert.Contains(t, text, "supreme law of Ghana")
	})

	t.Run("Stale cache entries force a refetch", func(t *testing.T) {
		config := testConfig()
		config.CacheMaxAge = time.Hour

		cache := newMemoryStorage()
		url := "http://127.0.0.1:1/constitution"
		cache.articles[url] = []*models.Article{
			{Number: 1, Title: "Supremacy", Content: "old", SourceURL: url, FetchedAt: time.Now().Add(-2 * time.Hour)},
		}

		f := New(config, cache, arbor.NewLogger())
		_, err := f.Fetch(context.Background(), models.TopicEntry{
			LawName:    corpus.ConstitutionLawName,
			Source:     models.SourceHTTP,
			SourceURLs: []string{url},
		})
		// The unreachable URL proves the cache was bypassed
		require.Error(t, err)
		assert.False(t, errors.Is(err, context.Canceled))
	})
}
