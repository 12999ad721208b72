package interfaces

import "github.com/ternarybob/sankofa/internal/models"

// ArticleStorage caches parsed articles between pipeline runs so unchanged
// sources are not refetched. Implementations must be safe for use from a
// single pipeline run (no concurrent writers are expected).
type ArticleStorage interface {
	// SaveArticle upserts an article keyed by source URL and article number.
	SaveArticle(article *models.Article) error

	// GetArticlesBySource returns all cached articles for a source URL,
	// ordered by article number. A missing source yields an empty slice.
	GetArticlesBySource(sourceURL string) ([]*models.Article, error)

	// CountArticles returns the total number of cached articles.
	CountArticles() (int, error)

	// Close releases the underlying store.
	Close() error
}
