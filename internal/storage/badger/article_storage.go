package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/interfaces"
	"github.com/ternarybob/sankofa/internal/models"
)

// ArticleStorage implements the ArticleStorage interface for Badger
type ArticleStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewArticleStorage creates a new ArticleStorage instance
func NewArticleStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ArticleStorage {
	return &ArticleStorage{
		db:     db,
		logger: logger,
	}
}

// articleKey keys cached articles by source URL and article number so a
// re-scrape of the same page overwrites its own prior entries.
func articleKey(sourceURL string, number int) string {
	return fmt.Sprintf("%s#%d", sourceURL, number)
}

func (s *ArticleStorage) SaveArticle(article *models.Article) error {
	if article.SourceURL == "" {
		return fmt.Errorf("article source URL is required")
	}
	if article.ID == "" {
		article.ID = common.NewArticleID()
	}

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	if err := s.db.Store().Upsert(articleKey(article.SourceURL, article.Number), article); err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

func (s *ArticleStorage) GetArticlesBySource(sourceURL string) ([]*models.Article, error) {
	var articles []models.Article
	if err := s.db.Store().Find(&articles, badgerhold.Where("SourceURL").Eq(sourceURL)); err != nil {
		return nil, fmt.Errorf("failed to find articles: %w", err)
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].Number < articles[j].Number
	})

	result := make([]*models.Article, len(articles))
	for i := range articles {
		result[i] = &articles[i]
	}
	return result, nil
}

func (s *ArticleStorage) CountArticles() (int, error) {
	count, err := s.db.Store().Count(&models.Article{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return int(count), nil
}

func (s *ArticleStorage) Close() error {
	return s.db.Close()
}
