package badger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sankofa/internal/common"
	"github.com/ternarybob/sankofa/internal/models"
)

func openTestStorage(t *testing.T) *ArticleStorage {
	t.Helper()

	db, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "cache"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewArticleStorage(db, arbor.NewLogger()).(*ArticleStorage)
}

func TestArticleStorage(t *testing.T) {
	t.Run("Save assigns ID and timestamps", func(t *testing.T) {
		storage := openTestStorage(t)

		article := &models.Article{
			SourceURL: "https://example.org/constitution",
			Number:    1,
			Title:     "Supremacy of the Constitution",
			Content:   "This Constitution shall be the supreme law of Ghana.",
		}
		require.NoError(t, storage.SaveArticle(article))

		assert.NotEmpty(t, article.ID)
		assert.Contains(t, article.ID, "art_")
		assert.False(t, article.CreatedAt.IsZero())
		assert.False(t, article.UpdatedAt.IsZero())
	})

	t.Run("Save without source URL fails", func(t *testing.T) {
		storage := openTestStorage(t)

		err := storage.SaveArticle(&models.Article{Number: 1, Content: "text"})
		require.Error(t, err)
	})

	t.Run("Resaving the same article upserts instead of duplicating", func(t *testing.T) {
		storage := openTestStorage(t)
		url := "https://example.org/constitution"

		require.NoError(t, storage.SaveArticle(&models.Article{SourceURL: url, Number: 1, Content: "old"}))
		require.NoError(t, storage.SaveArticle(&models.Article{SourceURL: url, Number: 1, Content: "new"}))

		articles, err := storage.GetArticlesBySource(url)
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "new", articles[0].Content)
	})

	t.Run("Articles come back ordered by number per source", func(t *testing.T) {
		storage := openTestStorage(t)
		url := "https://example.org/constitution"

		for _, number := range []int{21, 1, 12} {
			require.NoError(t, storage.SaveArticle(&models.Article{SourceURL: url, Number: number, Content: "text"}))
		}
		require.NoError(t, storage.SaveArticle(&models.Article{SourceURL: "https://other.org", Number: 5, Content: "text"}))

		articles, err := storage.GetArticlesBySource(url)
		require.NoError(t, err)
		require.Len(t, articles, 3)
		assert.Equal(t, 1, articles[0].Number)
		assert.Equal(t, 12, articles[1].Number)
		assert.Equal(t, 21, articles[2].Number)

		count, err := storage.CountArticles()
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("Unknown source returns no articles", func(t *testing.T) {
		storage := openTestStorage(t)

		articles, err := storage.GetArticlesBySource("https://nowhere.example")
		require.NoError(t, err)
		assert.Empty(t, articles)
	})
}
