package corpus

import (
	"fmt"
	"strings"

	"github.com/ternarybob/sankofa/internal/models"
)

// ConstitutionLawName is the law_name used for both constitution topics.
const ConstitutionLawName = "1992 Constitution of Ghana"

// DefaultTopics returns the builtin topic table driving the pipeline:
// the curated constitution corpus, an optional live scrape of constitution
// mirrors, and one curated topic per statute QA set. The table is built
// fresh on each call and passed into the pipeline explicitly.
func DefaultTopics() []models.TopicEntry {
	topics := []models.TopicEntry{
		{
			LawName: ConstitutionLawName,
			Source:  models.SourceBuiltin,
			QueryTemplates: []string{
				"What does Article {n} of the 1992 Constitution of Ghana say about {title_lower}?",
				"Explain the provisions of Article {n} ({title}) in the Ghanaian Constitution.",
				"Under which chapter of the Ghana Constitution is {title} addressed and what are its provisions?",
			},
			AnswerTemplates: []string{
				"Article {n} of the 1992 Constitution of Ghana, titled '{title}', provides that: {content}",
				"Article {n} of the 1992 Constitution of Ghana addresses {title}. The article states: {content}",
				"{title} is addressed under Chapter {chapter} of the 1992 Constitution of Ghana, specifically in Article {n}. The provision states: {content}",
			},
		},
		{
			LawName: ConstitutionLawName,
			Source:  models.SourceHTTP,
			SourceURLs: []string{
				"https://ghalii.org/gh/legislation/constitution/1992",
				"https://www.constituteproject.org/constitution/Ghana_1996",
			},
			QueryTemplates: []string{
				"What does Article {n} of the 1992 Constitution of Ghana provide?",
			},
		},
	}

	for _, law := range CuratedLaws() {
		topics = append(topics, models.TopicEntry{
			LawName: law,
			Source:  models.SourceCurated,
		})
	}

	return topics
}

// RenderConstitutionText renders the curated constitution articles as plain
// text in the same shape the live sources produce, so builtin and scraped
// topics flow through the same article parser.
func RenderConstitutionText() string {
	var sb strings.Builder

	lastChapter := 0
	for _, article := range ConstitutionArticles() {
		if article.Chapter != lastChapter {
			fmt.Fprintf(&sb, "Chapter %d - %s\n\n", article.Chapter, ChapterTitle(article.Chapter))
			lastChapter = article.Chapter
		}
		fmt.Fprintf(&sb, "Article %d: %s\n%s\n\n", article.Number, article.Title, article.Content)
	}

	return sb.String()
}
