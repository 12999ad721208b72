// Package extractor turns raw legal text into candidate question/answer
// records using article-heading pattern matching and purely textual template
// substitution. Everything here is a pure function of its inputs so the
// matching rules stay testable in isolation from fetching.
package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/sankofa/internal/models"
)

// Heading patterns tolerate markdown heading prefixes since scraped pages
// arrive converted to markdown.
var (
	articleHeadingRe = regexp.MustCompile(`(?mi)^[ \t]*(?:#+[ \t]*)?Article[ \t]+(\d+)[.:\-]?[ \t]*(.*)$`)
	chapterHeadingRe = regexp.MustCompile(`(?mi)^[ \t]*(?:#+[ \t]*)?Chapter[ \t]+(\d+)\b[.:\-]?[ \t]*(.*)$`)
	sectionNumberRe  = regexp.MustCompile(`\d+`)
)

// Default answer forms, used when a topic carries no answer template for a
// question template. Both embed the extracted passage.
const (
	defaultAnswerWithTitle = "Article {n} of the {law_name}, titled '{title}', provides that: {content}"
	defaultAnswerNoTitle   = "Article {n} of the {law_name} provides that: {content}"
)

// ParseArticles splits raw constitution-style text into numbered articles.
// Chapter headings preceding an article set its chapter number. Article
// bodies are capped at maxContent runes when maxContent > 0. Text with no
// article headings yields an empty slice.
func ParseArticles(raw string, maxContent int) []models.Article {
	headings := articleHeadingRe.FindAllStringSubmatchIndex(raw, -1)
	if len(headings) == 0 {
		return nil
	}

	chapters := chapterHeadingRe.FindAllStringSubmatchIndex(raw, -1)

	articles := make([]models.Article, 0, len(headings))
	for i, h := range headings {
		number, err := strconv.Atoi(raw[h[2]:h[3]])
		if err != nil {
			continue
		}

		title := cleanTitle(raw[h[4]:h[5]])

		// Body runs from the end of this heading line to the next article
		// or chapter heading, whichever comes first.
		start := h[1]
		end := len(raw)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		for _, c := range chapters {
			if c[0] > start && c[0] < end {
				end = c[0]
				break
			}
		}

		content := strings.TrimSpace(raw[start:end])
		if content == "" {
			continue
		}
		if maxContent > 0 {
			content = truncateRunes(content, maxContent)
		}

		articles = append(articles, models.Article{
			Chapter: chapterFor(raw, chapters, h[0]),
			Number:  number,
			Title:   title,
			Content: content,
		})
	}

	return articles
}

// Extract produces candidate records for one topic from raw text: parse
// articles, filter to the topic's section refs, then fill each query
// template per matching article. No match yields an empty slice, never an
// error.
func Extract(raw string, topic models.TopicEntry, maxContent int) []models.Record {
	articles := ParseArticles(raw, maxContent)
	if len(articles) == 0 {
		return nil
	}

	wanted := sectionNumbers(topic.SectionRefs)

	var records []models.Record
	for _, article := range articles {
		if topic.HasSectionRef() && !wanted[article.Number] {
			continue
		}
		records = append(records, GenerateFromArticle(article, topic)...)
	}

	return records
}

// GenerateFromArticle fills the topic's query templates for a single parsed
// article, pairing answer templates positionally where present.
func GenerateFromArticle(article models.Article, topic models.TopicEntry) []models.Record {
	records := make([]models.Record, 0, len(topic.QueryTemplates))

	for i, qt := range topic.QueryTemplates {
		at := ""
		if i < len(topic.AnswerTemplates) {
			at = topic.AnswerTemplates[i]
		}
		if at == "" {
			if article.Title != "" {
				at = defaultAnswerWithTitle
			} else {
				at = defaultAnswerNoTitle
			}
		}

		records = append(records, models.Record{
			Question: Expand(qt, article, topic.LawName),
			Answer:   Expand(at, article, topic.LawName),
		})
	}

	return records
}

// Expand substitutes placeholders in a template. Substitution is purely
// textual; unknown placeholders are left untouched.
func Expand(template string, article models.Article, lawName string) string {
	r := strings.NewReplacer(
		"{n}", strconv.Itoa(article.Number),
		"{article}", strconv.Itoa(article.Number),
		"{article_number}", strconv.Itoa(article.Number),
		"{chapter}", strconv.Itoa(article.Chapter),
		"{law_name}", lawName,
		"{title}", article.Title,
		"{title_lower}", strings.ToLower(article.Title),
		"{content}", article.Content,
	)
	return r.Replace(template)
}

// sectionNumbers pulls article numbers out of section refs like "Article 1".
func sectionNumbers(refs []string) map[int]bool {
	numbers := make(map[int]bool, len(refs))
	for _, ref := range refs {
		if m := sectionNumberRe.FindString(ref); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				numbers[n] = true
			}
		}
	}
	return numbers
}

// chapterFor returns the number of the last chapter heading before pos, or 0.
func chapterFor(raw string, chapters [][]int, pos int) int {
	chapter := 0
	for _, c := range chapters {
		if c[0] >= pos {
			break
		}
		if n, err := strconv.Atoi(raw[c[2]:c[3]]); err == nil {
			chapter = n
		}
	}
	return chapter
}

func cleanTitle(title string) string {
	return strings.Trim(strings.TrimSpace(title), ".:-– ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// ArticleRef formats a parsed article for debug logging.
func ArticleRef(a models.Article) string {
	if a.Title == "" {
		return fmt.Sprintf("Article %d", a.Number)
	}
	return fmt.Sprintf("Article %d (%s)", a.Number, a.Title)
}
