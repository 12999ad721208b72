package corpus

import (
	"strings"
	"testing"

	"github.com/ternarybob/sankofa/internal/models"
)

func TestConstitutionArticles(t *testing.T) {
	articles := ConstitutionArticles()
	if len(articles) == 0 {
		t.Fatal("Expected curated constitution articles")
	}

	if articles[0].Number != 1 || articles[0].Title != "Supremacy of the Constitution" {
		t.Errorf("Unexpected first article: %+v", articles[0])
	}

	lastNumber := 0
	for _, article := range articles {
		if article.Number <= lastNumber {
			t.Errorf("Articles out of order at %d (after %d)", article.Number, lastNumber)
		}
		lastNumber = article.Number

		if article.Chapter == 0 {
			t.Errorf("Article %d has no chapter", article.Number)
		}
		if ChapterTitle(article.Chapter) == "" {
			t.Errorf("Article %d chapter %d has no title", article.Number, article.Chapter)
		}
		if strings.TrimSpace(article.Content) == "" {
			t.Errorf("Article %d has empty content", article.Number)
		}
	}
}

func TestRenderConstitutionText(t *testing.T) {
	text := RenderConstitutionText()

	if !strings.Contains(text, "Chapter 1 - The Constitution") {
		t.Error("Missing chapter heading")
	}
	if !strings.Contains(text, "Article 1: Supremacy of the Constitution") {
		t.Error("Missing article heading")
	}
	if !strings.Contains(text, "supreme law of Ghana") {
		t.Error("Missing article body")
	}
	// Chapter headings appear once even when several articles share a chapter
	if got := strings.Count(text, "Chapter 5 - "); got != 1 {
		t.Errorf("Expected chapter 5 heading once, got %d", got)
	}
}

func TestCuratedRecords(t *testing.T) {
	laws := CuratedLaws()
	if len(laws) == 0 {
		t.Fatal("Expected curated laws")
	}

	total := 0
	for _, law := range laws {
		records := CuratedRecords(law)
		if len(records) == 0 {
			t.Errorf("No curated records for %q", law)
			continue
		}
		total += len(records)

		for i, record := range records {
			if strings.TrimSpace(record.Question) == "" || strings.TrimSpace(record.Answer) == "" {
				t.Errorf("%q record %d has an empty field", law, i)
			}
		}
	}

	if total < 30 {
		t.Errorf("Expected at least 30 curated records across all laws, got %d", total)
	}

	if records := CuratedRecords("Unknown Law"); records != nil {
		t.Errorf("Expected nil for unknown law, got %d records", len(records))
	}
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics()
	if len(topics) < 3 {
		t.Fatalf("Expected builtin, http, and curated topics, got %d", len(topics))
	}

	if topics[0].LawName != ConstitutionLawName || topics[0].Source != models.SourceBuiltin {
		t.Errorf("First topic should be the builtin constitution: %+v", topics[0])
	}
	if len(topics[0].QueryTemplates) != len(topics[0].AnswerTemplates) {
		t.Errorf("Builtin constitution templates unpaired: %d questions, %d answers",
			len(topics[0].QueryTemplates), len(topics[0].AnswerTemplates))
	}

	if topics[1].Source != models.SourceHTTP || len(topics[1].SourceURLs) == 0 {
		t.Errorf("Second topic should scrape live sources: %+v", topics[1])
	}

	curated := 0
	for _, topic := range topics[2:] {
		if topic.Source != models.SourceCurated {
			t.Errorf("Trailing topics should be curated: %+v", topic)
		}
		curated++
	}
	if curated != len(CuratedLaws()) {
		t.Errorf("Expected one curated topic per law, got %d for %d laws", curated, len(CuratedLaws()))
	}
}
