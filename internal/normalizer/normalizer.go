// Package normalizer enforces the canonical record shape: trimmed and
// whitespace-collapsed fields, required-field and minimum-length validation,
// and order-preserving case-insensitive deduplication on question text.
package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/sankofa/internal/models"
)

var (
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

// Normalizer validates and deduplicates candidate records. Normalize is a
// pure function of its input: the same candidate sequence always yields the
// same output sequence, and the output is a fixed point (normalizing twice
// changes nothing).
type Normalizer struct {
	minQuestionLength int
	minAnswerLength   int
	validate          *validator.Validate
}

// New creates a Normalizer with the given minimum trimmed lengths (in
// runes). Non-positive values disable the corresponding length check.
func New(minQuestionLength, minAnswerLength int) *Normalizer {
	return &Normalizer{
		minQuestionLength: minQuestionLength,
		minAnswerLength:   minAnswerLength,
		validate:          validator.New(),
	}
}

// Normalize trims and collapses whitespace, drops records failing
// validation, and removes duplicate questions (case-insensitive, first
// occurrence wins), preserving encounter order. Stats counts what happened
// to each candidate.
func (n *Normalizer) Normalize(candidates []models.Record) ([]models.Record, models.RecordStats) {
	stats := models.RecordStats{Candidates: len(candidates)}

	seen := make(map[string]bool, len(candidates))
	kept := make([]models.Record, 0, len(candidates))

	for _, candidate := range candidates {
		record := models.Record{
			Question: CleanText(candidate.Question),
			Answer:   CleanText(candidate.Answer),
		}

		if !n.valid(record) {
			stats.Dropped++
			continue
		}

		key := strings.ToLower(record.Question)
		if seen[key] {
			stats.Duplicates++
			continue
		}
		seen[key] = true

		kept = append(kept, record)
	}

	stats.Kept = len(kept)
	return kept, stats
}

// valid reports whether a cleaned record satisfies the required-field and
// minimum-length rules. Failures drop the record silently; there is no
// partial-field repair.
func (n *Normalizer) valid(record models.Record) bool {
	if err := n.validate.Struct(record); err != nil {
		return false
	}
	if n.minQuestionLength > 0 && utf8.RuneCountInString(record.Question) < n.minQuestionLength {
		return false
	}
	if n.minAnswerLength > 0 && utf8.RuneCountInString(record.Answer) < n.minAnswerLength {
		return false
	}
	return true
}

// CleanText trims leading/trailing whitespace, collapses runs of spaces and
// tabs, and caps blank-line runs at one (paragraph separation preserved).
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRe.ReplaceAllString(s, " ")
	s = newlineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
