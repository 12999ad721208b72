package models

const (
	// SourceBuiltin serves curated corpus text bundled with the binary
	SourceBuiltin = "builtin"
	// SourceHTTP scrapes raw text from the topic's source URLs
	SourceHTTP = "http"
	// SourceCurated serves hand-written QA records directly, bypassing extraction
	SourceCurated = "curated"
)

// TopicEntry is a static configuration item driving the fetcher and
// extractor for one legal subject area. Topic tables are built once and
// passed in explicitly; they are never mutated at runtime.
type TopicEntry struct {
	LawName        string   `json:"law_name" toml:"law_name"`
	Source         string   `json:"source" toml:"source"`                   // "builtin" or "http"
	SourceURLs     []string `json:"source_urls" toml:"source_urls"`         // candidate URLs, tried in order
	SectionRefs    []string `json:"section_refs" toml:"section_refs"`       // e.g. "Article 1"; empty = all parsed sections
	QueryTemplates []string `json:"query_templates" toml:"query_templates"` // question templates with {n}/{law_name}/{title} placeholders

	// AnswerTemplates pair positionally with QueryTemplates. When absent (or
	// shorter than QueryTemplates), the extractor falls back to its default
	// answer form, which always embeds the extracted passage.
	AnswerTemplates []string `json:"answer_templates,omitempty" toml:"answer_templates"`
}

// HasSectionRef reports whether the topic restricts extraction to specific
// sections. An empty ref list means every parsed section is eligible.
func (t *TopicEntry) HasSectionRef() bool {
	return len(t.SectionRefs) > 0
}
