package models

import "time"

// Article is the intermediate parse unit for constitution-style legal text:
// one numbered article with its title and body. Articles are produced by the
// extractor's heading parser and cached between runs so unchanged sources
// are not refetched.
type Article struct {
	ID      string `json:"id"` // art_<uuid>
	Chapter int    `json:"chapter,omitempty"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// Markdown form of the scraped page region the article came from,
	// empty for builtin corpus articles.
	ContentMarkdown string `json:"content_markdown,omitempty"`

	SourceURL string    `json:"source_url,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
