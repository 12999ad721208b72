package fetcher

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

// ExtractText pulls readable text out of a scraped HTML page: boilerplate
// elements are removed, the main content region is preferred when present,
// and the result is converted to markdown. When markdown conversion yields
// nothing useful the stripped plain text is returned instead.
func ExtractText(html, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("nav, header, footer, aside").Remove()
	doc.Find("[class*=ad], [id*=ad], [class*=promo], [class*=sidebar]").Remove()

	content := doc.Selection
	if main := doc.Find("main, article, [role=main]").First(); main.Length() > 0 {
		content = main
	} else if body := doc.Find("body").First(); body.Length() > 0 {
		content = body
	}

	plain := cleanWhitespace(content.Text())

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return plain, nil
	}

	converter := md.NewConverter(baseURL, true, nil)
	markdown, err := converter.ConvertString(contentHTML)
	if err != nil || strings.TrimSpace(markdown) == "" {
		// Fallback to stripped text when conversion produces empty output
		return plain, nil
	}

	return cleanWhitespace(markdown), nil
}

// cleanWhitespace collapses space runs and caps blank-line runs at one.
func cleanWhitespace(text string) string {
	text = spaceRe.ReplaceAllString(text, " ")
	text = newlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
