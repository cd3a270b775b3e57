package presentation

import (
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"ClimbCoach/internal/domain"
)

const ellipsis = "…"

var (
	tagExpr = regexp.MustCompile(`<[^>]*>?`)

	truncationMarks = strings.NewReplacer(
		"[&hellip;]", "...",
		"[&#8230;]", "...",
		"[…]", "...",
		"&hellip;", "...",
		"&#8230;", "...",
		"…", "...",
	)

	angleBrackets = strings.NewReplacer("<", "", ">", "")

	contentPolicy = bluemonday.UGCPolicy()
)

// PlainTextExcerpt renders the provider excerpt as a single line of plain text of at
// most maxLength runes, plus a trailing ellipsis when it had to be cut.
func PlainTextExcerpt(post domain.Post, maxLength int) string {
	return Truncate(PlainText(post.Excerpt.Rendered), maxLength)
}

// PlainText strips markup, decodes entities and truncation marks, and collapses
// whitespace. The result never contains '<' or '>'.
func PlainText(fragment string) string {
	text := truncationMarks.Replace(extractText(truncationMarks.Replace(fragment)))
	text = angleBrackets.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// PlainTitle returns the rendered title as text, e.g. "Tips &amp; Tricks" -> "Tips & Tricks".
func PlainTitle(title domain.Rendered) string {
	return PlainText(title.Rendered)
}

// Truncate cuts text to maxLength runes and appends a one-rune ellipsis when cut.
func Truncate(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimRight(string(runes[:maxLength]), " ")
	return cut + ellipsis
}

// SanitizeContent strips scripts, comments and unsafe attributes from a post body.
func SanitizeContent(html string) template.HTML {
	return template.HTML(strings.TrimSpace(contentPolicy.Sanitize(html)))
}

func extractText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return tagExpr.ReplaceAllString(fragment, " ")
	}
	doc.Find("script, style").Remove()
	// Block boundaries would otherwise glue words together.
	doc.Find("p, br, li, div, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	return doc.Find("body").Text()
}
