package parser

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

// minArticleLength drops readability output too short to be an article body,
// typically a caption or a cookie banner.
const minArticleLength = 80

// ArticleReader pulls the readable body out of article-share markup.
type ArticleReader struct {
	minLength int
}

func NewArticleReader() *ArticleReader {
	return &ArticleReader{minLength: minArticleLength}
}

// Text returns the article body as paragraphs separated by blank lines. It
// reports false when readability fails or keeps too little text.
func (r *ArticleReader) Text(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	article, err := readability.FromReader(strings.NewReader(raw), nil)
	if err != nil {
		slog.Debug("Readability failed on article share", "error", err)
		return "", false
	}

	var paragraphs []string
	for _, line := range strings.Split(article.TextContent, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}

	text := strings.Join(paragraphs, "\n\n")
	if utf8.RuneCountInString(text) < r.minLength {
		slog.Debug("Article share text too short", "title", article.Title, "length", utf8.RuneCountInString(text))
		return "", false
	}
	return text, true
}
