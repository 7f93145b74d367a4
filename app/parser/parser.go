package parser

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/titouancv/linkedin-scrapper/app/metrics"
)

// Parser recovers post fields from a public post page. It never fails:
// malformed or empty markup yields a post made of defaults.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Run(html string) Extraction {
	result := Extraction{
		Post:      defaultPost(),
		Recovered: make(map[Field]bool, len(rules)),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Debug("Failed to parse post markup", "error", err)
		record(result)
		return result
	}

	pg := &page{doc: doc, raw: html}
	for _, r := range rules {
		for _, probe := range r.probes {
			value := r.clean(probe(pg))
			if value == "" {
				continue
			}
			r.apply(&result.Post, value)
			result.Recovered[r.field] = true
			break
		}
	}

	record(result)
	return result
}

func record(result Extraction) {
	for _, r := range rules {
		status := "defaulted"
		if result.Recovered[r.field] {
			status = "recovered"
		}
		metrics.ExtractedFields.WithLabelValues(string(r.field), status).Inc()
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
