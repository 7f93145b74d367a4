package feed

import (
	"log/slog"
	"strings"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops the posts rejected by the topic's filters.
func (f *Filterer) Run(posts []Post, filters []catalog.Filter) []Post {
	if len(filters) == 0 {
		return posts
	}

	kept := make([]Post, 0, len(posts))
	for _, post := range posts {
		if filtered, reason := f.applyFilters(post, filters); filtered {
			slog.Debug("Post filtered", "post", post.ID, "reason", reason)
			continue
		}
		kept = append(kept, post)
	}

	return kept
}

func (f *Filterer) applyFilters(post Post, filters []catalog.Filter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(post, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, "excluded by " + filter.Field + " filter: contains '" + exclude + "'"
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, "excluded by " + filter.Field + " filter: no include matched"
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(post Post, field string) string {
	switch field {
	case "text":
		return post.Text
	case "author":
		return post.Author.FullName
	case "url":
		return post.URL
	default:
		return ""
	}
}
