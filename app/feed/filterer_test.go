package feed

import (
	"testing"

	"github.com/titouancv/linkedin-scrapper/app/catalog"
)

func TestFilterer_NoFilters(t *testing.T) {
	posts := []Post{{ID: "1", Text: "one"}, {ID: "2", Text: "two"}}

	result := NewFilterer().Run(posts, nil)
	if len(result) != 2 {
		t.Errorf("Expected 2 posts, got %d", len(result))
	}
}

func TestFilterer_TextExclude(t *testing.T) {
	posts := []Post{
		{ID: "1", Text: "AI Act obligations for deployers"},
		{ID: "2", Text: "We are HIRING an AI Act lawyer"},
	}
	filters := []catalog.Filter{{Field: "text", Excludes: []string{"hiring"}}}

	result := NewFilterer().Run(posts, filters)
	if len(result) != 1 || result[0].ID != "1" {
		t.Errorf("Expected only post 1 to remain, got %+v", result)
	}
}

func TestFilterer_AuthorInclude(t *testing.T) {
	posts := []Post{
		{ID: "1", Author: Author{FullName: "Marie Dupont"}},
		{ID: "2", Author: Author{FullName: "Jean Martin"}},
		{ID: "3", Author: Author{FullName: "Anna Schmidt"}},
	}
	filters := []catalog.Filter{{Field: "author", Includes: []string{"dupont", "schmidt"}}}

	result := NewFilterer().Run(posts, filters)
	if len(result) != 2 {
		t.Fatalf("Expected 2 posts, got %d", len(result))
	}
	if result[0].ID != "1" || result[1].ID != "3" {
		t.Errorf("Expected posts 1 and 3 in order, got %s and %s", result[0].ID, result[1].ID)
	}
}

func TestFilterer_URLAndUnknownField(t *testing.T) {
	posts := []Post{
		{ID: "1", URL: "https://www.linkedin.com/posts/a"},
		{ID: "2", URL: "https://www.linkedin.com/pulse/b"},
	}

	result := NewFilterer().Run(posts, []catalog.Filter{{Field: "url", Excludes: []string{"/pulse/"}}})
	if len(result) != 1 || result[0].ID != "1" {
		t.Errorf("Expected only post 1, got %+v", result)
	}

	result = NewFilterer().Run(posts, []catalog.Filter{{Field: "title", Includes: []string{"x"}}})
	if len(result) != 0 {
		t.Errorf("Expected include on unknown field to match nothing, got %d", len(result))
	}
}
