package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCatalogRunLoadsBuiltInTopics(t *testing.T) {
	c := NewCatalog("")
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	if c.Count() < 3 {
		t.Fatalf("Expected built-in topics, got %d", c.Count())
	}

	topic, ok := c.Get("ai-act")
	if !ok {
		t.Fatal("Expected 'ai-act' topic")
	}
	if topic.Name != "AI Act" {
		t.Errorf("Expected name 'AI Act', got '%s'", topic.Name)
	}
	if topic.Field == "" {
		t.Error("Expected field to be set")
	}

	list := c.List()
	if list[0].Slug != "ai-act" {
		t.Errorf("Expected catalog order to be preserved, got '%s' first", list[0].Slug)
	}
}

func TestCatalogUnknownSlug(t *testing.T) {
	c := NewCatalog("")
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("no-such-topic"); ok {
		t.Error("Expected unknown slug to be absent")
	}
	if name := c.DisplayName("no-such-topic"); name != "no-such-topic" {
		t.Errorf("Expected raw slug as display name, got '%s'", name)
	}
	topic := c.Resolve("no-such-topic")
	if topic.Slug != "no-such-topic" || topic.Name != "no-such-topic" {
		t.Errorf("Expected bare topic for unknown slug, got %+v", topic)
	}
}

func TestCatalogLoadsOverrideDirectory(t *testing.T) {
	tempDir := t.TempDir()

	override := `
name: "AI Act (EU 2024/1689)"
field: "Artificial Intelligence"
filters:
  - field: "text"
    excludes:
      - "hiring"
`
	extra := `
name: "Cyber Resilience Act"
field: "Cybersecurity"
description: "Security requirements for products with digital elements."
`
	if err := os.WriteFile(filepath.Join(tempDir, "ai-act.yml"), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "cra.yml"), []byte(extra), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCatalog(tempDir)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	topic, _ := c.Get("ai-act")
	if topic.Name != "AI Act (EU 2024/1689)" {
		t.Errorf("Expected overridden name, got '%s'", topic.Name)
	}
	if len(topic.Filters) != 1 || topic.Filters[0].Excludes[0] != "hiring" {
		t.Errorf("Expected one exclude filter, got %+v", topic.Filters)
	}

	cra, ok := c.Get("cra")
	if !ok {
		t.Fatal("Expected 'cra' topic from override directory")
	}
	if cra.Description == "" {
		t.Error("Expected description to be loaded")
	}

	list := c.List()
	if list[0].Slug != "ai-act" {
		t.Errorf("Expected overridden topic to keep its position, got '%s' first", list[0].Slug)
	}
	if list[len(list)-1].Slug != "cra" {
		t.Errorf("Expected new topic last, got '%s'", list[len(list)-1].Slug)
	}
}

func TestCatalogMissingDirectoryIsNotAnError(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "missing"))
	if err := c.Run(); err != nil {
		t.Errorf("Expected no error for missing directory, got %v", err)
	}
}

func TestCatalogRejectsInvalidTopics(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		errorMsg string
	}{
		{"missing name", "broken.yml", `field: "Data"`, "topic name is required"},
		{"bad slug", "Bad_Slug.yml", `name: "Bad"`, "invalid topic slug"},
		{"bad filter field", "filtered.yml", "name: \"F\"\nfilters:\n  - field: \"title\"\n    includes: [\"x\"]", "invalid filter field"},
		{"empty filter", "empty.yml", "name: \"F\"\nfilters:\n  - field: \"text\"", "at least one include or exclude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(tempDir, tt.file), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			err := NewCatalog(tempDir).Run()
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("Expected error containing '%s', got '%s'", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestCatalogListWithPopularity(t *testing.T) {
	c := NewCatalog("")
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	source := &fakeSource{values: map[string]int{"AI Act": 80, "DMA": 35}}
	scorer := NewScorer(source, WithBatchDelay(0))

	topics := c.ListWithPopularity(context.Background(), scorer)
	for _, topic := range topics {
		switch topic.Name {
		case "AI Act":
			if topic.PopularityScore != 80 {
				t.Errorf("Expected AI Act score 80, got %d", topic.PopularityScore)
			}
		case "DMA":
			if topic.PopularityScore != 35 {
				t.Errorf("Expected DMA score 35, got %d", topic.PopularityScore)
			}
		default:
			if topic.PopularityScore != 0 {
				t.Errorf("Expected %s score 0, got %d", topic.Name, topic.PopularityScore)
			}
		}
	}

	if withoutScorer := c.ListWithPopularity(context.Background(), nil); withoutScorer[0].PopularityScore != 0 {
		t.Errorf("Expected zero score without scorer, got %d", withoutScorer[0].PopularityScore)
	}
}
