package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yml
var defaultRegistry []byte

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validFilterFields = map[string]bool{
	"text":   true,
	"author": true,
	"url":    true,
}

// Catalog is the registry of supported topics: the built-in set, extended or
// overridden by <slug>.yml files in topicsDir.
type Catalog struct {
	topicsDir string
	topics    map[string]*Topic
	order     []string
	mu        sync.RWMutex
}

func NewCatalog(topicsDir string) *Catalog {
	return &Catalog{
		topicsDir: topicsDir,
		topics:    make(map[string]*Topic),
	}
}

func (c *Catalog) Run() error {
	var reg registry
	if err := yaml.Unmarshal(defaultRegistry, &reg); err != nil {
		return fmt.Errorf("failed to parse built-in topics: %w", err)
	}
	for i := range reg.Topics {
		if err := c.store(&reg.Topics[i]); err != nil {
			return fmt.Errorf("invalid built-in topic: %w", err)
		}
	}

	if c.topicsDir == "" {
		return nil
	}
	if _, err := os.Stat(c.topicsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.topicsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		slug := strings.TrimSuffix(filepath.Base(file), ".yml")

		topic, err := c.LoadTopic(slug)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Topic loaded", "topic", topic.Slug, "name", topic.Name, "filters", len(topic.Filters))
	}

	return nil
}

// LoadTopic reads <slug>.yml from the topics directory and adds it to the
// catalog, replacing any topic with the same slug.
func (c *Catalog) LoadTopic(slug string) (*Topic, error) {
	topicFile := filepath.Join(c.topicsDir, slug+".yml")

	data, err := os.ReadFile(topicFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var topic Topic
	if err := yaml.Unmarshal(data, &topic); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	topic.Slug = slug

	if err := c.store(&topic); err != nil {
		return nil, fmt.Errorf("invalid topic %s: %w", topicFile, err)
	}

	return &topic, nil
}

func (c *Catalog) store(topic *Topic) error {
	if err := validateTopic(topic); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.topics[topic.Slug]; !exists {
		c.order = append(c.order, topic.Slug)
	}
	c.topics[topic.Slug] = topic
	return nil
}

// Get looks a topic up by slug. Unknown slugs are not an error.
func (c *Catalog) Get(slug string) (Topic, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topic, ok := c.topics[slug]
	if !ok {
		return Topic{}, false
	}
	return *topic, true
}

// Resolve returns the topic for slug, or a bare topic named after the raw
// slug when the catalog does not know it.
func (c *Catalog) Resolve(slug string) Topic {
	if topic, ok := c.Get(slug); ok {
		return topic
	}
	return Topic{Slug: slug, Name: slug}
}

func (c *Catalog) DisplayName(slug string) string {
	return c.Resolve(slug).Name
}

func (c *Catalog) List() []Topic {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topics := make([]Topic, 0, len(c.order))
	for _, slug := range c.order {
		topics = append(topics, *c.topics[slug])
	}
	return topics
}

func (c *Catalog) Names() []string {
	topics := c.List()
	names := make([]string, 0, len(topics))
	for _, topic := range topics {
		if !slices.Contains(names, topic.Name) {
			names = append(names, topic.Name)
		}
	}
	return names
}

func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.topics)
}

func validateTopic(topic *Topic) error {
	if topic == nil {
		return fmt.Errorf("topic is nil")
	}

	requiredFields := map[string]string{
		"topic slug": topic.Slug,
		"topic name": topic.Name,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if !slugPattern.MatchString(topic.Slug) {
		return fmt.Errorf("invalid topic slug: %s", topic.Slug)
	}

	for i, filter := range topic.Filters {
		if !validFilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

// ListWithPopularity returns every topic with its popularity score filled
// in. A nil scorer leaves every score at 0.
func (c *Catalog) ListWithPopularity(ctx context.Context, scorer *Scorer) []Topic {
	topics := c.List()
	if scorer == nil {
		return topics
	}

	scores := scorer.Scores(ctx, c.Names())
	for i := range topics {
		topics[i].PopularityScore = max(0, min(100, scores[topics[i].Name]))
	}
	return topics
}
