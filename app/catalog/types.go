package catalog

// Topic is one supported topic. PopularityScore is filled only by
// ListWithPopularity.
type Topic struct {
	Slug            string   `yaml:"slug" json:"slug"`
	Name            string   `yaml:"name" json:"name"`
	Field           string   `yaml:"field" json:"field"`
	Description     string   `yaml:"description,omitempty" json:"description,omitempty"`
	PopularityScore int      `yaml:"-" json:"popularityScore"`
	Filters         []Filter `yaml:"filters" json:"-"`
}

// Filter keeps or drops posts of a topic by substring match on one field.
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

type registry struct {
	Topics []Topic `yaml:"topics"`
}
