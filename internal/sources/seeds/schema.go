package seeds

// SeedConfig is the root structure of a notebook seed file.
// Seeds are grouped by source platform.
type SeedConfig struct {
	Platforms []PlatformSeeds `yaml:"platforms"`
}

// PlatformSeeds holds the curated notebooks for one source platform.
type PlatformSeeds struct {
	Platform  string      `yaml:"platform"`
	Notebooks []SeedEntry `yaml:"notebooks"`
}

// SeedEntry contains the raw properties of one curated notebook.
type SeedEntry struct {
	Title       string   `yaml:"title"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description,omitempty"`
	Author      string   `yaml:"author,omitempty"`
	Institution string   `yaml:"institution,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	SizeKB      float64  `yaml:"size_kb,omitempty"`
	Published   string   `yaml:"published,omitempty"` // RFC 3339 date or datetime

	// Engagement seeds observed on the source platform
	Views     int64 `yaml:"views,omitempty"`
	Likes     int64 `yaml:"likes,omitempty"`     // stars on github, votes on kaggle
	Shares    int64 `yaml:"shares,omitempty"`    // forks on github
	Bookmarks int64 `yaml:"bookmarks,omitempty"` // watchers on github
}
