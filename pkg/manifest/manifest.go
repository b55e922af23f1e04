package manifest

// SummaryManifest is the YAML overview of one count run: totals, the top
// keywords and what happened to each input file.
type SummaryManifest struct {
	GeneratedAt       string        `yaml:"generated_at"`
	TotalFiles        int           `yaml:"total_files"`
	Counted           int           `yaml:"counted"`
	Skipped           int           `yaml:"skipped"`
	DistinctTokens    int           `yaml:"distinct_tokens"`
	TotalTokens       uint64        `yaml:"total_tokens"`
	AggregateKeywords []string      `yaml:"aggregate_keywords"`
	Files             []FileSummary `yaml:"files"`
}

// FileSummary describes one input file.
type FileSummary struct {
	Path          string `yaml:"path"`
	Status        string `yaml:"status"` // "counted" or "skipped"
	Language      string `yaml:"language,omitempty"`
	TokensSeen    uint64 `yaml:"tokens_seen"`
	TokensCounted uint64 `yaml:"tokens_counted"`
	ErrorMessage  string `yaml:"error_message,omitempty"`
}
