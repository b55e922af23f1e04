package manifest

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/cjkfreq/pkg/mapreduce"
)

// TopKeywords is the number of aggregate keywords kept in a manifest.
const TopKeywords = 25

// Build summarises a finished run. ranked must be the full ranking of
// res.Frequencies.
func Build(res *mapreduce.Result, ranked []mapreduce.Entry, now time.Time) SummaryManifest {
	m := SummaryManifest{
		GeneratedAt:       now.Format(time.RFC3339),
		TotalFiles:        len(res.Files),
		Skipped:           len(res.Skipped),
		DistinctTokens:    len(res.Frequencies),
		TotalTokens:       res.Frequencies.Total(),
		AggregateKeywords: mapreduce.Keywords(ranked, TopKeywords),
	}
	m.Counted = m.TotalFiles - m.Skipped

	for _, f := range res.Files {
		summary := FileSummary{
			Path:          f.Path,
			Status:        "counted",
			Language:      f.Language,
			TokensSeen:    f.TokensSeen,
			TokensCounted: f.TokensCounted,
		}
		if f.Err != nil {
			summary.Status = "skipped"
			summary.ErrorMessage = f.Err.Error()
		}
		m.Files = append(m.Files, summary)
	}
	return m
}

// GenerateSummary writes the manifest of a run to path as YAML.
func GenerateSummary(path string, res *mapreduce.Result, ranked []mapreduce.Entry) error {
	data, err := yaml.Marshal(Build(res, ranked, time.Now()))
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error saving manifest: %w", err)
	}
	return nil
}
