package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/cjkfreq/pkg/db"
	"github.com/dtnitsch/cjkfreq/pkg/mapreduce"
)

// RunsAction lists recorded runs, newest first.
func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-6s %-8s %-10s %-12s %-9s %-7s\n",
		"ID", "Created", "Files", "Skipped", "Distinct", "Total", "Strategy", "Workers")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-6d %-8d %-10d %-12d %-9s %-7d\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.FileCount,
			r.SkippedCount,
			r.DistinctTokens,
			r.TotalTokens,
			r.Strategy,
			r.Workers,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	return nil
}

// ShowAction prints the ranked frequencies of a run in the same
// "<token> <count>" format as a live count.
func ShowAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := runIDOrLatest(c, database)
	if err != nil {
		return err
	}
	if _, err := database.GetRun(runID); err != nil {
		return err
	}

	freqs, err := database.GetRunFrequencies(runID, c.Int("limit"))
	if err != nil {
		return err
	}

	entries := make([]mapreduce.Entry, len(freqs))
	for i, f := range freqs {
		entries[i] = mapreduce.Entry{Token: f.Token, Count: f.Count}
	}
	return mapreduce.Write(c.App.Writer, entries)
}

// runIDOrLatest returns the run ID from args, or the latest run if not provided
func runIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runID, err := database.LatestRunID()
		if err != nil {
			return 0, err
		}
		if runID == 0 {
			return 0, fmt.Errorf("no runs found. Run 'cjkfreq --db ... FILE...' first")
		}
		return runID, nil
	}

	runID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
