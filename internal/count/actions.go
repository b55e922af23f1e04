package count

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/cjkfreq/models"
	"github.com/dtnitsch/cjkfreq/pkg/db"
	"github.com/dtnitsch/cjkfreq/pkg/detector"
	"github.com/dtnitsch/cjkfreq/pkg/exclude"
	"github.com/dtnitsch/cjkfreq/pkg/failure"
	"github.com/dtnitsch/cjkfreq/pkg/filter"
	"github.com/dtnitsch/cjkfreq/pkg/manifest"
	"github.com/dtnitsch/cjkfreq/pkg/mapreduce"
	"github.com/dtnitsch/cjkfreq/pkg/partition"
	"github.com/dtnitsch/cjkfreq/pkg/reader"
	"github.com/dtnitsch/cjkfreq/pkg/segment"
)

// Flags are the flags of the count action.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "YAML config file"},
		&cli.StringFlag{Name: "excludes", Aliases: []string{"e"}, Usage: "newline-separated list of tokens to ignore"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "parallel workers (0 = one per CPU)"},
		&cli.StringFlag{Name: "strategy", Value: string(partition.Chunked), Usage: "partitioning: chunked or per-file"},
		&cli.StringFlag{Name: "dict", Usage: "segmentation dictionary file (default: embedded)"},
		&cli.BoolFlag{Name: "html", Usage: "extract text from .html/.htm inputs"},
		&cli.BoolFlag{Name: "skip-unreadable", Usage: "skip unreadable files instead of aborting"},
		&cli.BoolFlag{Name: "detect-language", Usage: "record the language of each file"},
		&cli.StringFlag{Name: "db", Usage: "record the run in this SQLite database"},
		&cli.StringFlag{Name: "summary", Usage: "write a YAML run summary to this path"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "print only the top N tokens (0 = all)"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
		&cli.BoolFlag{Name: "verbose", Usage: "log per-file detail"},
	}
}

// CountAction counts CJK tokens in the files given as arguments and prints
// the ranked "<token> <count>" lines to stdout.
func CountAction(c *cli.Context) error {
	logger := NewLogger(c.App.ErrWriter, c.Bool("quiet"), c.Bool("verbose"))

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit("", failure.ExitCode(err))
	}
	if len(cfg.Files) == 0 {
		return cli.Exit("no input files given", 2)
	}

	if err := Run(c.Context, cfg, c.App.Writer, logger); err != nil {
		logger.Error("count failed", "error", err, "kind", failure.Classify(err))
		return cli.Exit("", failure.ExitCode(err))
	}
	return nil
}

// NewLogger builds the JSON logger used by every action.
func NewLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logLevel := slog.LevelInfo
	switch {
	case quiet:
		logLevel = slog.LevelError
	case verbose:
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// loadConfig merges the optional config file with explicitly set flags.
func loadConfig(c *cli.Context) (*models.CountConfig, error) {
	cfg := &models.CountConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.NArg() > 0 {
		cfg.Files = c.Args().Slice()
	}
	if c.IsSet("excludes") {
		cfg.Excludes = c.String("excludes")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("strategy") || cfg.Strategy == "" {
		cfg.Strategy = c.String("strategy")
	}
	if c.IsSet("dict") {
		cfg.Dict = c.String("dict")
	}
	if c.IsSet("html") {
		cfg.HTML = c.Bool("html")
	}
	if c.IsSet("skip-unreadable") {
		cfg.SkipUnreadable = c.Bool("skip-unreadable")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("db") {
		cfg.DB = c.String("db")
	}
	if c.IsSet("summary") {
		cfg.Summary = c.String("summary")
	}
	if c.IsSet("limit") {
		cfg.Limit = c.Int("limit")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes one count with cfg and writes the ranked result to out.
// Nothing is written to out unless the whole run succeeds.
func Run(ctx context.Context, cfg *models.CountConfig, out io.Writer, logger *slog.Logger) error {
	return run(ctx, cfg, out, logger, nil)
}

// run takes an optional segmenter so tests can avoid loading the dictionary.
func run(ctx context.Context, cfg *models.CountConfig, out io.Writer, logger *slog.Logger, seg segment.Segmenter) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// shared read-only state is fully built before any worker starts
	excludes, err := exclude.Load(cfg.Excludes)
	if err != nil {
		return err
	}
	logger.Info("Loaded exclusion list", "path", cfg.Excludes, "entries", excludes.Len())

	if seg == nil {
		gseSeg, err := segment.NewGSE(cfg.Dict)
		if err != nil {
			return err
		}
		seg = gseSeg
	}

	opts := mapreduce.Options{
		Workers:        cfg.Workers,
		Strategy:       partition.Strategy(cfg.Strategy),
		SkipUnreadable: cfg.SkipUnreadable,
		Logger:         logger,
	}
	if cfg.DetectLanguage {
		opts.Detector = detector.New()
	}

	counter := mapreduce.NewCounter(seg, filter.New(excludes), reader.Reader{HTML: cfg.HTML}, opts)
	res, err := counter.Count(ctx, cfg.Files)
	if err != nil {
		return err
	}

	ranked := mapreduce.Rank(res.Frequencies)
	if err := mapreduce.Write(out, mapreduce.TopN(ranked, cfg.Limit)); err != nil {
		return err
	}

	if cfg.Summary != "" {
		if err := manifest.GenerateSummary(cfg.Summary, res, ranked); err != nil {
			logger.Warn("Failed to write run summary", "path", cfg.Summary, "error", err)
		} else {
			logger.Info("Run summary saved", "path", cfg.Summary)
		}
	}

	if cfg.DB != "" {
		runID, err := record(cfg, res, ranked)
		if err != nil {
			logger.Warn("Failed to record run", "db", cfg.DB, "error", err)
		} else {
			logger.Info("Run recorded", "db", cfg.DB, "run_id", runID)
		}
	}

	return nil
}

// record stores the run in the history database.
func record(cfg *models.CountConfig, res *mapreduce.Result, ranked []mapreduce.Entry) (int64, error) {
	database, err := db.Open(cfg.DB)
	if err != nil {
		return 0, err
	}
	defer database.Close()

	runRow, files, freqs := convertToRunRecord(cfg, res, ranked)
	return database.RecordRun(runRow, files, freqs)
}

// convertToRunRecord converts pipeline results to database rows.
func convertToRunRecord(cfg *models.CountConfig, res *mapreduce.Result, ranked []mapreduce.Entry) (db.Run, []db.RunFile, []db.Frequency) {
	runRow := db.Run{
		FileCount:      len(res.Files),
		SkippedCount:   len(res.Skipped),
		DistinctTokens: len(res.Frequencies),
		TotalTokens:    res.Frequencies.Total(),
		Strategy:       cfg.Strategy,
		Workers:        res.Workers,
		ExcludesPath:   cfg.Excludes,
	}

	files := make([]db.RunFile, len(res.Files))
	for i, f := range res.Files {
		files[i] = db.RunFile{
			Path:          f.Path,
			Status:        db.StatusCounted,
			Language:      f.Language,
			TokensSeen:    f.TokensSeen,
			TokensCounted: f.TokensCounted,
		}
		if f.Err != nil {
			files[i].Status = db.StatusSkipped
			files[i].ErrorMessage = f.Err.Error()
		}
	}

	freqs := make([]db.Frequency, len(ranked))
	for i, e := range ranked {
		freqs[i] = db.Frequency{Rank: i + 1, Token: e.Token, Count: e.Count}
	}
	return runRow, files, freqs
}
