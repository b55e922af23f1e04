package mapreduce

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/cjkfreq/pkg/detector"
	"github.com/dtnitsch/cjkfreq/pkg/failure"
	"github.com/dtnitsch/cjkfreq/pkg/filter"
	"github.com/dtnitsch/cjkfreq/pkg/partition"
	"github.com/dtnitsch/cjkfreq/pkg/segment"
)

// TextReader loads one input file as text.
type TextReader interface {
	ReadText(path string) (string, error)
}

// Options tunes a Counter.
type Options struct {
	// Workers bounds the number of partitions processed at once.
	// Zero means one per CPU.
	Workers  int
	Strategy partition.Strategy
	// SkipUnreadable logs and skips files that cannot be read instead of
	// failing the run.
	SkipUnreadable bool
	// Detector, when set, records the language of each file.
	Detector *detector.Detector
	Logger   *slog.Logger
}

// FileStat describes what happened to one input file.
type FileStat struct {
	Path          string
	Language      string
	TokensSeen    uint64
	TokensCounted uint64
	Err           error
}

// Result is the outcome of a successful run.
type Result struct {
	Frequencies Frequencies
	// Files holds one stat per input file, in input order.
	Files []FileStat
	// Skipped holds the files dropped under SkipUnreadable.
	Skipped    []FileStat
	Partitions int
	Workers    int
}

// Counter runs the partition, map, reduce pipeline over a set of files.
// The segmenter, filter and reader are shared read-only by every worker.
type Counter struct {
	seg    segment.Segmenter
	filter *filter.Filter
	reader TextReader
	opts   Options
	logger *slog.Logger
}

// NewCounter returns a Counter. seg, flt and r must be safe for concurrent use.
func NewCounter(seg segment.Segmenter, flt *filter.Filter, r TextReader, opts Options) *Counter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Counter{seg: seg, filter: flt, reader: r, opts: opts, logger: logger}
}

type partial struct {
	freq  Frequencies
	stats []FileStat
	err   error
}

// Count processes paths and returns the merged frequencies.
//
// Each partition is mapped by its own worker into a local map; at most
// Options.Workers run at once. Once a worker fails no further partitions are
// started, but every started worker runs to completion and is joined before
// Count returns. A WorkerPanic is reported in preference to an IOError.
func (c *Counter) Count(ctx context.Context, paths []string) (*Result, error) {
	workers := partition.Parallelism(c.opts.Workers)
	parts := partition.Split(paths, c.opts.Strategy, workers)
	c.logger.Info("Starting map phase", "files", len(paths), "partitions", len(parts), "workers", workers, "strategy", c.opts.Strategy)

	locals := make([]partial, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, part := range parts {
		if gctx.Err() != nil {
			c.logger.Debug("Stopped dispatching partitions", "remaining", len(parts)-i)
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &failure.WorkerPanic{Worker: i, Value: r, Stack: debug.Stack()}
					c.logger.Error("Worker panicked", "worker_id", i, "panic", r)
					locals[i].err = err
				}
			}()
			// g.Go may have blocked on the limit while another worker failed
			if gctx.Err() != nil {
				return nil
			}
			locals[i] = c.mapPartition(ctx, i, part)
			return locals[i].err
		})
	}

	if err := g.Wait(); err != nil || ctx.Err() != nil {
		return nil, worstError(err, ctx.Err(), locals)
	}
	c.logger.Info("All map workers finished", "partitions", len(parts))

	res := &Result{Partitions: len(parts), Workers: workers}
	intermediate := make([]Frequencies, 0, len(locals))
	for _, l := range locals {
		intermediate = append(intermediate, l.freq)
		for _, st := range l.stats {
			res.Files = append(res.Files, st)
			if st.Err != nil {
				res.Skipped = append(res.Skipped, st)
			}
		}
	}
	res.Frequencies = Reduce(intermediate)
	c.logger.Info("Reduce phase complete", "distinct_tokens", len(res.Frequencies), "skipped_files", len(res.Skipped))

	return res, nil
}

// mapPartition is the body of one worker.
func (c *Counter) mapPartition(ctx context.Context, id int, part []string) partial {
	c.logger.Debug("Worker started partition", "worker_id", id, "files", len(part))
	local := make(Frequencies)
	stats := make([]FileStat, 0, len(part))

	for _, path := range part {
		if err := ctx.Err(); err != nil {
			return partial{err: err}
		}

		text, err := c.reader.ReadText(path)
		if err != nil {
			var ioErr *failure.IOError
			if !errors.As(err, &ioErr) {
				err = &failure.IOError{Path: path, Err: err}
			}
			if c.opts.SkipUnreadable {
				c.logger.Warn("Skipping unreadable file", "worker_id", id, "path", path, "error", err)
				stats = append(stats, FileStat{Path: path, Err: err})
				continue
			}
			c.logger.Error("Error reading file", "worker_id", id, "path", path, "error", err)
			return partial{err: err}
		}

		st := FileStat{Path: path}
		if c.opts.Detector != nil {
			st.Language = c.opts.Detector.Detect(text)
		}
		st.TokensSeen, st.TokensCounted = Map(local, text, c.seg, c.filter)
		c.logger.Debug("Counted file", "worker_id", id, "path", path, "language", st.Language, "tokens_seen", st.TokensSeen, "tokens_counted", st.TokensCounted)
		stats = append(stats, st)
	}

	c.logger.Debug("Worker finished partition", "worker_id", id, "distinct_tokens", len(local))
	return partial{freq: local, stats: stats}
}

// worstError picks the most severe failure, keeping the first reported one
// among equals.
func worstError(first, ctxErr error, locals []partial) error {
	worst := first
	if worst == nil {
		worst = ctxErr
	}
	for _, l := range locals {
		if failure.Severity(l.err) > failure.Severity(worst) {
			worst = l.err
		}
	}
	return worst
}
