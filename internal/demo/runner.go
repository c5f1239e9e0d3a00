package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hyperjump/chikai/internal/metric"
	"github.com/hyperjump/chikai/internal/models"
	"github.com/hyperjump/chikai/internal/search"
	"go.uber.org/zap"
)

// WordOrderQueries pair each name with its word-swapped form. Searching both under
// the two metrics shows where word order matters.
var WordOrderQueries = []string{
	"premium device pro techno",
	"device premium techno pro",
	"digital headphones gaming wave",
	"headphones digital wave gaming",
}

// PerformanceQueries are timed at each k in Options.KValues.
var PerformanceQueries = []string{
	"premium device pro techno",
	"digital component basic nexus",
	"elegant watch signature zenith",
	"portable speaker elite wave",
	"wireless headphones gaming pulse",
}

const (
	wordOrderK   = 5
	shownResults = 5
	exampleCount = 5
)

// Options configures a demo run.
type Options struct {
	Count   int
	Seed    uint64
	KValues []int
	Out     io.Writer
	Logger  *zap.Logger
}

// Run generates Count names, ingests them through engine, and prints examples, the
// word-order comparison and timed searches to opts.Out.
func Run(ctx context.Context, engine *search.Engine, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	w := opts.Out
	if w == nil {
		w = io.Discard
	}
	kValues := opts.KValues
	if len(kValues) == 0 {
		kValues = []int{20, 100}
	}

	gen := NewGenerator(opts.Seed)
	fmt.Fprintf(w, "Generating %d random product names (seed %d)...\n", opts.Count, opts.Seed)
	start := time.Now()
	names := gen.Names(opts.Count)
	fmt.Fprintf(w, "Generated %d product names in %s\n", len(names), time.Since(start))

	start = time.Now()
	resp, err := engine.Ingest(ctx, &models.IngestRequest{Strings: names, Source: models.SourceDemo})
	if err != nil {
		return fmt.Errorf("ingest demo names: %w", err)
	}
	fmt.Fprintf(w, "Ingested %d strings in %s (collection size %d)\n", resp.Ingested, time.Since(start), resp.Total)
	logger.Debug("demo collection ingested", zap.Int("count", resp.Ingested), zap.Uint64("seed", opts.Seed))

	fmt.Fprintln(w, "\nExample product names:")
	for _, name := range gen.Sample(names, exampleCount) {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w, "\n===== WORD ORDER SENSITIVITY =====")
	for _, q := range WordOrderQueries {
		fmt.Fprintf(w, "\nQuery: %q\n", q)
		for _, m := range []metric.Metric{metric.OrderSensitive, metric.OrderInsensitive} {
			fmt.Fprintf(w, "\n[%s]\n", m)
			if err := timedSearch(ctx, w, engine, q, wordOrderK, m); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w, "\n===== PERFORMANCE =====")
	for _, q := range PerformanceQueries {
		fmt.Fprintln(w, "\n---------------------------------------------------")
		fmt.Fprintf(w, "Query: %q\n", q)
		for _, m := range []metric.Metric{metric.OrderSensitive, metric.OrderInsensitive} {
			fmt.Fprintf(w, "\n[%s]\n", m)
			for _, k := range kValues {
				if err := timedSearch(ctx, w, engine, q, k, m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func timedSearch(ctx context.Context, w io.Writer, engine *search.Engine, query string, k int, m metric.Metric) error {
	start := time.Now()
	resp, err := engine.Search(ctx, &models.SearchQuery{Query: query, K: models.IntPtr(k), Metric: m.String()})
	if err != nil {
		return fmt.Errorf("demo search %q: %w", query, err)
	}
	elapsed := time.Since(start)
	fmt.Fprintf(w, "\nk=%d: found %d results in %d microseconds (%.2f ms)\n",
		k, len(resp.Results), elapsed.Microseconds(), float64(elapsed.Microseconds())/1000)
	fmt.Fprintf(w, "Top %d results:\n", shownResults)
	for _, hit := range resp.Hits[:min(shownResults, len(resp.Hits))] {
		fmt.Fprintf(w, "  %d. [%d] %s\n", hit.Rank, hit.Distance, hit.Item.Content)
	}
	if extra := len(resp.Hits) - shownResults; extra > 0 {
		fmt.Fprintf(w, "  ... and %d more results\n", extra)
	}
	return nil
}
