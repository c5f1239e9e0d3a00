// Package search provides the k-nearest-neighbour search engine over stored strings.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/chikai/internal/config"
	"github.com/hyperjump/chikai/internal/metric"
	"github.com/hyperjump/chikai/internal/models"
	"github.com/hyperjump/chikai/internal/ranking"
	"github.com/hyperjump/chikai/internal/storage"
	"go.uber.org/zap"
)

// Engine answers search and ingest requests against a Storage.
type Engine struct {
	storage       storage.Storage
	config        *config.SearchConfig
	defaultMetric metric.Metric
	logger        *zap.Logger
}

// NewEngine creates a search engine with the given dependencies.
// An unparseable default metric in cfg falls back to metric.Default; logger may be nil.
func NewEngine(storage storage.Storage, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := cfg.Metric()
	if err != nil {
		logger.Warn("invalid default metric, using fallback",
			zap.String("default_metric", cfg.DefaultMetric), zap.String("fallback", metric.Default.String()))
		m = metric.Default
	}
	return &Engine{
		storage:       storage,
		config:        cfg,
		defaultMetric: m,
		logger:        logger,
	}
}

// Search scans the whole collection and returns the k nearest items to the query.
// The context is only checked before the scan; a started scan runs to completion.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, m, err := ProcessQuery(query, e.config, e.defaultMetric)
	if err != nil {
		return nil, err
	}

	hits, total, err := e.storage.SearchHits(query.Query, k, m)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	response := &models.SearchResponse{
		Results:   ranking.Contents(hits),
		Hits:      hits,
		Total:     total,
		K:         k,
		Metric:    m.String(),
		QueryTime: time.Since(startTime).Milliseconds(),
		Query:     query.Query,
	}
	e.logger.Debug("search completed",
		zap.String("query", query.Query),
		zap.Int("k", k),
		zap.String("metric", m.String()),
		zap.Int("scanned", total),
		zap.Int("results", len(hits)),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return response, nil
}

// Ingest appends the request's strings to the collection.
func (e *Engine) Ingest(ctx context.Context, req *models.IngestRequest) (*models.IngestResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source := req.Source
	if source == "" {
		source = models.SourceAPI
	}
	items, err := e.storage.Ingest(source, req.Strings)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	total := e.storage.Size()
	e.logger.Debug("strings ingested", zap.String("source", source), zap.Int("count", len(items)), zap.Int("total", total))
	return &models.IngestResponse{Ingested: len(items), Total: total}, nil
}

// Size returns the number of stored items.
func (e *Engine) Size() int {
	return e.storage.Size()
}

// Poisoned reports whether the underlying storage is unusable until reset.
func (e *Engine) Poisoned() bool {
	return e.storage.Poisoned()
}

// Reset clears the collection and any poisoned state.
func (e *Engine) Reset() {
	e.storage.Reset()
	e.logger.Info("collection reset")
}

// DefaultMetric returns the metric used when a query does not name one.
func (e *Engine) DefaultMetric() metric.Metric {
	return e.defaultMetric
}
