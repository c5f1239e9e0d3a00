package search

import (
	"github.com/hyperjump/chikai/internal/config"
	"github.com/hyperjump/chikai/internal/metric"
	"github.com/hyperjump/chikai/internal/models"
)

// ProcessQuery validates the query and resolves k and the metric against cfg.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig, defaultMetric metric.Metric) (int, metric.Metric, error) {
	return query.Validate(cfg.DefaultK, cfg.MaxK, defaultMetric)
}
