package models

import (
	"errors"
	"fmt"

	"github.com/hyperjump/chikai/internal/metric"
)

// ErrInvalidK is returned when a query asks for a negative number of results.
var ErrInvalidK = errors.New("k must not be negative")

// SearchQuery represents a k-nearest-neighbour search request.
type SearchQuery struct {
	Query  string `json:"query"`
	K      *int   `json:"k,omitempty"`      // nil means the configured default
	Metric string `json:"metric,omitempty"` // empty means the configured default
}

// Validate checks the query and resolves k and the metric.
// defaultK and maxK come from config; a k above maxK is clamped (maxK <= 0 disables the cap).
// An empty query string is valid: it is scored like any other string.
func (q *SearchQuery) Validate(defaultK, maxK int, defaultMetric metric.Metric) (int, metric.Metric, error) {
	k := defaultK
	if q.K != nil {
		k = *q.K
	}
	if k < 0 {
		return 0, defaultMetric, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	if maxK > 0 && k > maxK {
		k = maxK
	}
	m := defaultMetric
	if q.Metric != "" {
		parsed, err := metric.ParseMetric(q.Metric)
		if err != nil {
			return 0, defaultMetric, err
		}
		m = parsed
	}
	return k, m, nil
}

// IntPtr returns a pointer to k, for building queries with an explicit k.
func IntPtr(k int) *int {
	return &k
}
