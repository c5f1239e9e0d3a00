package metric

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned when a metric name cannot be parsed.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric selects the distance function used for ranking.
type Metric int

const (
	// OrderSensitive ranks by character edit distance (Levenshtein). It is the default.
	OrderSensitive Metric = iota
	// OrderInsensitive ranks by word-set Jaccard distance.
	OrderInsensitive
)

// Default is the metric used when a request does not name one.
const Default = OrderSensitive

// Distance returns the distance between a and b under m. Lower is more similar.
func (m Metric) Distance(a, b string) int {
	if m == OrderInsensitive {
		return WordJaccard(a, b)
	}
	return Levenshtein(a, b)
}

// String returns the canonical name of the metric.
func (m Metric) String() string {
	switch m {
	case OrderSensitive:
		return "order_sensitive"
	case OrderInsensitive:
		return "order_insensitive"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined metrics.
func (m Metric) Valid() bool {
	return m == OrderSensitive || m == OrderInsensitive
}

// ParseMetric parses a metric name. Matching is case-insensitive and accepts
// "levenshtein"/"edit" and "jaccard"/"words" as aliases. An empty name yields Default.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default, nil
	case "order_sensitive", "order-sensitive", "levenshtein", "edit":
		return OrderSensitive, nil
	case "order_insensitive", "order-insensitive", "jaccard", "words":
		return OrderInsensitive, nil
	default:
		return Default, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
