package demo

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hyperjump/chikai/internal/config"
	"github.com/hyperjump/chikai/internal/search"
	"github.com/hyperjump/chikai/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(store storage.Storage) *search.Engine {
	cfg := &config.SearchConfig{DefaultK: 10, DefaultMetric: "order_sensitive"}
	return search.NewEngine(store, cfg, zap.NewNop())
}

func TestRun(t *testing.T) {
	store := storage.NewMemoryStorage()
	var out bytes.Buffer
	err := Run(context.Background(), newTestEngine(store), Options{Count: 120, Seed: 9, KValues: []int{3}, Out: &out})
	require.NoError(t, err)

	assert.Equal(t, 170, store.Size())
	text := out.String()
	assert.Contains(t, text, "Generated 170 product names")
	assert.Contains(t, text, "WORD ORDER SENSITIVITY")
	assert.Contains(t, text, "[order_sensitive]")
	assert.Contains(t, text, "[order_insensitive]")
	assert.Contains(t, text, "k=5: found 5 results")
	assert.Contains(t, text, "k=3: found 3 results")
	for _, q := range PerformanceQueries {
		assert.Contains(t, text, q)
	}
}

func TestRun_SmallCollection(t *testing.T) {
	store := storage.NewMemoryStorage()
	var out bytes.Buffer
	err := Run(context.Background(), newTestEngine(store), Options{Count: 3, Seed: 1, Out: &out})
	require.NoError(t, err)

	assert.Equal(t, 3, store.Size())
	assert.Contains(t, out.String(), "k=100: found 3 results")
	assert.False(t, strings.Contains(out.String(), "more results"))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, newTestEngine(storage.NewMemoryStorage()), Options{Count: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
