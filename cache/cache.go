// Copyright 2025 Lexidocs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/lexidocs/docflow/core"
)

const (
	defaultStatusTTL  = 30 * time.Second
	defaultResultsTTL = time.Hour

	numCounters = 10_000
	maxCost     = 1 << 14
	bufferItems = 64
)

// ResultCache is a TTL cache for document read models. It sits in front of
// the document repository so repeated status polling and results fetching
// do not hit storage on every call.
//
// All methods are nil-safe: a nil *ResultCache behaves as an always-miss
// cache, so callers never need to guard against a disabled cache.
type ResultCache struct {
	cache      *ristretto.Cache[string, any]
	statusTTL  time.Duration
	resultsTTL time.Duration
	logger     *slog.Logger
}

// Option is a functional option for configuring a ResultCache.
type Option func(*ResultCache)

// WithStatusTTL sets the expiry for status snapshots. Status changes while
// processing, so its TTL is short by default (30s).
func WithStatusTTL(ttl time.Duration) Option {
	return func(c *ResultCache) {
		c.statusTTL = ttl
	}
}

// WithResultsTTL sets the expiry for completed results and insights.
// Results are immutable until reprocessing, so the default is long (1h).
func WithResultsTTL(ttl time.Duration) Option {
	return func(c *ResultCache) {
		c.resultsTTL = ttl
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ResultCache) {
		c.logger = logger
	}
}

// New creates a ResultCache with the provided options.
func New(opts ...Option) (*ResultCache, error) {
	c := &ResultCache{
		statusTTL:  defaultStatusTTL,
		resultsTTL: defaultResultsTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "result-cache")

	inner, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	c.cache = inner

	return c, nil
}

func statusKey(documentID string) string   { return "status:" + documentID }
func resultsKey(documentID string) string  { return "results:" + documentID }
func insightsKey(documentID string) string { return "insights:" + documentID }

// GetStatus returns the cached status snapshot for a document, or false on miss.
func (c *ResultCache) GetStatus(documentID string) (*core.StatusSnapshot, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	value, ok := c.cache.Get(statusKey(documentID))
	if !ok {
		return nil, false
	}
	snapshot, ok := value.(*core.StatusSnapshot)
	return snapshot, ok
}

// SetStatus caches a status snapshot under the status TTL.
func (c *ResultCache) SetStatus(documentID string, snapshot *core.StatusSnapshot) {
	if c == nil || c.cache == nil || snapshot == nil {
		return
	}
	c.cache.SetWithTTL(statusKey(documentID), snapshot, 1, c.statusTTL)
}

// GetResults returns the cached results for a document, or false on miss.
func (c *ResultCache) GetResults(documentID string) (*core.Results, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	value, ok := c.cache.Get(resultsKey(documentID))
	if !ok {
		return nil, false
	}
	results, ok := value.(*core.Results)
	return results, ok
}

// SetResults caches completed results under the results TTL.
func (c *ResultCache) SetResults(documentID string, results *core.Results) {
	if c == nil || c.cache == nil || results == nil {
		return
	}
	c.cache.SetWithTTL(resultsKey(documentID), results, 1, c.resultsTTL)
}

// GetInsights returns cached derived insights for a document, or false on miss.
func (c *ResultCache) GetInsights(documentID string) (map[string]any, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	value, ok := c.cache.Get(insightsKey(documentID))
	if !ok {
		return nil, false
	}
	insights, ok := value.(map[string]any)
	return insights, ok
}

// SetInsights caches derived insights under the results TTL.
func (c *ResultCache) SetInsights(documentID string, insights map[string]any) {
	if c == nil || c.cache == nil || insights == nil {
		return
	}
	c.cache.SetWithTTL(insightsKey(documentID), insights, 1, c.resultsTTL)
}

// ClearDocument drops every cached entry for a document. Called whenever the
// document record changes so readers never see stale state past one write.
func (c *ResultCache) ClearDocument(documentID string) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Del(statusKey(documentID))
	c.cache.Del(resultsKey(documentID))
	c.cache.Del(insightsKey(documentID))
}

// Wait blocks until pending writes are applied. Intended for tests, since
// ristretto applies Set calls asynchronously.
func (c *ResultCache) Wait() {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Wait()
}

// Close releases the cache's resources.
func (c *ResultCache) Close() {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Close()
}
