package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/normalizer"
	"github.com/address-locator/internal/parser"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixturePath = "../../internal/gazetteer/testdata/addresses.json"

func newTestParser(t *testing.T) *parser.AddressParser {
	t.Helper()
	n, err := normalizer.NewTextNormalizer()
	require.NoError(t, err)
	records, err := gazetteer.LoadFile(fixturePath)
	require.NoError(t, err)
	idx, err := gazetteer.Build(records, n)
	require.NoError(t, err)
	p, err := parser.NewAddressParser(idx, parser.DefaultWeights(), zap.NewNop())
	require.NoError(t, err)
	return p
}

// memoryCache ICacheService trong bộ nhớ cho test, có thể ép lỗi
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]*models.Resolution
	err     error
	gets    int
	sets    int
	cleared bool
	closed  bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]*models.Resolution)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*models.Resolution, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	res, ok := c.items[key]
	return cloneResolution(res), ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, result *models.Resolution) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.err != nil {
		return c.err
	}
	c.items[key] = cloneResolution(result)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return c.err
}

func (c *memoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.items = make(map[string]*models.Resolution)
	c.cleared = true
	return nil
}

func (c *memoryCache) GetStats(_ context.Context) (*CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return &CacheStats{TotalHits: 1, TotalMiss: 1, TotalItems: int64(len(c.items))}, nil
}

func (c *memoryCache) Close() error {
	c.closed = true
	return nil
}

var errBoom = errors.New("boom")
