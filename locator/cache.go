package locator

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes lookups of another locator, including negative ones
type Cached struct {
	locator Locator
	cache   *lru.Cache[string, *Unit]
}

// Find finds a unit by binary name
func (c *Cached) Find(ctx context.Context, binaryName string) (*Unit, error) {
	if located, ok := c.cache.Get(binaryName); ok {
		return located, nil
	}
	located, err := c.locator.Find(ctx, binaryName)
	if err != nil {
		return nil, err
	}
	c.cache.Add(binaryName, located)
	return located, nil
}

// Purge removes all cached lookups
func (c *Cached) Purge() {
	c.cache.Purge()
}

// NewCached wraps l with a cache holding up to size lookups
func NewCached(l Locator, size int) (*Cached, error) {
	cache, err := lru.New[string, *Unit](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create locator cache: %w", err)
	}
	return &Cached{locator: l, cache: cache}, nil
}
