package mock

import (
	"context"

	"github.com/sentinel-project/sentinel-go"
)

// SecretCache provides a mock implementation of a sentinel.SecretCache that
// records cached items in memory. This makes it possible to introspect on
// inputs to the cache and control the cache's output.
type SecretCache struct {
	PutInput *sentinel.SecretCacheItem
	PutError error

	// Items holds every item put in the cache, in order.
	Items []sentinel.SecretCacheItem
}

// Put adds the issued secret to the mock cache. The mock output can be
// customized. By default, it records the item and succeeds.
func (c *SecretCache) Put(ctx context.Context, item sentinel.SecretCacheItem) error {
	c.PutInput = &item

	if c.PutError != nil {
		return c.PutError
	}

	c.Items = append(c.Items, item)

	return nil
}
