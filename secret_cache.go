package sentinel

import "context"

// SecretCache represents an external cache that tracks secrets issued through
// approved access requests. A vault configured with a cache records every
// secret it successfully retrieves so the owning application can account for
// (and eventually revoke) the grants it holds.
type SecretCache interface {
	// Put adds a newly issued secret to the cache.
	Put(ctx context.Context, item SecretCacheItem) error
}

// SecretCacheItem represents an item that can be cached in a SecretCache. It
// deliberately carries no secret material.
type SecretCacheItem struct {
	// RequestID is the identifier of the approved access request that issued
	// the secret.
	RequestID string
	// ResourceID is the name of the secret resource that was requested.
	ResourceID string
	// TaskID identifies the unit of work the secret was issued for.
	TaskID string
}
