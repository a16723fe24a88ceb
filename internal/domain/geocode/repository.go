package geocode

import "context"

// CacheRepository stores resolved places. The cache is shared across tenants
// since a coordinate's place name is not tenant data.
type CacheRepository interface {
	Get(ctx context.Context, key Key) (Place, error)
	Put(ctx context.Context, key Key, place Place) error
}

// Resolver turns coordinates into a display name.
type Resolver interface {
	Resolve(ctx context.Context, lat, lng float64) string
}
