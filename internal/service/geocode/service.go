package geocode

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/geocode"
)

// ReverseGeocoder is satisfied by the Nominatim client.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (geocode.Place, error)
}

// Resolver answers from the shared cache first and falls back to coordinates
// when the lookup fails. It never returns an error.
type Resolver struct {
	cache   geocode.CacheRepository
	remote  ReverseGeocoder
	enabled bool
}

var _ geocode.Resolver = (*Resolver)(nil)

func NewResolver(cache geocode.CacheRepository, remote ReverseGeocoder, enabled bool) *Resolver {
	return &Resolver{cache: cache, remote: remote, enabled: enabled}
}

func (r *Resolver) Resolve(ctx context.Context, lat, lng float64) string {
	key := geocode.NewKey(lat, lng)

	place, err := r.cache.Get(ctx, key)
	if err == nil {
		return place.DisplayName
	}
	if !errors.Is(err, geocode.ErrCacheMiss) {
		slog.Warn("Geocode cache lookup failed", "error", err)
	}

	if !r.enabled || r.remote == nil {
		return geocode.FallbackName(lat, lng)
	}

	place, err = r.remote.Reverse(ctx, lat, lng)
	if err != nil {
		slog.Warn("Reverse geocoding failed", "lat", key.Lat, "lng", key.Lng, "error", err)
		return geocode.FallbackName(lat, lng)
	}

	if err := r.cache.Put(ctx, key, place); err != nil {
		slog.Warn("Failed to cache geocode result", "error", err)
	}
	return place.DisplayName
}
