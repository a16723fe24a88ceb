package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/geocode"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type geocodeCacheRepositoryImpl struct {
	db *database.DB
}

func NewGeocodeCacheRepository(db *database.DB) geocode.CacheRepository {
	return &geocodeCacheRepositoryImpl{db: db}
}

func (r *geocodeCacheRepositoryImpl) Get(ctx context.Context, key geocode.Key) (geocode.Place, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT display_name, city, state, country, postcode, source
		FROM geocode_cache
		WHERE lat_key = $1 AND lng_key = $2
	`
	var p geocode.Place
	err := q.QueryRow(ctx, query, key.Lat, key.Lng).Scan(
		&p.DisplayName, &p.City, &p.State, &p.Country, &p.Postcode, &p.Source,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return geocode.Place{}, geocode.ErrCacheMiss
	}
	return p, err
}

// Put stores place; a concurrent writer for the same key wins silently.
func (r *geocodeCacheRepositoryImpl) Put(ctx context.Context, key geocode.Key, place geocode.Place) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO geocode_cache (lat_key, lng_key, display_name, city, state, country, postcode, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (lat_key, lng_key) DO NOTHING
	`
	_, err := q.Exec(ctx, query, key.Lat, key.Lng, place.DisplayName,
		place.City, place.State, place.Country, place.Postcode, place.Source)
	return err
}
