package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-refiner/internal/domain"
	"route-refiner/internal/platform/obs"
	"route-refiner/internal/ports"
	"strings"
)

var _ ports.GeocodeCache = (*SQLGeocodeCache)(nil)

// SQLGeocodeCache is a Postgres-backed cache mapping addresses to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch cached coordinates for the given addresses.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT address, lon, lat
	FROM geocode_cache
	WHERE address = ANY($1::text[]);
	`, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanGeocodeRows(rows, len(uniq))
}

// Store address -> coordinate mappings in one upsert.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, coords map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(coords) == 0 {
		return nil
	}

	addrs := make([]string, 0, len(coords))
	lons := make([]float64, 0, len(coords))
	lats := make([]float64, 0, len(coords))
	for addr, c := range coords {
		if strings.TrimSpace(addr) == "" {
			return errors.New("insert geocode cache: empty address key")
		}
		addrs = append(addrs, addr)
		lons = append(lons, c.Lon)
		lats = append(lats, c.Lat)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, lon, lat)
	SELECT g.address, g.lon, g.lat
	FROM unnest($1::text[], $2::float8[], $3::float8[]) AS g(address, lon, lat)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`, addrs, lons, lats)
	if err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}

	return nil
}

func scanGeocodeRows(rows *sql.Rows, sizeHint int) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, sizeHint)
	for rows.Next() {
		var addr string
		var lon, lat float64
		if err := rows.Scan(&addr, &lon, &lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[addr] = domain.Coordinates{Lon: lon, Lat: lat}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}
