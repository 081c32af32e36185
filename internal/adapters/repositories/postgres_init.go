package repositories

import (
	"context"
	"database/sql"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS packages (
		package_id INTEGER PRIMARY KEY,
		destination TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters BIGINT NOT NULL,
		duration_seconds BIGINT NOT NULL,
		PRIMARY KEY (origin, destination)
	);`,
	`CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);`,
}

// Initialize the Postgres database schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return execSchema(ctx, db, postgresSchema)
}

// Populate the Postgres database with package data from a JSON file.
func SeedPostgresFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	return seed(ctx, db, jsonPath, `
	INSERT INTO packages (package_id, destination)
	VALUES ($1, $2)
	ON CONFLICT (package_id) DO UPDATE
	SET destination = EXCLUDED.destination;
	`)
}
