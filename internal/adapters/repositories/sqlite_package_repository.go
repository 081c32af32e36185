package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-refiner/internal/domain"
	"route-refiner/internal/ports"
)

var (
	_ ports.PackageRepository = (*SqlitePackageRepository)(nil)
	_ ports.PackageRepository = (*SQLPackageRepository)(nil)
)

const listPackagesQuery = `
	SELECT
		package_id,
		destination
	FROM packages
	ORDER BY package_id;
	`

// SQLite-backed implementation of the PackageRepository port.
type SqlitePackageRepository struct{ DB *sql.DB }

func NewSqlitePackageRepository(db *sql.DB) *SqlitePackageRepository {
	return &SqlitePackageRepository{DB: db}
}

// Return all packages stored in the database.
func (s *SqlitePackageRepository) ListPackages(ctx context.Context) ([]*domain.Package, error) {
	return listPackages(ctx, s.DB)
}

// Postgres-backed implementation of the PackageRepository port.
type SQLPackageRepository struct{ DB *sql.DB }

func NewSQLPackageRepository(db *sql.DB) *SQLPackageRepository {
	return &SQLPackageRepository{DB: db}
}

func (s *SQLPackageRepository) ListPackages(ctx context.Context) ([]*domain.Package, error) {
	return listPackages(ctx, s.DB)
}

func listPackages(ctx context.Context, db *sql.DB) ([]*domain.Package, error) {
	if db == nil {
		return nil, errors.New("package repository: DB is nil")
	}

	rows, err := db.QueryContext(ctx, listPackagesQuery)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0, 64)
	for rows.Next() {
		var id int
		var dest string
		if err := rows.Scan(&id, &dest); err != nil {
			return nil, fmt.Errorf("list packages: scan row: %w", err)
		}
		packages = append(packages, &domain.Package{PackageID: id, Destination: dest})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return packages, nil
}
