package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"route-refiner/internal/adapters/cache"
	"route-refiner/internal/adapters/distance"
	"route-refiner/internal/adapters/repositories"
	"route-refiner/internal/api"
	"route-refiner/internal/config"
	"route-refiner/internal/platform/db"
	"route-refiner/internal/platform/metrics"
	"route-refiner/internal/ports"
	"strings"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or SQLite, Redis, ORS) behind ports and
// starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if strings.TrimSpace(cfg.ORSAPIKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.db.Close()

	// Redis replaces the database distance cache when configured.
	distanceCache := store.distanceCache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisDistanceCacheFromURL(cfg.RedisURL, cfg.DistanceCacheTTL)
		if err != nil {
			log.Fatal(err)
		}
		defer rc.Close()
		distanceCache = rc
	}

	provider, err := distance.NewORSDistanceProvider(distance.ORSOptions{
		APIKey:            cfg.ORSAPIKey,
		RequestsPerMinute: cfg.ORSRequestsPerMinute,
	}, distanceCache, store.geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	metrics.Register()
	router := api.NewRouter(store.repo, provider, cfg.HubAddress, cfg.Refine)

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s backend=%s refine=%t", cfg.Port, store.backend, cfg.Refine.Enabled)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

type store struct {
	backend       string
	db            *sql.DB
	repo          ports.PackageRepository
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

// openStore uses Postgres when DATABASE_URL is set and a local SQLite file
// otherwise. SQLite is initialized and seeded on startup for local runs;
// Postgres is prepared by cmd/dbtool.
func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &store{
			backend:       "postgres",
			db:            conn,
			repo:          repositories.NewSQLPackageRepository(conn),
			distanceCache: cache.NewSQLDistanceCache(conn),
			geocodeCache:  cache.NewSQLGeocodeCache(conn),
		}, nil
	}

	conn, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := initAndSeed(ctx, conn, cfg.SeedPath); err != nil {
		conn.Close()
		return nil, err
	}
	return &store{
		backend:       "sqlite",
		db:            conn,
		repo:          repositories.NewSqlitePackageRepository(conn),
		distanceCache: cache.NewSqliteDistanceCache(conn),
		geocodeCache:  cache.NewSqliteGeocodeCache(conn),
	}, nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
