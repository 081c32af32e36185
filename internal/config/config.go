package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// RefineConfig controls the local-search stage that runs after route construction.
type RefineConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Epsilon   float64 `yaml:"epsilon"`
	MaxPasses int     `yaml:"max_passes"`
}

// Config is the service configuration. Values come from defaults, then an
// optional YAML file named by CONFIG_PATH, then environment variables.
type Config struct {
	Port                 string        `yaml:"port"`
	DBPath               string        `yaml:"db_path"`
	DatabaseURL          string        `yaml:"database_url"`
	RedisURL             string        `yaml:"redis_url"`
	DistanceCacheTTL     time.Duration `yaml:"distance_cache_ttl"`
	SeedPath             string        `yaml:"seed_path"`
	HubAddress           string        `yaml:"hub_address"`
	ORSAPIKey            string        `yaml:"ors_api_key"`
	ORSRequestsPerMinute int           `yaml:"ors_requests_per_minute"`
	Refine               RefineConfig  `yaml:"refine"`
}

func Default() Config {
	return Config{
		Port:                 "8080",
		DBPath:               "data/app.db",
		DistanceCacheTTL:     7 * 24 * time.Hour,
		SeedPath:             "data/seeds/packages.json",
		HubAddress:           "1901 W Madison St, Phoenix, AZ 85009",
		ORSRequestsPerMinute: 40,
		Refine: RefineConfig{
			Enabled: true,
			Epsilon: 1e-9,
		},
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadDotEnv loads a .env file into the environment when one exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Load builds the configuration and validates it.
func Load() (Config, error) {
	LoadDotEnv()

	cfg := Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	envString(&cfg.Port, "PORT")
	envString(&cfg.DBPath, "DB_PATH")
	envString(&cfg.DatabaseURL, "DATABASE_URL")
	envString(&cfg.RedisURL, "REDIS_URL")
	envString(&cfg.SeedPath, "SEED_PATH")
	envString(&cfg.HubAddress, "HUB_ADDRESS")
	envString(&cfg.ORSAPIKey, "ORS_API_KEY")

	return errors.Join(
		envParse(&cfg.DistanceCacheTTL, "DISTANCE_CACHE_TTL", time.ParseDuration),
		envParse(&cfg.ORSRequestsPerMinute, "ORS_REQUESTS_PER_MINUTE", strconv.Atoi),
		envParse(&cfg.Refine.Enabled, "REFINE_ENABLED", strconv.ParseBool),
		envParse(&cfg.Refine.Epsilon, "REFINE_EPSILON", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }),
		envParse(&cfg.Refine.MaxPasses, "REFINE_MAX_PASSES", strconv.Atoi),
	)
}

func envString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envParse[T any](dst *T, key string, parse func(string) (T, error)) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parsed, err := parse(v)
	if err != nil {
		return fmt.Errorf("load config: %s=%q: %w", key, v, err)
	}
	*dst = parsed
	return nil
}

// Validate rejects settings that would make the service misbehave at runtime.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.ORSRequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("ors_requests_per_minute must be positive, got %d", c.ORSRequestsPerMinute))
	}
	if c.Refine.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("refine.epsilon must be non-negative, got %g", c.Refine.Epsilon))
	}
	if c.Refine.MaxPasses < 0 {
		errs = append(errs, fmt.Errorf("refine.max_passes must be non-negative, got %d", c.Refine.MaxPasses))
	}
	if c.DistanceCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("distance_cache_ttl must be non-negative, got %s", c.DistanceCacheTTL))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
