package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"net/http"
	"route-refiner/internal/domain"
	"route-refiner/internal/platform/obs"
	"route-refiner/internal/ports"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	defaultORSProfile = "driving-car"
)

// ORSOptions configures the OpenRouteService client.
type ORSOptions struct {
	APIKey  string
	BaseURL string
	Profile string
	// RequestsPerMinute caps outgoing calls; 0 disables the limiter.
	RequestsPerMinute int
	Timeout           time.Duration
}

// ORSDistanceProvider implements DistanceMatrixProvider using OpenRouteService.
//
// Addresses are normalized before lookup. Coordinates and matrix rows are read
// from the caches first; only misses reach the API, and fresh results are
// written back. The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	limiter       *rate.Limiter
	retryBackoff  time.Duration
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

var _ ports.DistanceMatrixProvider = (*ORSDistanceProvider)(nil)

// NewORSDistanceProvider builds a provider. Either cache may be nil.
func NewORSDistanceProvider(
	opts ORSOptions,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*ORSDistanceProvider, error) {
	if opts.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultORSBaseURL
	}
	if opts.Profile == "" {
		opts.Profile = defaultORSProfile
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &ORSDistanceProvider{
		session:       &http.Client{Timeout: opts.Timeout},
		apiKey:        opts.APIKey,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		profile:       opts.Profile,
		limiter:       limiter,
		retryBackoff:  200 * time.Millisecond,
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetDistance delegates to the batched path to reuse caching and matrix logic.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin, normDestination := normalize(origin), normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get distances %q -> %q: %w", normOrigin, normDestination, err)
	}

	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}
	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin, destination)
	}
	return result, nil
}

// GetDistances computes distances from a single origin to many destinations.
// Results are keyed by the normalized destination; the origin itself and
// blank destinations are skipped.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	destList := distinctDestinations(normOrigin, destinations)
	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	hits := map[string]ports.DistanceResult{}
	// Check persistent distance cache before issuing external API calls.
	if o.distanceCache != nil {
		hits, err = o.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			return nil, fmt.Errorf("ORS get distance cache: %w", err)
		}
	}

	misses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := hits[d]; !ok {
			misses = append(misses, d)
		}
	}
	if len(misses) == 0 {
		return hits, nil
	}

	coords, err := o.coordinates(ctx, append([]string{normOrigin}, misses...))
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := o.fetchMatrixRow(ctx, coords[normOrigin], misses, coords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Printf("req_id=%s op=ors.GetDistances distance cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	out := make(map[string]ports.DistanceResult, len(hits)+len(fetched))
	maps.Copy(out, hits)
	maps.Copy(out, fetched)
	return out, nil
}

// coordinates resolves every address, cache first, and fails when one is missing.
func (o *ORSDistanceProvider) coordinates(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	coords := map[string]domain.Coordinates{}
	if o.geocodeCache != nil {
		var err error
		coords, err = o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
	}

	var misses []string
	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			misses = append(misses, a)
		}
	}

	if len(misses) > 0 {
		fresh, err := o.geocodeMany(ctx, misses)
		if err != nil {
			return nil, err
		}
		if o.geocodeCache != nil {
			if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
				log.Printf("req_id=%s op=ors.geocode geocode cache write failed: %v", obs.RequestID(ctx), err)
			}
		}

		merged := make(map[string]domain.Coordinates, len(coords)+len(fresh))
		maps.Copy(merged, coords)
		maps.Copy(merged, fresh)
		coords = merged
	}

	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			return nil, fmt.Errorf("missing coordinate for %q", a)
		}
	}
	return coords, nil
}

// distinctDestinations normalizes destinations, dropping blanks, duplicates and
// the origin while keeping first-seen order.
func distinctDestinations(origin string, destinations []string) []string {
	seen := make(map[string]struct{}, len(destinations))
	out := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := normalize(d)
		if nd == "" || nd == origin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		out = append(out, nd)
	}
	return out
}
