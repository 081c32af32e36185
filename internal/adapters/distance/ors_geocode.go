package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"route-refiner/internal/domain"
	"route-refiner/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves addresses one at a time using /geocode/search.
func (o *ORSDistanceProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		norm := normalize(a)
		if _, ok := out[norm]; ok {
			continue
		}

		c, err := o.geocode(ctx, norm)
		if err != nil {
			return nil, err
		}
		out[norm] = c
	}
	return out, nil
}

func (o *ORSDistanceProvider) geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	q := url.Values{}
	q.Set("text", address)
	q.Set("boundary.country", "US")
	q.Set("size", "1")
	endpoint := o.baseURL + "/geocode/search?" + q.Encode()

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response for %q: %w", address, err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}
	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
