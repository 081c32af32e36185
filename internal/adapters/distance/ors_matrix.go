package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"route-refiner/internal/domain"
	"route-refiner/internal/ports"
	"strings"
)

// matrixRequest asks for one source row: location 0 against locations 1..n.
type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

func newMatrixRequest(origin domain.Coordinates, destinations []domain.Coordinates) matrixRequest {
	req := matrixRequest{
		Locations:    make([][]float64, 0, 1+len(destinations)),
		Destinations: make([]int, 0, len(destinations)),
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	}
	req.Locations = append(req.Locations, origin.CoordsToList())
	for i, c := range destinations {
		req.Locations = append(req.Locations, c.CoordsToList())
		req.Destinations = append(req.Destinations, i+1)
	}
	return req
}

// ORS reports null for pairs it cannot route.
type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// row maps the single source row onto names, rounding to whole meters and seconds.
func (mr matrixResponse) row(names []string) (map[string]ports.DistanceResult, error) {
	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf("expected 1 source row; got distances=%d durations=%d", len(mr.Distances), len(mr.Durations))
	}

	meters, seconds := mr.Distances[0], mr.Durations[0]
	if len(meters) != len(names) || len(seconds) != len(names) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(meters), len(seconds), len(names),
		)
	}

	out := make(map[string]ports.DistanceResult, len(names))
	var unreachable []string
	for i, name := range names {
		if meters[i] == nil || seconds[i] == nil {
			unreachable = append(unreachable, name)
			continue
		}
		out[name] = ports.DistanceResult{
			DistanceMeters:  int(math.Round(*meters[i])),
			DurationSeconds: int(math.Round(*seconds[i])),
		}
	}
	if len(unreachable) > 0 {
		return nil, fmt.Errorf("matrix returned no route to: %s", strings.Join(unreachable, ", "))
	}
	return out, nil
}

// fetchMatrixRow retrieves distance and duration from origin to every
// destination with a single call to /v2/matrix. coords must hold every
// destination.
func (o *ORSDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []string,
	coords map[string]domain.Coordinates,
) (map[string]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	destinationCoords := make([]domain.Coordinates, 0, len(destinations))
	for _, d := range destinations {
		c, ok := coords[d]
		if !ok {
			return nil, fmt.Errorf("missing coordinate for destination %q", d)
		}
		destinationCoords = append(destinationCoords, c)
	}

	payload, err := json.Marshal(newMatrixRequest(origin, destinationCoords))
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := o.baseURL + "/v2/matrix/" + o.profile
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}
	return mr.row(destinations)
}
