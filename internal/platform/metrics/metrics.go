package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// TourMoves counts accepted local-search moves by neighborhood.
	TourMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tour_moves_total", Help: "Accepted local-search moves."},
		[]string{"neighborhood"},
	)
	// TourPasses records how many passes a local search needed to converge.
	TourPasses = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "tour_passes", Help: "Local-search passes per call.", Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34}},
		[]string{"neighborhood"},
	)
	// RefineSavedMeters records the distance removed from each constructed route.
	RefineSavedMeters = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_refine_saved_meters", Help: "Meters removed by route refinement.", Buckets: prometheus.ExponentialBuckets(100, 4, 8)},
	)
)

var regOnce sync.Once

// Register adds the service collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(TourMoves)
		Registry.MustRegister(TourPasses)
		Registry.MustRegister(RefineSavedMeters)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
