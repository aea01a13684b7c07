package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var durationBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000}

type routeStats struct {
	started  atomic.Uint64
	failed   atomic.Uint64
	duration *histogram
}

var (
	mu     sync.Mutex
	routes = map[string]*routeStats{}
)

func statsFor(route string) *routeStats {
	mu.Lock()
	defer mu.Unlock()
	s, ok := routes[route]
	if !ok {
		s = &routeStats{duration: newHistogram(durationBuckets)}
		routes[route] = s
	}
	return s
}

// IncExtractStarted counts an extraction attempt on route.
func IncExtractStarted(route string) {
	statsFor(route).started.Add(1)
}

// IncExtractFailed counts a failed extraction on route.
func IncExtractFailed(route string) {
	statsFor(route).failed.Add(1)
}

// ObserveExtractDurationMs records an extraction duration in milliseconds.
func ObserveExtractDurationMs(route string, value float64) {
	if value < 0 {
		value = 0
	}
	statsFor(route).duration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	mu.Lock()
	names := make([]string, 0, len(routes))
	snapshot := make(map[string]*routeStats, len(routes))
	for name, s := range routes {
		names = append(names, name)
		snapshot[name] = s
	}
	mu.Unlock()
	sort.Strings(names)

	var buf bytes.Buffer
	writeHeader(&buf, "extract_started_total", "Total extractions started", "counter")
	for _, name := range names {
		fmt.Fprintf(&buf, "extract_started_total{route=%q} %d\n", name, snapshot[name].started.Load())
	}
	writeHeader(&buf, "extract_failed_total", "Total extractions failed", "counter")
	for _, name := range names {
		fmt.Fprintf(&buf, "extract_failed_total{route=%q} %d\n", name, snapshot[name].failed.Load())
	}
	writeHeader(&buf, "extract_duration_ms", "Extraction duration in milliseconds", "histogram")
	for _, name := range names {
		writeHistogram(&buf, "extract_duration_ms", name, snapshot[name].duration.Snapshot())
	}
	return buf.String()
}

// Reset clears all recorded values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	routes = map[string]*routeStats{}
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeHeader(buf *bytes.Buffer, name, help, kind string) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s %s\n", name, kind)
}

func writeHistogram(buf *bytes.Buffer, name, route string, snap histogramSnapshot) {
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{route=%q,le=\"%s\"} %d\n", name, route, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{route=%q,le=\"+Inf\"} %d\n", name, route, snap.count)
	fmt.Fprintf(buf, "%s_sum{route=%q} %s\n", name, route, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count{route=%q} %d\n", name, route, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
