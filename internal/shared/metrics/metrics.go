// Package metrics keeps process-local counters and histograms and serves them
// in the Prometheus text exposition format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// collector is anything that can print itself as one metric family.
type collector interface {
	writeTo(w io.Writer)
}

var (
	registryMu sync.Mutex
	registry   []collector
)

func register[C collector](c C) C {
	registryMu.Lock()
	registry = append(registry, c)
	registryMu.Unlock()
	return c
}

var (
	analysesTotal       = register(newCounterVec("analyses_total", "Analyses completed"))
	analysesFailedTotal = register(newCounterVec("analyses_failed_total", "Analyses failed", "reason"))
	parseFailuresTotal  = register(newCounterVec("parse_failures_total", "Resume parse failures", "format"))
	reportsTotal        = register(newCounterVec("reports_generated_total", "Reports generated", "format"))
	loginsTotal         = register(newCounterVec("logins_total", "Token requests", "result"))
	privacyOpsTotal     = register(newCounterVec("privacy_operations_total", "Privacy export and delete operations", "op"))
	cacheLookupsTotal   = register(newCounterVec("cache_lookups_total", "Reference data cache lookups", "result"))
	httpRequestsTotal   = register(newCounterVec("http_requests_total", "HTTP requests served", "route", "code"))

	analysisDuration = register(newHistogram("analysis_duration_ms", "Analysis duration in milliseconds",
		[]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000}))
	httpDuration = register(newHistogram("http_request_duration_ms", "HTTP request duration in milliseconds",
		[]float64{5, 25, 100, 250, 1000, 5000}))
)

func IncAnalysis() { analysesTotal.Inc() }

// IncAnalysisFailed counts a failed analysis by coarse reason (parse, scoring, storage).
func IncAnalysisFailed(reason string) { analysesFailedTotal.Inc(reason) }

// IncParseFailure counts resume parse failures by file format.
func IncParseFailure(format string) { parseFailuresTotal.Inc(format) }

func IncReport(format string) { reportsTotal.Inc(format) }

// IncLogin counts token requests by result.
func IncLogin(result string) { loginsTotal.Inc(result) }

func IncPrivacyOp(op string) { privacyOpsTotal.Inc(op) }

// IncCache counts cache lookups by result (hit, miss, error).
func IncCache(result string) { cacheLookupsTotal.Inc(result) }

func ObserveAnalysisDuration(d time.Duration) { analysisDuration.Observe(millis(d)) }

// ObserveRequest records one served request. Unmatched routes share a label.
func ObserveRequest(route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.Inc(route, strconv.Itoa(status))
	httpDuration.Observe(millis(d))
}

func millis(d time.Duration) float64 {
	return max(float64(d.Microseconds())/1000, 0)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		c.Status(http.StatusOK)
		Write(c.Writer)
	}
}

// Write prints every registered family in registration order.
func Write(w io.Writer) {
	registryMu.Lock()
	families := slices.Clone(registry)
	registryMu.Unlock()
	for _, c := range families {
		c.writeTo(w)
	}
}

// Render returns the exposition text as a string.
func Render() string {
	var sb strings.Builder
	Write(&sb)
	return sb.String()
}

type counterVec struct {
	name, help string
	labels     []string

	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{name: name, help: help, labels: labels, values: make(map[string]uint64)}
}

// Inc adds one to the series identified by labelValues. Blank values become
// "unknown".
func (v *counterVec) Inc(labelValues ...string) {
	parts := make([]string, len(v.labels))
	for i := range v.labels {
		val := "unknown"
		if i < len(labelValues) && labelValues[i] != "" {
			val = labelValues[i]
		}
		parts[i] = fmt.Sprintf("%s=%q", v.labels[i], val)
	}
	key := strings.Join(parts, ",")

	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) writeTo(w io.Writer) {
	v.mu.Lock()
	series := make([]string, 0, len(v.values))
	for key, n := range v.values {
		if key == "" {
			series = append(series, fmt.Sprintf("%s %d", v.name, n))
			continue
		}
		series = append(series, fmt.Sprintf("%s{%s} %d", v.name, key, n))
	}
	v.mu.Unlock()
	slices.Sort(series)

	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", v.name, v.help, v.name)
	if len(series) == 0 && len(v.labels) == 0 {
		fmt.Fprintf(w, "%s 0\n", v.name)
	}
	for _, s := range series {
		fmt.Fprintln(w, s)
	}
}

// histogram stores cumulative bucket counts, so a snapshot prints as is.
type histogram struct {
	name, help string
	bounds     []float64

	mu         sync.Mutex
	cumulative []uint64
	sum        float64
	count      uint64
}

func newHistogram(name, help string, bounds []float64) *histogram {
	return &histogram{name: name, help: help, bounds: bounds, cumulative: make([]uint64, len(bounds))}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	first, _ := slices.BinarySearch(h.bounds, value)
	for i := first; i < len(h.bounds); i++ {
		h.cumulative[i]++
	}
}

func (h *histogram) writeTo(w io.Writer) {
	h.mu.Lock()
	cumulative := slices.Clone(h.cumulative)
	sum, count := h.sum, h.count
	h.mu.Unlock()

	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	for i, le := range h.bounds {
		fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.name, strconv.FormatFloat(le, 'g', -1, 64), cumulative[i])
	}
	fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", h.name, count)
	fmt.Fprintf(w, "%s_sum %s\n", h.name, strconv.FormatFloat(sum, 'g', -1, 64))
	fmt.Fprintf(w, "%s_count %d\n", h.name, count)
}
