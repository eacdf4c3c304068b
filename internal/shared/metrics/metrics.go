package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	matchRequestsTotal atomic.Uint64
	matchFailedTotal   atomic.Uint64

	syncRunsTotal          atomic.Uint64
	syncRunFailuresTotal   atomic.Uint64
	syncRecordsFailedTotal atomic.Uint64

	matchDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2000, 5000})
	syncDuration  = newHistogram([]float64{500, 1000, 5000, 15000, 30000, 60000, 300000, 900000})
)

// IncMatchRequest increments the match request counter.
func IncMatchRequest() {
	matchRequestsTotal.Add(1)
}

// IncMatchFailed increments the failed match counter.
func IncMatchFailed() {
	matchFailedTotal.Add(1)
}

// ObserveMatchDurationMs records a match request duration in milliseconds.
func ObserveMatchDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	matchDuration.Observe(value)
}

// IncSyncRun increments the sync run counter.
func IncSyncRun() {
	syncRunsTotal.Add(1)
}

// IncSyncRunFailed increments the aborted sync run counter.
func IncSyncRunFailed() {
	syncRunFailuresTotal.Add(1)
}

// AddSyncRecordsFailed adds to the per-record failure counter.
func AddSyncRecordsFailed(n uint64) {
	syncRecordsFailedTotal.Add(n)
}

// ObserveSyncDurationMs records a sync run duration in milliseconds.
func ObserveSyncDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	syncDuration.Observe(value)
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
	var buf bytes.Buffer
	writeCounter(&buf, "match_requests_total", "Total match requests served", matchRequestsTotal.Load())
	writeCounter(&buf, "match_failed_total", "Total match requests that failed", matchFailedTotal.Load())
	writeCounter(&buf, "sync_runs_total", "Total sync runs started", syncRunsTotal.Load())
	writeCounter(&buf, "sync_run_failures_total", "Total sync runs aborted by an error", syncRunFailuresTotal.Load())
	writeCounter(&buf, "sync_records_failed_total", "Total records skipped during sync runs", syncRecordsFailedTotal.Load())
	writeHistogram(&buf, "match_duration_ms", "Match request duration in milliseconds", matchDuration.Snapshot())
	writeHistogram(&buf, "sync_run_duration_ms", "Sync run duration in milliseconds", syncDuration.Snapshot())
	return buf.String()
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
