// Package metrics exposes Prometheus counters for serial exchanges.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	serial "github.com/allbin/go-serialping"
	"github.com/allbin/go-serialping/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collectors
var (
	Exchanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serialping_exchanges_total",
		Help: "Total request lines transmitted.",
	})
	TxBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serialping_tx_bytes_total",
		Help: "Total bytes written to the serial port.",
	})
	RxBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "serialping_rx_bytes_total",
		Help: "Total bytes received in successful line reads.",
	})
	Reads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serialping_reads_total",
		Help: "Line reads by outcome.",
	}, []string{"outcome"})
	PollWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "serialping_poll_wait_seconds",
		Help:    "Time spent waiting for the first reply byte.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serialping_errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})
)

// Error label constants (stable label values to bound cardinality)
const (
	ErrWrite     = "write"
	ErrAvailable = "available"
)

// Local mirrored counters for the end-of-session summary
var (
	localExchanges uint64
	localTx        uint64
	localRx        uint64
	localReadFails uint64
	localErrors    uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	Exchanges uint64
	TxBytes   uint64
	RxBytes   uint64
	ReadFails uint64 // non-positive read outcomes
	Errors    uint64 // sum across error labels
}

func Snap() Snapshot {
	return Snapshot{
		Exchanges: atomic.LoadUint64(&localExchanges),
		TxBytes:   atomic.LoadUint64(&localTx),
		RxBytes:   atomic.LoadUint64(&localRx),
		ReadFails: atomic.LoadUint64(&localReadFails),
		Errors:    atomic.LoadUint64(&localErrors),
	}
}

// ObserveWrite records one transmitted request of n bytes
func ObserveWrite(n int) {
	Exchanges.Inc()
	TxBytes.Add(float64(n))
	atomic.AddUint64(&localExchanges, 1)
	atomic.AddUint64(&localTx, uint64(n))
}

// ObserveRead records a classified line read
func ObserveRead(o serial.Outcome) {
	Reads.WithLabelValues(o.String()).Inc()
	if o.Received() {
		RxBytes.Add(float64(o))
		atomic.AddUint64(&localRx, uint64(o))
		return
	}
	atomic.AddUint64(&localReadFails, 1)
}

// ObservePoll records how long the poll phase waited
func ObservePoll(d time.Duration) {
	PollWait.Observe(d.Seconds())
}

func IncError(where string) {
	Errors.WithLabelValues(where).Inc()
	atomic.AddUint64(&localErrors, 1)
}

// StartHTTP serves Prometheus metrics at /metrics until ctx is done.
func StartHTTP(ctx context.Context, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logging.L().Info().Str("addr", addr).Msg("metrics_listen")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error().Err(err).Msg("metrics_http_error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv
}
