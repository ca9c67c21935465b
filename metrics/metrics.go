// Package metrics provides a Prometheus-backed implementation of
// core.UploadObserver. Wire a Recorder into a saver or the Checkpointer
// façade to get per-stream counters and latency histograms for every
// checkpoint upload without touching the storage code.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/modelkeep/core"
)

// Options configures a Recorder.
type Options struct {
	// Namespace prefixes every metric name (default "modelkeep").
	Namespace string

	// Registerer receives the collectors. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// DurationBuckets are the histogram buckets for upload latency in
	// seconds. Defaults to prometheus.DefBuckets.
	DurationBuckets []float64
}

// Recorder implements core.UploadObserver on Prometheus collectors, all
// labeled by the logical artifact stream.
type Recorder struct {
	uploads  *prometheus.CounterVec
	failures *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ core.UploadObserver = (*Recorder)(nil)

// NewRecorder builds and registers the collectors. Registration failures
// (duplicate collectors on the same registry) surface as an error.
func NewRecorder(optFns ...func(o *Options)) (*Recorder, error) {
	opts := Options{
		Namespace:       "modelkeep",
		Registerer:      prometheus.DefaultRegisterer,
		DurationBuckets: prometheus.DefBuckets,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "uploads_total",
			Help:      "Total successful checkpoint uploads.",
		}, []string{"stream"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "upload_failures_total",
			Help:      "Total failed checkpoint writes, sink and upload stage combined.",
		}, []string{"stream"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Total payload bytes successfully uploaded.",
		}, []string{"stream"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "upload_duration_seconds",
			Help:      "Checkpoint write latency from sink open to upload return.",
			Buckets:   opts.DurationBuckets,
		}, []string{"stream"}),
	}

	for _, c := range []prometheus.Collector{r.uploads, r.failures, r.bytes, r.duration} {
		if err := opts.Registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// UploadSucceeded records one successful upload.
func (r *Recorder) UploadSucceeded(ev core.UploadEvent) {
	r.uploads.WithLabelValues(ev.Stream).Inc()
	r.bytes.WithLabelValues(ev.Stream).Add(float64(ev.Size))
	r.duration.WithLabelValues(ev.Stream).Observe(ev.Duration.Seconds())
}

// UploadFailed records one failed checkpoint write.
func (r *Recorder) UploadFailed(ev core.FailureEvent) {
	r.failures.WithLabelValues(ev.Stream).Inc()
}
