// Package metrics exports run telemetry in the Prometheus text format.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hejijunhao/sentiprep/internal/engine"
	"github.com/hejijunhao/sentiprep/internal/model"
)

const defaultNamespace = "sentiprep"

// Observer records engine telemetry into Prometheus collectors.
// A nil *Observer is valid and records nothing.
type Observer struct {
	gatherer  prometheus.Gatherer
	dropped   *prometheus.CounterVec
	retained  prometheus.Counter
	vocabSize prometheus.Gauge
	stageTime *prometheus.HistogramVec
}

// NewObserver registers the run collectors on reg. An empty namespace
// defaults to "sentiprep"; a nil reg gets a private registry.
func NewObserver(namespace string, reg *prometheus.Registry) (*Observer, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	o := &Observer{
		gatherer: reg,
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Records removed from the corpus, by reason.",
		}, []string{"reason"}),
		retained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_retained_total",
			Help:      "Records kept in the final corpus.",
		}),
		vocabSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_size",
			Help:      "Number of terms in the fitted vocabulary.",
		}),
		stageTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
	for _, c := range []prometheus.Collector{o.dropped, o.retained, o.vocabSize, o.stageTime} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return nil, fmt.Errorf("metrics: collector already registered in namespace %q: %w", namespace, err)
			}
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return o, nil
}

// ObserveStage records how long a stage took.
func (o *Observer) ObserveStage(stage string, d time.Duration) {
	if o == nil {
		return
	}
	o.stageTime.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveDrops adds n to the counter for reason. Zero counts still create
// the series so every reason is visible in the output.
func (o *Observer) ObserveDrops(reason model.DropReason, n int) {
	if o == nil || n < 0 {
		return
	}
	o.dropped.WithLabelValues(string(reason)).Add(float64(n))
}

// ObserveResult records the final corpus and vocabulary size.
func (o *Observer) ObserveResult(retained, vocabularySize int) {
	if o == nil {
		return
	}
	o.retained.Add(float64(retained))
	o.vocabSize.Set(float64(vocabularySize))
}

// WriteTextfile writes all collected metrics to path in the text
// exposition format, as read by the node_exporter textfile collector.
func (o *Observer) WriteTextfile(path string) error {
	if o == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, o.gatherer); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}

var _ engine.Observer = (*Observer)(nil)
