package metric

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/salarycast/salarycast/app/predictor"
)

// Error reasons recorded by ErrorCount.
const (
	ReasonUnknownTitle = "unknown_title"
	ReasonOutOfRange   = "out_of_range"
	ReasonNonFinite    = "non_finite"
	ReasonInternal     = "internal"
)

type Metrics struct {
	PredictionCount *prometheus.CounterVec
	ErrorCount      *prometheus.CounterVec
	Duration        prometheus.Histogram
	BundleInfo      *prometheus.GaugeVec
}

// PredictionCount provides metrics for total successful predictions per job title
func PredictionCount() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_predictions_total",
			Help: "Total number of successful salary predictions",
		},
		[]string{"job_title"},
	)
}

// ErrorCount provides metrics for failed predictions by reason
func ErrorCount() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_prediction_errors_total",
			Help: "Total number of failed salary predictions",
		},
		[]string{"reason"},
	)
}

// Duration provides metrics for time spent in the prediction pipeline
func Duration() prometheus.Histogram {
	return prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salary_prediction_duration_seconds",
			Help:    "Time spent computing a salary prediction",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), //nolint:mnd
		},
	)
}

// BundleInfo exposes the loaded artifact bundle as a constant gauge
func BundleInfo() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salary_bundle_info",
			Help: "Artifact bundle currently serving predictions",
		},
		[]string{"version", "currency"},
	)
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		PredictionCount: PredictionCount(),
		ErrorCount:      ErrorCount(),
		Duration:        Duration(),
		BundleInfo:      BundleInfo(),
	}
	for _, c := range []prometheus.Collector{m.PredictionCount, m.ErrorCount, m.Duration, m.BundleInfo} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetBundle records the bundle being served.
func (m *Metrics) SetBundle(version, currency string) {
	m.BundleInfo.Reset()
	m.BundleInfo.WithLabelValues(version, currency).Set(1)
}

// Reason classifies a prediction error for the reason label.
func Reason(err error) string {
	var unknown *predictor.UnknownCategoryError
	var outOfRange *predictor.OutOfRangeError
	var nonFinite *predictor.NonFiniteError
	switch {
	case errors.As(err, &unknown):
		return ReasonUnknownTitle
	case errors.As(err, &outOfRange):
		return ReasonOutOfRange
	case errors.As(err, &nonFinite):
		return ReasonNonFinite
	default:
		return ReasonInternal
	}
}

// Instrument wraps p so that every prediction is counted and timed.
func Instrument(p predictor.Predictor, m *Metrics) predictor.Predictor {
	return &instrumented{next: p, metrics: m}
}

type instrumented struct {
	next    predictor.Predictor
	metrics *Metrics
}

func (i *instrumented) Name() string {
	return i.next.Name()
}

func (i *instrumented) Predict(ctx context.Context, input *predictor.PredictionInput) (*predictor.PredictionResult, error) {
	start := time.Now()
	result, err := i.next.Predict(ctx, input)
	i.metrics.Duration.Observe(time.Since(start).Seconds())
	if err != nil {
		i.metrics.ErrorCount.WithLabelValues(Reason(err)).Inc()
		return nil, err
	}
	// titles are a closed set once validated, so the label stays bounded
	i.metrics.PredictionCount.WithLabelValues(input.JobTitle).Inc()
	return result, nil
}
