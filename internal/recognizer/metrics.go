package recognizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts per-frame pipeline outcomes. Transient misses (no hand in
// frame) are expected and tracked separately from real failures.
type Metrics struct {
	FramesTotal       prometheus.Counter
	DecodeFailures    prometheus.Counter
	NoHandFrames      prometheus.Counter
	InferenceFailures prometheus.Counter
	Predictions       prometheus.Counter
}

// NewMetrics registers and returns the pipeline metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FramesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "handspeak_frames_total",
			Help: "Inbound frames received for classification.",
		}),
		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "handspeak_frame_decode_failures_total",
			Help: "Frames that could not be decoded into an image.",
		}),
		NoHandFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "handspeak_no_hand_frames_total",
			Help: "Frames where the detector located no hand.",
		}),
		InferenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "handspeak_inference_failures_total",
			Help: "Frames where detection or classification failed unexpectedly.",
		}),
		Predictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "handspeak_predictions_total",
			Help: "Frames that produced a letter prediction.",
		}),
	}
}
