package recognizer

import (
	"errors"
	"log"
	"sync"

	"github.com/adislis/handspeak/internal/detector"
)

// ErrNoClassifier is reported when frames arrive but no classifier artifact
// was loaded at startup. The pipeline keeps running with empty predictions.
var ErrNoClassifier = errors.New("no classifier loaded")

// Outcome distinguishes why a frame did or did not produce a prediction.
type Outcome int

const (
	// OutcomePredicted means a hand was found and classified.
	OutcomePredicted Outcome = iota
	// OutcomeNoHand means the detector located no hand; expected and
	// frequent between gestures.
	OutcomeNoHand
	// OutcomeDecodeFailure means the frame payload was malformed.
	OutcomeDecodeFailure
	// OutcomeInferenceFailure means detection or classification failed
	// unexpectedly.
	OutcomeInferenceFailure
)

// Result is the outcome of classifying one frame. Landmarks is never nil so
// it serializes as an empty list when nothing was detected.
type Result struct {
	Prediction string
	Landmarks  []detector.Point3D
	Outcome    Outcome
	Err        error
}

// Pipeline classifies camera frames one at a time. The detector and
// classifier are injected, shared, and guarded by a mutex so at most one
// frame is in flight through them at any instant.
type Pipeline struct {
	detector   detector.Detector
	classifier Classifier
	metrics    *Metrics
	mu         sync.Mutex
}

// NewPipeline creates a Pipeline. classifier may be nil when the artifact
// failed to load; every frame then yields an empty prediction.
func NewPipeline(d detector.Detector, c Classifier, m *Metrics) *Pipeline {
	return &Pipeline{
		detector:   d,
		classifier: c,
		metrics:    m,
	}
}

// Process runs one frame through the pipeline. It never panics or
// propagates errors to the caller beyond the Result; a bad frame must not
// disturb the stream.
func (p *Pipeline) Process(imageData string) Result {
	p.metrics.FramesTotal.Inc()

	frame, err := DecodeFrame(imageData)
	if err != nil {
		p.metrics.DecodeFailures.Inc()
		return Result{
			Landmarks: []detector.Point3D{},
			Outcome:   OutcomeDecodeFailure,
			Err:       err,
		}
	}
	defer frame.Close()

	PrepareFrame(&frame)

	p.mu.Lock()
	defer p.mu.Unlock()

	hands, err := p.detector.Detect(&frame)
	if err != nil {
		p.metrics.InferenceFailures.Inc()
		log.Printf("hand detection failed: %v", err)
		return Result{
			Landmarks: []detector.Point3D{},
			Outcome:   OutcomeInferenceFailure,
			Err:       err,
		}
	}

	if len(hands) == 0 {
		p.metrics.NoHandFrames.Inc()
		return Result{
			Landmarks: []detector.Point3D{},
			Outcome:   OutcomeNoHand,
		}
	}

	hand := &hands[0]
	landmarks := hand.PointSlice()

	if p.classifier == nil {
		p.metrics.InferenceFailures.Inc()
		return Result{
			Landmarks: landmarks,
			Outcome:   OutcomeInferenceFailure,
			Err:       ErrNoClassifier,
		}
	}

	class, err := p.classifier.Predict(Features(hand))
	if err != nil {
		p.metrics.InferenceFailures.Inc()
		log.Printf("classification failed: %v", err)
		return Result{
			Landmarks: landmarks,
			Outcome:   OutcomeInferenceFailure,
			Err:       err,
		}
	}

	p.metrics.Predictions.Inc()
	return Result{
		Prediction: Letter(class),
		Landmarks:  landmarks,
		Outcome:    OutcomePredicted,
	}
}
