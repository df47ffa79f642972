package recognizer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/adislis/handspeak/internal/detector"
)

// frameDataURI returns a small valid JPEG frame encoded the way browser
// clients send it.
func frameDataURI(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test frame: %v", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestPipeline(t *testing.T, d detector.Detector, c Classifier) (*Pipeline, *Metrics) {
	t.Helper()
	m := NewMetrics(prometheus.NewRegistry())
	return NewPipeline(d, c, m), m
}

func fixtureClassifier(t *testing.T) *CentroidClassifier {
	t.Helper()
	raw := testArtifact(t, map[string]detector.HandLandmarks{
		"a": detector.FistLandmarks(),
		"b": detector.FlatHandLandmarks(),
	})
	c, err := ParseCentroidClassifier(raw)
	if err != nil {
		t.Fatalf("failed to build fixture classifier: %v", err)
	}
	return c
}

func TestPipeline_GoldenVectorYieldsKnownLetter(t *testing.T) {
	mock := detector.NewMockDetector()
	pipeline, _ := newTestPipeline(t, mock, fixtureClassifier(t))
	frame := frameDataURI(t)

	t.Run("fist classifies as A", func(t *testing.T) {
		mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

		result := pipeline.Process(frame)

		if result.Outcome != OutcomePredicted {
			t.Fatalf("expected OutcomePredicted, got %v (err %v)", result.Outcome, result.Err)
		}
		if result.Prediction != "A" {
			t.Errorf("expected prediction A, got %q", result.Prediction)
		}
		if len(result.Landmarks) != detector.NumLandmarks {
			t.Errorf("expected %d landmarks, got %d", detector.NumLandmarks, len(result.Landmarks))
		}
	})

	t.Run("flat hand classifies as B", func(t *testing.T) {
		mock.SetHands([]detector.HandLandmarks{detector.FlatHandLandmarks()})

		result := pipeline.Process(frame)

		if result.Prediction != "B" {
			t.Errorf("expected prediction B, got %q", result.Prediction)
		}
	})
}

func TestPipeline_NoHandIsNotAnError(t *testing.T) {
	mock := detector.NewMockDetector()
	pipeline, metrics := newTestPipeline(t, mock, fixtureClassifier(t))

	result := pipeline.Process(frameDataURI(t))

	if result.Outcome != OutcomeNoHand {
		t.Fatalf("expected OutcomeNoHand, got %v", result.Outcome)
	}
	if result.Err != nil {
		t.Errorf("no-hand frames must not carry an error, got %v", result.Err)
	}
	if result.Prediction != "" {
		t.Errorf("expected empty prediction, got %q", result.Prediction)
	}
	if result.Landmarks == nil || len(result.Landmarks) != 0 {
		t.Errorf("expected empty landmark list, got %v", result.Landmarks)
	}
	if got := testutil.ToFloat64(metrics.NoHandFrames); got != 1 {
		t.Errorf("expected 1 no-hand frame counted, got %g", got)
	}
}

func TestPipeline_MalformedFrameIsContained(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})
	pipeline, metrics := newTestPipeline(t, mock, fixtureClassifier(t))

	for _, payload := range []string{
		"data:image/jpeg;base64,!!!not-base64!!!",
		"data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")),
		"data:image/jpeg;base64,",
		"",
	} {
		result := pipeline.Process(payload)

		if result.Outcome != OutcomeDecodeFailure {
			t.Errorf("payload %q: expected OutcomeDecodeFailure, got %v", payload, result.Outcome)
		}
		if result.Err == nil {
			t.Errorf("payload %q: expected error in result", payload)
		}
	}

	if mock.Detects() != 0 {
		t.Errorf("detector should not run on undecodable frames, ran %d times", mock.Detects())
	}
	if got := testutil.ToFloat64(metrics.DecodeFailures); got != 4 {
		t.Errorf("expected 4 decode failures counted, got %g", got)
	}

	// The next well-formed frame still classifies.
	result := pipeline.Process(frameDataURI(t))
	if result.Prediction != "A" {
		t.Errorf("pipeline should recover after bad frames, got prediction %q", result.Prediction)
	}
}

func TestPipeline_DetectorFailureIsObservable(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetError(errors.New("worker died"))
	pipeline, metrics := newTestPipeline(t, mock, fixtureClassifier(t))

	result := pipeline.Process(frameDataURI(t))

	if result.Outcome != OutcomeInferenceFailure {
		t.Fatalf("expected OutcomeInferenceFailure, got %v", result.Outcome)
	}
	if result.Prediction != "" {
		t.Errorf("expected empty prediction, got %q", result.Prediction)
	}
	if got := testutil.ToFloat64(metrics.InferenceFailures); got != 1 {
		t.Errorf("expected 1 inference failure counted, got %g", got)
	}
}

func TestPipeline_MissingClassifierDegradesToEmpty(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})
	pipeline, _ := newTestPipeline(t, mock, nil)

	result := pipeline.Process(frameDataURI(t))

	if result.Outcome != OutcomeInferenceFailure {
		t.Fatalf("expected OutcomeInferenceFailure, got %v", result.Outcome)
	}
	if !errors.Is(result.Err, ErrNoClassifier) {
		t.Errorf("expected ErrNoClassifier, got %v", result.Err)
	}
	if result.Prediction != "" {
		t.Errorf("expected empty prediction, got %q", result.Prediction)
	}
	// Landmarks still flow to the client even without a classifier.
	if len(result.Landmarks) != detector.NumLandmarks {
		t.Errorf("expected %d landmarks, got %d", detector.NumLandmarks, len(result.Landmarks))
	}
}

func TestPipeline_AlphabetRoundTrip(t *testing.T) {
	// One synthetic reference hand per letter: the fist fixture shifted by a
	// per-letter offset, which feature normalization does not cancel because
	// each landmark moves by a different amount.
	hands := make(map[string]detector.HandLandmarks, 26)
	for i := 0; i < 26; i++ {
		label := string(rune('a' + i))
		hand := detector.FistLandmarks()
		for j := range hand.Points {
			hand.Points[j].X += float64(i) * 0.01 * float64(j) / detector.NumLandmarks
			hand.Points[j].Y += float64(i) * 0.007 * float64(j) / detector.NumLandmarks
		}
		hands[label] = hand
	}

	raw := testArtifact(t, hands)
	classifier, err := ParseCentroidClassifier(raw)
	if err != nil {
		t.Fatalf("failed to build classifier: %v", err)
	}

	mock := detector.NewMockDetector()
	pipeline, _ := newTestPipeline(t, mock, classifier)
	frame := frameDataURI(t)

	for i := 0; i < 26; i++ {
		label := string(rune('a' + i))
		want := string(rune('A' + i))

		hand := hands[label]
		mock.SetHands([]detector.HandLandmarks{hand})

		result := pipeline.Process(frame)
		if result.Prediction != want {
			t.Errorf("letter %s: expected prediction %s, got %q", label, want, result.Prediction)
		}
	}
}
