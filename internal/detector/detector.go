package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark extraction implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand landmark extraction.
type Config struct {
	// MaxHands is the maximum number of hands tracked simultaneously.
	MaxHands int

	// MinDetectionConf is the minimum detection confidence threshold (0.0-1.0).
	MinDetectionConf float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the configuration used for live letter recognition:
// a single tracked hand with video-mode confidence thresholds.
func DefaultConfig() Config {
	return Config{
		MaxHands:         1,
		MinDetectionConf: 0.7,
		MinTrackingConf:  0.5,
	}
}
