package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands   []HandLandmarks
	err     error
	detects int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detects returns how many times Detect has been called.
func (m *MockDetector) Detects() int {
	return m.detects
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.detects++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FistLandmarks returns a preset HandLandmarks shaped like the ASL letter A:
// a closed fist with the thumb resting against the side of the index finger.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.96,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.82, Z: 0.0}

	// Thumb upright along the side of the fist
	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76, Z: 0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.59, Y: 0.70, Z: 0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.63, Z: 0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.57, Z: 0.01}

	// Four fingers curled into the palm
	landmarks.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.64, Z: -0.01}
	landmarks.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.58, Z: -0.04}
	landmarks.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.62, Z: -0.06}
	landmarks.Points[IndexTip] = Point3D{X: 0.55, Y: 0.67, Z: -0.05}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.51, Y: 0.63, Z: -0.01}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.51, Y: 0.56, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.61, Z: -0.07}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.67, Z: -0.05}

	landmarks.Points[RingMCP] = Point3D{X: 0.46, Y: 0.64, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.46, Y: 0.58, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.45, Y: 0.63, Z: -0.07}
	landmarks.Points[RingTip] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.66, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.61, Z: -0.04}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.41, Y: 0.65, Z: -0.06}
	landmarks.Points[PinkyTip] = Point3D{X: 0.41, Y: 0.69, Z: -0.05}

	return landmarks
}

// FlatHandLandmarks returns a preset HandLandmarks shaped like the ASL letter
// B: four fingers extended and together, thumb folded across the palm.
func FlatHandLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.96,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.85, Z: 0.0}

	// Thumb folded across the palm
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.78, Z: 0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.54, Y: 0.72, Z: -0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.50, Y: 0.69, Z: -0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.46, Y: 0.67, Z: -0.04}

	// Four fingers extended upward, held together
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.56, Y: 0.47, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.56, Y: 0.39, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.51, Y: 0.65, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.51, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.51, Y: 0.43, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.51, Y: 0.34, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.47, Y: 0.66, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.46, Y: 0.53, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.46, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.46, Y: 0.37, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.43, Y: 0.68, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.58, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.41, Y: 0.51, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.41, Y: 0.44, Z: 0.0}

	return landmarks
}
