package recognizer

import (
	"github.com/adislis/handspeak/internal/detector"
)

// FeatureLength is the fixed classifier input size: an (x, y) pair per landmark.
const FeatureLength = 2 * detector.NumLandmarks

// Features converts a landmark set into the fixed-length vector the
// classifier expects. Each landmark contributes (x - minX, y - minY) in
// landmark order, making the vector invariant to hand position in the
// frame. Size and rotation are not normalized.
func Features(hand *detector.HandLandmarks) []float64 {
	if hand == nil {
		return nil
	}

	minX := hand.Points[0].X
	minY := hand.Points[0].Y
	for _, p := range hand.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
	}

	features := make([]float64, 0, FeatureLength)
	for _, p := range hand.Points {
		features = append(features, p.X-minX, p.Y-minY)
	}

	return features
}
