package recognizer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier maps a feature vector to a class label.
type Classifier interface {
	// Predict returns the class label for a feature vector of FeatureLength.
	Predict(features []float64) (string, error)
}

// CentroidClassifier is a nearest-centroid classifier loaded once at process
// start from a serialized artifact. It holds one reference vector per class.
type CentroidClassifier struct {
	classes []centroidClass
}

type centroidClass struct {
	Label    string    `json:"label"`
	Centroid []float64 `json:"centroid"`
}

type classifierArtifact struct {
	Classes []centroidClass `json:"classes"`
}

// LoadCentroidClassifier reads the classifier artifact from path.
func LoadCentroidClassifier(path string) (*CentroidClassifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier artifact: %w", err)
	}
	return ParseCentroidClassifier(raw)
}

// ParseCentroidClassifier builds a classifier from serialized artifact bytes.
func ParseCentroidClassifier(raw []byte) (*CentroidClassifier, error) {
	var artifact classifierArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("parse classifier artifact: %w", err)
	}
	if len(artifact.Classes) == 0 {
		return nil, fmt.Errorf("classifier artifact has no classes")
	}
	for _, c := range artifact.Classes {
		if len(c.Centroid) != FeatureLength {
			return nil, fmt.Errorf("class %q: expected %d-element centroid, got %d",
				c.Label, FeatureLength, len(c.Centroid))
		}
	}

	return &CentroidClassifier{classes: artifact.Classes}, nil
}

// Predict returns the label of the class whose reference vector is nearest
// to the input by Euclidean distance.
func (c *CentroidClassifier) Predict(features []float64) (string, error) {
	if len(features) != FeatureLength {
		return "", fmt.Errorf("expected %d features, got %d", FeatureLength, len(features))
	}

	best := ""
	bestDist := math.Inf(1)
	for _, class := range c.classes {
		dist := squaredDistance(features, class.Centroid)
		if dist < bestDist {
			bestDist = dist
			best = class.Label
		}
	}

	return best, nil
}

// Classes returns the labels known to the classifier.
func (c *CentroidClassifier) Classes() []string {
	labels := make([]string, 0, len(c.classes))
	for _, class := range c.classes {
		labels = append(labels, class.Label)
	}
	return labels
}

func squaredDistance(a, b []float64) float64 {
	var total float64
	for i := range a {
		d := a[i] - b[i]
		total += d * d
	}
	return total
}
