// Package recognizer implements the per-frame ASL letter recognition pipeline:
// decode an incoming camera frame, extract hand landmarks, normalize them
// into a feature vector and classify it against a fixed alphabet.
package recognizer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when the payload decodes to no image data.
var ErrEmptyFrame = errors.New("empty frame")

// DecodeFrame converts a data-URI-style encoded image string into a color
// raster. The caller owns the returned Mat and must Close it.
func DecodeFrame(dataURI string) (gocv.Mat, error) {
	payload := dataURI
	// Browser capture sends "data:image/jpeg;base64,<payload>"; accept a
	// bare base64 payload as well.
	if idx := strings.IndexByte(dataURI, ','); idx >= 0 {
		payload = dataURI[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decode base64: %w", err)
	}
	if len(raw) == 0 {
		return gocv.NewMat(), ErrEmptyFrame
	}

	frame, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decode image: %w", err)
	}
	if frame.Empty() {
		frame.Close()
		return gocv.NewMat(), ErrEmptyFrame
	}

	return frame, nil
}

// PrepareFrame mirrors the frame horizontally and converts it from the
// BGR decode order to the RGB order the landmark detector expects.
// Mirroring happens before detection so landmark coordinates match the
// selfie view the client renders.
func PrepareFrame(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
	gocv.CvtColor(*frame, frame, gocv.ColorBGRToRGB)
}
