package recognizer

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/adislis/handspeak/internal/detector"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect from the portal's origin
	},
}

// Event names on the frame channel.
const (
	EventProcessFrame     = "process_frame"
	EventPredictionResult = "prediction_result"
)

type inboundEvent struct {
	Event string          `json:"event"`
	Data  processFrameMsg `json:"data"`
}

type processFrameMsg struct {
	ImageData string `json:"image_data"`
}

type outboundEvent struct {
	Event string           `json:"event"`
	Data  predictionResult `json:"data"`
}

type predictionResult struct {
	Prediction string             `json:"prediction"`
	Landmarks  []detector.Point3D `json:"landmarks"`
}

// FrameHandler serves the bidirectional frame channel. Each connection is a
// single logical stream: inbound frames are processed synchronously, one at
// a time, and each produces at most one outbound result in send order.
type FrameHandler struct {
	pipeline *Pipeline
}

// NewFrameHandler creates a FrameHandler over the given pipeline.
func NewFrameHandler(p *Pipeline) *FrameHandler {
	return &FrameHandler{pipeline: p}
}

// ServeHTTP upgrades the connection and runs the frame loop until the
// client disconnects.
func (h *FrameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		var event inboundEvent
		if err := conn.ReadJSON(&event); err != nil {
			// Disconnect or unparsable message; either way the stream ends.
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("frame channel read error: %v", err)
			}
			return
		}

		if event.Event != EventProcessFrame {
			continue
		}

		result := h.pipeline.Process(event.Data.ImageData)

		// A frame that never became an image produces no result; the
		// next frame will. Everything else answers with a prediction,
		// possibly empty.
		if result.Outcome == OutcomeDecodeFailure {
			log.Printf("dropping undecodable frame: %v", result.Err)
			continue
		}

		out := outboundEvent{
			Event: EventPredictionResult,
			Data: predictionResult{
				Prediction: result.Prediction,
				Landmarks:  result.Landmarks,
			},
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("frame channel write error: %v", err)
			return
		}
	}
}
